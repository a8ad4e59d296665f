package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mergington/enroll/internal/api"
	"github.com/mergington/enroll/internal/app"
	"github.com/mergington/enroll/internal/cachemanager"
	"github.com/mergington/enroll/internal/config"
	"github.com/mergington/enroll/internal/flags"
	"github.com/mergington/enroll/internal/log"
	"github.com/mergington/enroll/internal/mode"
	"github.com/mergington/enroll/internal/mode/shared"
	"github.com/mergington/enroll/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugMode bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:     "enroll",
	Short:   "A terminal ui for Mergington High extracurricular signups",
	Long:    `A terminal user interface for browsing Mergington High School's extracurricular activities, signing students up, and managing activity rosters.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/enroll/config.yaml)")
	rootCmd.PersistentFlags().StringP("server", "s", "",
		"activities server URL")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false,
		"write debug logs to .enroll/debug.log")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"disable automatic refresh when the config file changes")

	// Bind flags to viper
	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper(), config.Defaults())

	viper.SetEnvPrefix("ENROLL")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .enroll/config.yaml (current directory)
		// 2. ~/.config/enroll/config.yaml (user config)
		if _, err := os.Stat(".enroll/config.yaml"); err == nil {
			viper.SetConfigFile(".enroll/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "enroll"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .enroll/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := filepath.Join(".enroll", "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)

	if debugMode || os.Getenv("ENROLL_DEBUG") != "" {
		if cleanup, err := log.Init(filepath.Join(".enroll", "debug.log")); err == nil {
			cobra.OnFinalize(cleanup)
		}
	}
}

// configFilePath returns the config file in use, defaulting to the local
// project path when none was loaded.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return filepath.Join(".enroll", "config.yaml")
}

// newServices builds the shared service container used by the TUI and the
// plain CLI subcommands.
func newServices() (mode.Services, error) {
	if err := cfg.Validate(); err != nil {
		return mode.Services{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return mode.Services{
		Client:     api.NewClient(cfg.ServerURL, cfg.Timeout),
		Config:     &cfg,
		ConfigPath: configFilePath(),
		Flags:      flags.New(cfg.Flags),
		RenderCache: cachemanager.NewInMemoryCacheManager[string, string](
			"markdown-render", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
		Clock: shared.RealClock{},
	}, nil
}

// initTracing starts the tracing provider and returns its shutdown func.
func initTracing() (func(), error) {
	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	services, err := newServices()
	if err != nil {
		return err
	}

	// Handle --no-auto-reload flag (negated logic)
	if noAutoReload, _ := cmd.Flags().GetBool("no-auto-reload"); noAutoReload {
		cfg.AutoReload = false
	}

	shutdownTracing, err := initTracing()
	if err != nil {
		return err
	}
	defer shutdownTracing()

	// Global zone manager for mouse click detection on card controls
	zone.NewGlobal()
	defer zone.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if services.Flags.Enabled(flags.FlagMouseSupport) {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	model := app.New(services)
	p := tea.NewProgram(model, opts...)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
