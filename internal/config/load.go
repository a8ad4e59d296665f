package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads the config file at path on top of the defaults.
// Used for reloading after the watcher reports a change; initial startup
// goes through the global viper instance in cmd.
func Load(path string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SetDefaults registers every config key's default on the given viper
// instance so partial config files unmarshal completely.
func SetDefaults(v *viper.Viper, defaults Config) {
	setDefaults(v, defaults)
}

func setDefaults(v *viper.Viper, defaults Config) {
	v.SetDefault("server_url", defaults.ServerURL)
	v.SetDefault("email", defaults.Email)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("auto_reload", defaults.AutoReload)
	v.SetDefault("ui.markdown_descriptions", defaults.UI.MarkdownDescriptions)
	v.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	v.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	for name, enabled := range defaults.Flags {
		v.SetDefault("flags."+name, enabled)
	}
}
