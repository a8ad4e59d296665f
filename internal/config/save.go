package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// defaultConfigTemplate is written on first run when no config file exists.
const defaultConfigTemplate = `# enroll configuration
# Backend address for the Mergington activities API.
server_url: http://localhost:8000

# Default email prefilled in the signup form. Updated after each signup.
email: ""

# Request timeout.
timeout: 10s

# Re-read this file (and refresh the roster) when it changes on disk.
auto_reload: true

ui:
  markdown_descriptions: true
  show_status_bar: true
  markdown_style: dark

tracing:
  enabled: false
  exporter: none

# Feature flags.
flags:
  strict-capacity: false
  mouse-support: true
`

// WriteDefaultConfig writes the default config file at path, creating parent
// directories as needed. Fails if the file already exists.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// SaveEmail updates the email key in the config file while preserving
// comments and formatting in other sections, using yaml.Node surgery.
func SaveEmail(configPath, email string) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: user's own config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	emailNode := &yaml.Node{Kind: yaml.ScalarNode, Value: email, Style: yaml.DoubleQuotedStyle}

	if doc.Kind == 0 {
		// Empty or missing file: create a minimal document.
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: "email"},
						emailNode,
					},
				},
			},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind == yaml.MappingNode {
			found := false
			for i := 0; i < len(root.Content)-1; i += 2 {
				if root.Content[i].Value == "email" {
					root.Content[i+1] = emailNode
					found = true
					break
				}
			}
			if !found {
				root.Content = append(root.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: "email"},
					emailNode,
				)
			}
		}
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(configPath, out, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
