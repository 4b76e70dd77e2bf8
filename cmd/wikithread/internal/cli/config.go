package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-wikithread"
)

const envPrefix = "WIKITHREAD"

// loadConfig layers the config file, WIKITHREAD_* environment variables and
// bound flags over wikithread.DefaultConfig.
func loadConfig(v *viper.Viper, path string) (wikithread.Config, error) {
	if err := setDefaults(v, wikithread.DefaultConfig()); err != nil {
		return wikithread.Config{}, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return wikithread.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(".wikithread")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return wikithread.Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg wikithread.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return wikithread.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return wikithread.Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every leaf of cfg as a viper default so environment
// variables can override keys that no config file mentions.
func setDefaults(v *viper.Viper, cfg wikithread.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("decode default config: %w", err)
	}
	setDefaultTree(v, "", tree)
	return nil
}

func setDefaultTree(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		if nested, ok := value.(map[string]any); ok {
			setDefaultTree(v, prefix+key+".", nested)
			continue
		}
		v.SetDefault(prefix+key, value)
	}
}

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the configuration after files, environment and flags are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			if format == outputText {
				format = outputYAML
			}
			return writeStructured(a.out, format, a.cfg)
		},
	})
	return cmd
}
