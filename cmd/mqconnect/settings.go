package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/miladsoleymani/mqconnect/config"
	"github.com/miladsoleymani/mqconnect/logger"
)

const envPrefix = "MQCONNECT"

// settings are the resolved command line and environment options.
type settings struct {
	ConfigFile string
	Set        []string
	LogLevel   string
	LogFormat  string
}

// loadSettings merges flags with MQCONNECT_* environment variables.
// Flags given explicitly win.
func loadSettings(cmd *cobra.Command) (settings, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return settings{}, fmt.Errorf("bind flags: %w", err)
	}
	s := settings{
		ConfigFile: v.GetString("config"),
		Set:        v.GetStringSlice("set"),
		LogLevel:   v.GetString("log-level"),
		LogFormat:  v.GetString("log-format"),
	}
	// viper splits array flags on commas, which provider URL lists contain.
	if cmd.Flags().Changed("set") {
		set, err := cmd.Flags().GetStringArray("set")
		if err != nil {
			return settings{}, err
		}
		s.Set = set
	}
	return s, nil
}

func (s settings) initLogger() error {
	return logger.Init(logger.Config{
		Level:    s.LogLevel,
		Encoding: s.LogFormat,
	})
}

// properties normalizes the configured source. A descriptor file takes the
// descriptor path, with --set entries appended to its properties array.
// Without one the --set entries form a dynamic map.
func (s settings) properties() (config.Properties, error) {
	if s.ConfigFile != "" {
		f, err := config.LoadFile(s.ConfigFile)
		if err != nil {
			return nil, err
		}
		f.Properties = append(f.Properties, s.Set...)
		return config.FromDescriptor(f)
	}
	if len(s.Set) == 0 {
		return nil, fmt.Errorf("no configuration: pass --config or --set")
	}
	m := config.Properties{}
	if err := config.ParseList(s.Set, m); err != nil {
		return nil, err
	}
	return config.FromMap(m)
}

const mask = "******"

// masked returns a copy of p with credentials hidden.
func masked(p config.Properties) config.Properties {
	out := p.Clone()
	for k := range out {
		if strings.Contains(strings.ToLower(k), "password") {
			out[k] = mask
			continue
		}
		if u, err := url.Parse(out[k]); err == nil && u.User != nil {
			if _, ok := u.User.Password(); ok {
				out[k] = u.Redacted()
			}
		}
	}
	return out
}
