package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maxvaer/weakscan/internal/config"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// loadSettings fills every flag the user did not set on the command line
// from the config file or WEAKSCAN_* environment variables. Keys use the
// flag names, e.g. "threads: 20" or WEAKSCAN_NO_COLOR=true. It returns the
// config file that was read, if any.
func loadSettings(fs *pflag.FlagSet, file string) (string, error) {
	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(config.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(config.AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(config.ConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return "", fmt.Errorf("reading config: %w", err)
		}
	}

	var setErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if setErr != nil || f.Changed || f.Name == "config" || !v.IsSet(f.Name) {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			if err := sv.Replace(splitList(v.GetStringSlice(f.Name))); err != nil {
				setErr = fmt.Errorf("config key %q: %w", f.Name, err)
			}
			return
		}
		if err := fs.Set(f.Name, v.GetString(f.Name)); err != nil {
			setErr = fmt.Errorf("config key %q: %w", f.Name, err)
		}
	})

	return v.ConfigFileUsed(), setErr
}

// splitList also accepts comma-separated entries, the form env vars use.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
