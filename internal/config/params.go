package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// LoadParameterOverrides reads run-parameter values from a toml, yaml or json file.
// Parameters may be grouped in sections, e.g. "[run] num_runs = 50"; section names are dropped,
// so the same parameter name may appear only once across the file.
func LoadParameterOverrides(path string) (map[string]any, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read parameter file %s: %w", path, err)
	}

	keys := v.AllKeys()
	sort.Strings(keys)

	overrides := make(map[string]any, len(keys))
	seen := make(map[string]string, len(keys))
	for _, key := range keys {
		name := key[strings.LastIndex(key, ".")+1:]
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("parameter %s is set twice in %s (%s and %s)", name, path, prev, key)
		}
		seen[name] = key

		value := v.Get(key)
		if text, ok := value.(string); ok {
			number, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s in %s is not a number: %q", name, path, text)
			}
			value = number
		}
		overrides[name] = value
	}

	return overrides, nil
}
