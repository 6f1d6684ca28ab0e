package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] for YAML (or JSON) config files.
//
// Keys are flag names. Nested mappings are joined to their parent key
// with "-", and "_" may be written for "-", so these are equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// Scalars are passed to kong as text and sequences as comma-separated
// text. Command-line flags override config values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: %w", err)
	}

	c := config{}
	c.flatten("", doc)

	return c, nil
}

// config implements [kong.Resolver] over flattened config keys.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := normalize(prefix + k)

		switch x := v.(type) {
		case map[string]any:
			c.flatten(key+"-", x)

		case []any:
			items := make([]string, len(x))
			for i, item := range x {
				items[i] = fmt.Sprint(item)
			}

			c[key] = strings.Join(items, ",")

		case bool, nil:
			c[key] = x

		default:
			c[key] = fmt.Sprint(x)
		}
	}
}

func normalize(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "_", "-")
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	v, ok := c[normalize(flag.Name)]
	if !ok || v == nil {
		return nil, nil
	}

	return v, nil
}
