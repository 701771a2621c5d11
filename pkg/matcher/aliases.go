package matcher

import (
	"maps"
	"os"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/records"
)

// Aliases maps a primary provider key to the provider key the secondary
// source uses for the same organization. Keys and values are normalized on
// lookup.
type Aliases map[string]string

// DefaultAliases returns the built-in provider alias table.
func DefaultAliases() Aliases {
	return Aliases{
		"meta": "llama",
	}
}

// Resolve returns the aliased, normalized provider key.
func (a Aliases) Resolve(provider string) string {
	p := records.Normalize(provider)
	for from, to := range a {
		if records.Normalize(from) == p {
			return records.Normalize(to)
		}
	}
	return p
}

// Normalized returns a copy of the table with normalized keys and values.
// When two keys normalize to the same value the lexically first raw key wins.
func (a Aliases) Normalized() Aliases {
	out := make(Aliases, len(a))
	for _, from := range slices.Sorted(maps.Keys(a)) {
		key := records.Normalize(from)
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = records.Normalize(a[from])
	}
	return out
}

// LoadAliases reads an alias table from a YAML file of provider: provider pairs.
func LoadAliases(path string) (Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var aliases Aliases
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if aliases == nil {
		aliases = Aliases{}
	}
	return aliases, nil
}
