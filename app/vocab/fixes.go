package vocab

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FixTable maps normalized raw names to their hand-maintained corrections
// (abbreviation expansions and known misspellings). An exact fix-table hit
// takes precedence over fuzzy matching.
type FixTable struct {
	entries map[string]string
}

type fixesFile struct {
	Universities map[string]string `yaml:"universities"`
	Programs     map[string]string `yaml:"programs"`
}

// FixTables bundles the university and program tables loaded from one file.
type FixTables struct {
	Universities *FixTable
	Programs     *FixTable
}

func newFixTable(raw map[string]string) *FixTable {
	entries := make(map[string]string, len(raw))
	for key, value := range raw {
		entries[Normalize(key)] = value
	}
	return &FixTable{entries: entries}
}

// LoadFixTables reads the fix tables from a YAML file. A missing file yields
// empty tables, not an error, so the pipeline runs without hand-maintained
// corrections until someone adds them.
func LoadFixTables(path string) (*FixTables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FixTables{
				Universities: newFixTable(nil),
				Programs:     newFixTable(nil),
			}, nil
		}
		return nil, fmt.Errorf("failed to read fix tables: %w", err)
	}

	var file fixesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fix tables: %w", err)
	}

	return &FixTables{
		Universities: newFixTable(file.Universities),
		Programs:     newFixTable(file.Programs),
	}, nil
}

// Apply returns the correction for a raw name, if one is present.
func (t *FixTable) Apply(raw string) (string, bool) {
	fixed, ok := t.entries[Normalize(raw)]
	return fixed, ok
}

func (t *FixTable) Len() int {
	return len(t.entries)
}
