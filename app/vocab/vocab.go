// Package vocab holds the canonical name vocabularies, the fuzzy matcher
// used to validate free-text candidates against them, and the hand-maintained
// fix tables for known abbreviations and misspellings. Vocabularies are
// loaded once at startup and never mutated afterwards.
package vocab

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Kind string

const (
	KindUniversity Kind = "university"
	KindProgram    Kind = "program"
)

// Vocabulary is an immutable, sorted set of trusted canonical names.
type Vocabulary struct {
	kind       Kind
	entries    []string
	normalized []string
	index      map[string]string // normalized form -> canonical name
}

var accentMarks = runes.Remove(runes.In(unicode.Mn))

// Normalize produces the comparison form of a name: lowercased,
// accent-stripped, whitespace-collapsed. The transformer chain carries
// internal buffers, so each call builds its own; the pipeline workers call
// this concurrently.
func Normalize(s string) string {
	stripAccents := transform.Chain(norm.NFD, accentMarks, norm.NFC)
	result, _, _ := transform.String(stripAccents, strings.ToLower(s))
	return strings.Join(strings.Fields(result), " ")
}

func New(kind Kind, names []string) *Vocabulary {
	seen := make(map[string]struct{}, len(names))
	entries := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		entries = append(entries, name)
	}
	sort.Strings(entries)

	normalized := make([]string, len(entries))
	index := make(map[string]string, len(entries))
	for i, entry := range entries {
		normalized[i] = Normalize(entry)
		if _, ok := index[normalized[i]]; !ok {
			index[normalized[i]] = entry
		}
	}

	return &Vocabulary{kind: kind, entries: entries, normalized: normalized, index: index}
}

// Load reads a vocabulary from a flat text file, one canonical name per line.
// Blank lines and lines starting with '#' are skipped.
func Load(path string, kind Kind) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	return New(kind, names), nil
}

func (v *Vocabulary) Kind() Kind {
	return v.kind
}

func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// Lookup returns the canonical name for an exact (normalized) match.
func (v *Vocabulary) Lookup(candidate string) (string, bool) {
	canonical, ok := v.index[Normalize(candidate)]
	return canonical, ok
}
