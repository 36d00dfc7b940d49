package i18n

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Templates holds the variants stored under one translation key. A key maps
// to either a single template string or an ordered list of interchangeable
// variants; both forms decode into the same slice.
type Templates []string

// UnmarshalYAML accepts a scalar string or a sequence of strings.
func (t *Templates) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*t = Templates{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		if len(list) == 0 {
			return fmt.Errorf("translation value must not be an empty list (line %d)", value.Line)
		}
		*t = Templates(list)
		return nil
	default:
		return fmt.Errorf("translation value must be a string or list of strings (line %d)", value.Line)
	}
}

// Table maps language -> key -> template variants. It is loaded once at
// startup and read concurrently without synchronization afterwards.
type Table map[string]map[string]Templates

// Languages returns the language tags present in the table.
func (t Table) Languages() []string {
	langs := make([]string, 0, len(t))
	for lang := range t {
		langs = append(langs, lang)
	}
	return langs
}

// lookup returns the variants for lang/key, or nil. An empty variant list
// (possible in hand-built tables) counts as a miss so resolution never has
// to choose from zero variants.
func (t Table) lookup(lang, key string) Templates {
	keys, ok := t[lang]
	if !ok {
		return nil
	}
	ts := keys[key]
	if len(ts) == 0 {
		return nil
	}
	return ts
}

// Parse decodes a single YAML document of the form
//
//	en:
//	  WELCOME: ["Hi", "Hello"]
//	  BYE: Bye
func Parse(data []byte) (Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing translations: %w", err)
	}
	if table == nil {
		table = Table{}
	}
	return table, nil
}

// Load reads every translation file matching the given glob pattern
// (doublestar syntax, so "locales/**/*.yml" works) and merges them into one
// table. Later files win on key conflicts within a language.
func Load(pattern string) (Table, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad locales pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no translation files match %q", pattern)
	}

	merged := Table{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		table, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for lang, keys := range table {
			if merged[lang] == nil {
				merged[lang] = make(map[string]Templates, len(keys))
			}
			for key, templates := range keys {
				merged[lang][key] = templates
			}
		}
	}
	return merged, nil
}
