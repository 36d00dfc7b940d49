package cmd

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/spf13/cobra"

	"github.com/voxgate/voxgate/internal/config"
	"github.com/voxgate/voxgate/internal/i18n"
	"github.com/voxgate/voxgate/internal/progress"
)

var placeholderPattern = regexp.MustCompile(`%[a-zA-Z]`)

var localesCmd = &cobra.Command{
	Use:   "locales",
	Short: "Lint the translation files",
	Long: `Loads every translation file and reports keys whose variants or
language versions disagree on the number of printf placeholders, and keys
missing from some languages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		table, err := i18n.Load(cfg.LocalesGlob)
		if err != nil {
			return fmt.Errorf("loading translations: %w", err)
		}

		keys := allKeys(table)
		langs := table.Languages()
		sort.Strings(langs)

		reporter := progress.NewReporter()
		reporter.Start("Linting locales", len(keys))

		var problems []string
		for i, key := range keys {
			reporter.Update(i+1, key)
			problems = append(problems, lintKey(table, langs, key)...)
		}
		reporter.Finish()

		if len(problems) == 0 {
			fmt.Printf("%d keys across %d languages, no problems found\n", len(keys), len(langs))
			return nil
		}
		for _, p := range problems {
			fmt.Println(p)
		}
		return fmt.Errorf("%d problems found", len(problems))
	},
}

// allKeys returns the union of keys across languages, sorted.
func allKeys(table i18n.Table) []string {
	seen := map[string]bool{}
	for _, keys := range table {
		for key := range keys {
			seen[key] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// lintKey checks one key across all languages: every variant in every
// language must carry the same number of placeholders, and the key should
// exist everywhere.
func lintKey(table i18n.Table, langs []string, key string) []string {
	var problems []string
	counts := map[int][]string{} // placeholder count -> "lang: template"

	for _, lang := range langs {
		variants, ok := table[lang][key]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: missing in language %q", key, lang))
			continue
		}
		for _, tpl := range variants {
			n := len(placeholderPattern.FindAllString(tpl, -1))
			counts[n] = append(counts[n], fmt.Sprintf("%s: %q", lang, tpl))
		}
	}

	if len(counts) > 1 {
		problems = append(problems, fmt.Sprintf("%s: inconsistent placeholder counts:", key))
		ns := make([]int, 0, len(counts))
		for n := range counts {
			ns = append(ns, n)
		}
		sort.Ints(ns)
		for _, n := range ns {
			for _, entry := range counts[n] {
				problems = append(problems, fmt.Sprintf("  %d placeholders in %s", n, entry))
			}
		}
	}
	return problems
}

func init() {
	rootCmd.AddCommand(localesCmd)
}
