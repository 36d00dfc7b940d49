package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .voxgate.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to voxgate! Let's configure your gateway.")
	fmt.Println()

	cfg := DefaultConfig()

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port selection: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	langPrompt := promptui.Select{
		Label: "Default language",
		Items: []string{"en", "de", "fr", "es", "pt", "ja"},
	}
	_, lang, err := langPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("language selection: %w", err)
	}
	cfg.DefaultLanguage = lang

	localesPrompt := promptui.Prompt{
		Label:   "Translation files glob",
		Default: cfg.LocalesGlob,
	}
	if cfg.LocalesGlob, err = localesPrompt.Run(); err != nil {
		return nil, fmt.Errorf("locales selection: %w", err)
	}

	slackPrompt := promptui.Select{
		Label: "Enable the Slack adapter",
		Items: []string{"no", "yes"},
	}
	if _, answer, err := slackPrompt.Run(); err != nil {
		return nil, fmt.Errorf("slack selection: %w", err)
	} else if answer == "yes" {
		cfg.Slack.Enabled = true
		secretPrompt := promptui.Prompt{
			Label: "Slack signing secret (empty to skip verification)",
			Mask:  '*',
		}
		if cfg.Slack.SigningSecret, err = secretPrompt.Run(); err != nil {
			return nil, fmt.Errorf("signing secret: %w", err)
		}
	}

	consolePrompt := promptui.Select{
		Label: "Enable the live console tracker",
		Items: []string{"yes", "no"},
	}
	if _, answer, err := consolePrompt.Run(); err != nil {
		return nil, fmt.Errorf("console selection: %w", err)
	} else {
		cfg.Trackers.Console = answer == "yes"
	}

	if err := cfg.Save(".voxgate.yml"); err != nil {
		return nil, err
	}
	fmt.Println()
	fmt.Println("Configuration written to .voxgate.yml")
	return cfg, nil
}
