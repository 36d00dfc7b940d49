package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "voxgate",
	Short: "Multi-platform chatbot webhook gateway",
	Long: `voxgate normalizes inbound chatbot webhooks from voice and chat
platforms into one canonical request model, composes a localized,
multi-modal reply, and fans results out to analytics trackers.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".voxgate.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
