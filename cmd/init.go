package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voxgate/voxgate/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively create a .voxgate.yml configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(".voxgate.yml"); err == nil {
			return fmt.Errorf(".voxgate.yml already exists; remove it first or edit it directly")
		}
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
