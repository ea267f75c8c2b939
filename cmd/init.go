package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/codetint/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize codetint configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure codetint for your site and writes a .codetint.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
