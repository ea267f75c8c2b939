package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "codetint",
	Short: "Theme colors and rainbow brackets for highlighted code in static doc sites",
	Long: `codetint post-processes statically generated documentation. It recolors
code blocks that a highlighter (pandoc/Quarto or chroma) has already
tokenized: keywords, strings, comments and identifiers get theme colors,
and brackets get a rainbow color by nesting depth.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".codetint.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
