// Package cmd wires the update pipeline into the shellcmdr command tree.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath   string
	outputFormat string
	verbose      bool
	quiet        bool
	assumeYes    bool
)

// Execute builds the command tree and runs it.
func Execute(commit, date string) error {
	rootCmd := &cobra.Command{
		Use:   "shellcmdr",
		Short: "Device package manager update pipeline",
		Long: `shellcmdr maintains a device-side package installation and keeps itself
up to date: it checks a remote version descriptor, downloads new installer
packages, and extracts them over the staged installation.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to the update question")

	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newInstallUpdaterCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newVersionCmd(commit, date))

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd.Execute()
}
