package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shellcmdr/shellcmdr/internal/update"
)

func newVersionCmd(commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the running build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("shellcmdr version %s (commit %s, built %s)\n",
				update.Current.Format(), commit, date)
			return nil
		},
	}
}
