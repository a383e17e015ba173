package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shellcmdr/shellcmdr/internal/update"
)

func newInstallUpdaterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install-updater",
		Short: "Stage the updater companion package",
		Long: `Install-updater materializes the embedded updater companion onto storage
so the running binary can be replaced from outside itself. The staging
tree is cleared first, so re-running after a partial failure is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPipeline()
			if err != nil {
				return err
			}
			defer p.log.Sync()
			return p.inst.InstallCompanion(update.Current.Format())
		},
	}
}
