package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shellcmdr/shellcmdr/internal/installer"
	"github.com/shellcmdr/shellcmdr/internal/output"
	"github.com/shellcmdr/shellcmdr/internal/update"
)

// status summarizes the on-disk state the pipeline cares about.
type status struct {
	RunningVersion string `json:"running_version" yaml:"running_version"`
	StagedPackage  bool   `json:"staged_package" yaml:"staged_package"`
	StagedBytes    int64  `json:"staged_bytes,omitempty" yaml:"staged_bytes,omitempty"`
	Extracted      string `json:"extracted,omitempty" yaml:"extracted,omitempty"`
}

func (s status) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "running version: %s\n", s.RunningVersion)
	if s.StagedPackage {
		fmt.Fprintf(&b, "staged package:  yes (%d bytes)\n", s.StagedBytes)
	} else {
		fmt.Fprint(&b, "staged package:  no\n")
	}
	if s.Extracted != "" {
		fmt.Fprintf(&b, "extracted:       %s", s.Extracted)
	} else {
		fmt.Fprint(&b, "extracted:       none")
	}
	return b.String()
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show staged update state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.log.Sync()

	paths := p.cfg.Paths()
	st := status{RunningVersion: update.Current.Format()}

	if info, err := os.Stat(paths.PackageFile()); err == nil {
		st.StagedPackage = true
		st.StagedBytes = info.Size()
	}

	if m, err := installer.ReadManifest(paths.HeadFile()); err == nil {
		st.Extracted = fmt.Sprintf("%s %s (%d files)", m.Name, m.Version, m.Files)
	}

	return output.NewWriter(os.Stdout, format).Write(st)
}
