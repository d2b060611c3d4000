package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lokal-dev/lokal/internal/constants"
	"github.com/lokal-dev/lokal/internal/runtime"
)

// Version is set at build time with -ldflags "-X .../cmd/version.Version=...".
var Version = "development"

func New(runtimeContext *runtime.Context) *cobra.Command {
	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the lokal version",
		Long:  "This command prints the current version of lokal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), constants.AppName, Version)
			return nil
		},
	}

	return versionCmd
}
