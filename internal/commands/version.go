package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/confgen"
)

// VersionCmd prints the confgen version. The root command's --version flag
// is the config version, so the tool's own version lives here.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "confgen v%s\n", confgen.Version)
		},
	}
}
