package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/starpipe/version"
)

// VersionCmd prints build information.
type VersionCmd struct{}

// NewVersionCmd creates the version command.
func NewVersionCmd() *VersionCmd {
	return &VersionCmd{}
}

// Command builds the cobra command.
func (c *VersionCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return err
			}
			info := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Short())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return nil
		},
	}
	cmd.Flags().Bool("short", false, "print only the version")
	return cmd
}
