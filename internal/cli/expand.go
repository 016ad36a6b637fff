package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/starpipe/errors"
)

// ExpandCmd prints the expansion of one pipeline.
type ExpandCmd struct {
	app *app
}

// NewExpandCmd creates the expand command.
func NewExpandCmd(a *app) *ExpandCmd {
	return &ExpandCmd{app: a}
}

// Command builds the cobra command.
func (c *ExpandCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "expand [EXPR...]",
		Short: "Expand one pipeline expression",
		Long:  "Expand the pipeline given as arguments, joined with spaces, or read from stdin when no arguments are given.",
		Example: `  starpipe expand '2 => dec => pair(_, 4)'
  echo 'x => f => g' | starpipe expand`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readPipeline(cmd, args)
			if err != nil {
				return err
			}
			x, err := c.app.rw.Expand(src)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), x.Output)
			return nil
		},
	}
}

func readPipeline(cmd *cobra.Command, args []string) (string, error) {
	src := strings.Join(args, " ")
	if len(args) == 0 {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.IO("read", "stdin", err)
		}
		src = string(b)
	}
	if strings.TrimSpace(src) == "" {
		return "", errors.InvalidInput("expr", "no pipeline expression given")
	}
	return src, nil
}
