package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kbukum/starpipe/rewrite"
)

// ExplainCmd prints how each stage of a pipeline is classified.
type ExplainCmd struct {
	app *app
}

// NewExplainCmd creates the explain command.
func NewExplainCmd(a *app) *ExplainCmd {
	return &ExplainCmd{app: a}
}

// Command builds the cobra command.
func (c *ExplainCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:     "explain [EXPR...]",
		Short:   "Show how each stage of a pipeline is classified and emitted",
		Example: `  starpipe explain '3 => inc => pair(_, _) => (lambda v: v)'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readPipeline(cmd, args)
			if err != nil {
				return err
			}
			x, err := c.app.rw.Expand(src)
			if err != nil {
				return err
			}
			printExplanation(cmd, x)
			return nil
		},
	}
}

func printExplanation(cmd *cobra.Command, x *rewrite.Expansion) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetRowLine(true)
	table.SetHeader([]string{"Stage", "Shape", "Callee", "Placeholders", "Temp", "Emitted"})

	initial := x.Pipeline.Init.Text
	table.Append([]string{"0", "initial", initial, "", "", initial})
	for i, step := range x.Steps {
		placeholders := ""
		if n := rewrite.Placeholders(step.Stage); n > 0 {
			placeholders = strconv.Itoa(n)
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			step.Stage.Kind().String(),
			rewrite.Callee(step.Stage),
			placeholders,
			step.Temp,
			step.Output,
		})
	}
	table.Render()
	fmt.Fprintln(cmd.OutOrStdout(), x.Output)
}
