package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/spf13/cobra"

	"github.com/kbukum/starpipe/batch"
	"github.com/kbukum/starpipe/errors"
	"github.com/kbukum/starpipe/logger"
	"github.com/kbukum/starpipe/source"
)

// RewriteCmd expands call sites in Starlark files.
type RewriteCmd struct {
	app *app
}

// NewRewriteCmd creates the rewrite command.
func NewRewriteCmd(a *app) *RewriteCmd {
	return &RewriteCmd{app: a}
}

// fileResult is the outcome for one file; err is per file so one bad file
// does not stop the others.
type fileResult struct {
	path string
	res  *source.Result
	err  error
}

// Command builds the cobra command.
func (c *RewriteCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite [-w] [-d] [--verify] FILE...",
		Short: "Expand pipe(...) call sites in Starlark files",
		Long: `Expand every pipe(...) call site in the given files. By default the rewritten
files are printed to stdout; -w writes them back and -d prints unified diffs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			write, err := cmd.Flags().GetBool("write")
			if err != nil {
				return errors.Internal(err)
			}
			diff, err := cmd.Flags().GetBool("diff")
			if err != nil {
				return errors.Internal(err)
			}

			exp, err := c.app.expander()
			if err != nil {
				return err
			}

			start := time.Now()
			paths, err := batch.Collect(cmd.Context(), uniquePaths(args))
			if err != nil {
				return err
			}
			results := batch.Parallel(batch.FromSlice(paths), c.app.cfg.Workers,
				func(_ context.Context, path string) (fileResult, error) {
					return rewriteFile(exp, path), nil
				})
			results = batch.Tap(results, func(_ context.Context, r fileResult) error {
				if r.err == nil {
					c.app.log.Debug("expanded file", logger.Fields(logger.FieldFile, r.path,
						logger.FieldSites, len(r.res.Sites), logger.FieldChanged, r.res.Changed()))
				}
				return nil
			})

			state := &rewriteRun{log: c.app.log}
			err = batch.Drain(results, state.sink(func(r fileResult) error {
				return c.report(cmd, r, write, diff)
			})).Run(cmd.Context())
			if err != nil {
				return err
			}

			fields := logger.DurationFields("rewrite", time.Since(start))
			fields["files"] = len(paths)
			fields[logger.FieldChanged] = state.changed
			c.app.log.Debug("rewrite finished", fields)
			return state.firstErr
		},
	}
	cmd.Flags().BoolP("write", "w", false, "write results back to the source files")
	cmd.Flags().BoolP("diff", "d", false, "print unified diffs instead of rewritten files")
	cmd.Flags().Bool("verify", false, "parse rewritten files with the Starlark parser")
	return cmd
}

// uniquePaths cleans every path argument and drops repeats, so no file is
// rewritten by two workers.
func uniquePaths(args []string) *batch.Stream[string] {
	seen := make(map[string]bool, len(args))
	cleaned := batch.Map(batch.FromSlice(args), func(_ context.Context, path string) (string, error) {
		return filepath.Clean(path), nil
	})
	return batch.Filter(cleaned, func(path string) bool {
		if seen[path] {
			return false
		}
		seen[path] = true
		return true
	})
}

// rewriteRun accumulates the outcome of a rewrite over many files. Failures
// are logged and remembered; the remaining files are still reported.
type rewriteRun struct {
	log      *logger.Logger
	firstErr error
	changed  int
}

func (s *rewriteRun) fail(path string, err error) {
	s.log.Error("rewrite failed", logger.Fields(logger.FieldFile, path, logger.FieldError, err.Error()))
	if s.firstErr == nil {
		s.firstErr = err
	}
}

func (s *rewriteRun) sink(report func(fileResult) error) func(context.Context, fileResult) error {
	return func(_ context.Context, r fileResult) error {
		if r.err != nil {
			s.fail(r.path, r.err)
			return nil
		}
		if r.res.Changed() {
			s.changed++
		}
		if err := report(r); err != nil {
			s.fail(r.path, err)
		}
		return nil
	}
}

func rewriteFile(exp *source.Expander, path string) fileResult {
	b, err := os.ReadFile(path)
	if err != nil {
		return fileResult{path: path, err: errors.IO("read", path, err)}
	}
	res, err := exp.Expand(path, string(b))
	return fileResult{path: path, res: res, err: err}
}

func (c *RewriteCmd) report(cmd *cobra.Command, r fileResult, write, diff bool) error {
	out := cmd.OutOrStdout()
	if diff {
		if r.res.Changed() {
			edits := myers.ComputeEdits(span.URIFromPath(r.path), r.res.Input, r.res.Output)
			fmt.Fprint(out, gotextdiff.ToUnified("a/"+r.path, "b/"+r.path, r.res.Input, edits))
		}
	}
	if write {
		if !r.res.Changed() {
			return nil
		}
		info, err := os.Stat(r.path)
		if err != nil {
			return errors.IO("stat", r.path, err)
		}
		if err := os.WriteFile(r.path, []byte(r.res.Output), info.Mode().Perm()); err != nil {
			return errors.IO("write", r.path, err)
		}
		c.app.log.Info("rewrote file", logger.Fields(logger.FieldFile, r.path, logger.FieldSites, len(r.res.Sites)))
		return nil
	}
	if !diff {
		fmt.Fprint(out, r.res.Output)
	}
	return nil
}
