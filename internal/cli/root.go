package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/starpipe/config"
	"github.com/kbukum/starpipe/errors"
	"github.com/kbukum/starpipe/logger"
	"github.com/kbukum/starpipe/rewrite"
	"github.com/kbukum/starpipe/source"
)

// ExitCode is the process exit status returned by Execute.
type ExitCode int

const exitCodeSuccess ExitCode = 0

// Run executes the command line in os.Args and returns the process exit code.
func Run() ExitCode {
	return Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// Execute runs starpipe with explicit arguments and streams.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) ExitCode {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "starpipe: %v\n", err)
		return ExitCode(errors.ExitCodeOf(err))
	}
	return exitCodeSuccess
}

// app holds what every subcommand needs once flags and config are resolved.
type app struct {
	cfg *config.Config
	log *logger.Logger
	rw  *rewrite.Rewriter
}

func (a *app) expander() (*source.Expander, error) {
	return source.New(a.rw,
		source.WithMarker(a.cfg.Source.Marker),
		source.WithVerify(a.cfg.Source.Verify),
		source.WithLogger(a.log),
	)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "starpipe",
		Short: "Expand left-to-right pipeline expressions into nested Starlark calls.",
		Long: `starpipe rewrites pipelines such as

    items => sorted => first(_, 3)

into ordinary Starlark calls:

    (lambda __pipe0: first(__pipe0, 3))(sorted(items))`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.InvalidInput("flags", err.Error())
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to starpipe.yml (default: nearest starpipe.yml above the working directory)")
	flags.BoolP("verbose", "v", false, "set debug logging level")
	flags.String("placeholder", "", "placeholder identifier (default _)")
	flags.String("temp-prefix", "", "prefix of generated temporaries (default __pipe)")
	flags.String("marker", "", "call-site marker for rewrite (default pipe)")
	flags.Int("workers", 0, "files rewritten concurrently (default GOMAXPROCS)")

	rootCmd.AddCommand(
		NewExpandCmd(a).Command(),
		NewExplainCmd(a).Command(),
		NewRewriteCmd(a).Command(),
		NewVersionCmd().Command(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return errors.Internal(err)
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return errors.Internal(err)
	}

	opts := []config.LoaderOption{config.WithFlags(cmd.Flags())}
	if cfgFile != "" {
		opts = append(opts, config.WithConfigFile(cfgFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	log := logger.NewWithWriter(&cfg.Logging, cmd.ErrOrStderr())
	logger.SetGlobalLogger(log)
	logger.RegisterDefaults("cli")

	rw, err := rewrite.New(
		rewrite.WithPlaceholder(cfg.Rewrite.Placeholder),
		rewrite.WithTempPrefix(cfg.Rewrite.TempPrefix),
		rewrite.WithLogger(log),
	)
	if err != nil {
		return err
	}

	a.cfg, a.log, a.rw = cfg, logger.Get("cli"), rw
	return nil
}
