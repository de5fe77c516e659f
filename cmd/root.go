package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/drivepush/internal/apperr"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the CLI and instrumentation.
func SetVersion(v string) {
	version = v
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	verbose    bool
	quiet      bool
}

// newRootCmd builds the root command around d.
func newRootCmd(d *deps) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "drivepush <path>",
		Short: "Upload a file or directory tree to Google Drive",
		Long: `drivepush uploads a local file or directory to Google Drive using a
service-account credential.

A directory is recreated on Drive as a tree of folders, with every file
uploaded into the folder that mirrors its local parent. Nothing is
deduplicated: running drivepush twice creates two copies.`,
		Version:       version,
		Args:          exactlyOnePath,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd.Context(), d, opts, args[0])
		},
	}

	cmd.SetVersionTemplate(`{{printf "drivepush version %s\n" .Version}}`)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &apperr.UsageError{Err: err}
	})

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (TOML)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print errors")

	cmd.AddCommand(newVersionCmd(d))

	return cmd
}

// exactlyOnePath rejects any invocation that does not name a single path.
func exactlyOnePath(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return apperr.Usagef("expected exactly one path argument, got %d", len(args))
	}
	return nil
}

// Execute is the main entry point for the CLI application
func Execute() {
	ctx := shutdownContext(context.Background())
	os.Exit(execute(ctx, os.Args[1:], defaultDeps()))
}

// execute runs the CLI with args and returns the process exit code.
func execute(ctx context.Context, args []string, d *deps) int {
	cmd := newRootCmd(d)
	cmd.SetArgs(args)
	cmd.SetOut(d.stdout)
	cmd.SetErr(d.stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	printError(d.stderr, err)
	if apperr.IsUsage(err) {
		target, _, findErr := cmd.Find(args)
		if findErr != nil || target == nil {
			target = cmd
		}
		fmt.Fprint(d.stderr, target.UsageString())
	}
	return 1
}

func printError(w io.Writer, err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "Error: interrupted")
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
