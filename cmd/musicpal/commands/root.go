package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"musicpal/internal/components/telemetry"
	"musicpal/internal/scrapers/musicpal"
	libtelemetry "musicpal/lib/telemetry"
	"musicpal/lib/textutil"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// ExitInterrupted is returned when the command was stopped by a signal.
const ExitInterrupted = 130

func commandSummary() string {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, c := range musicpal.Commands() {
		fmt.Fprintf(&sb, "  %-22s %s\n", c.Usage, c.Description)
	}
	return sb.String()
}

// NewRootCommand builds the `musicpal` command tree.
func NewRootCommand() *cobra.Command {
	flags := &flagValues{}

	rootCmd := &cobra.Command{
		Use:   "musicpal [flags] <command> [args...]",
		Short: "musicpal is a CLI for remote controlling a MusicPal internet radio.",
		Long: "musicpal is a CLI for remote controlling a MusicPal internet radio.\n\n" +
			commandSummary(),
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			libtelemetry.InitSlog(cmd.ErrOrStderr(), flags.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			libtelemetry.InitSlog(cmd.ErrOrStderr(), config.Debug)
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), config, args)
		},
	}
	// device arguments like `-1` must not be parsed as flags
	rootCmd.Flags().SetInterspersed(false)
	flags.register(rootCmd)

	rootCmd.AddCommand(newListCommand())

	return rootCmd
}

func run(ctx context.Context, stdout, stderr io.Writer, config Config, args []string) error {
	tel, err := libtelemetry.Setup(ctx, "musicpal", config.Telemetry)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := tel.Shutdown(ctx)
		if err != nil {
			fmt.Fprintln(stderr, "shutdown telemetry:", err)
		}
	}()

	opts := musicpal.Options{
		Host: config.Host,
		Credentials: musicpal.Credentials{
			Username: config.Username,
			Password: config.Password,
		},
		Timeout: config.Timeout(),
		Debug:   config.Debug,
	}
	if config.DumpDir != "" {
		output, err := telemetry.NewFilesystemOutput(config.DumpDir)
		if err != nil {
			return err
		}
		opts.DumpOutput = output
	}

	device, err := musicpal.NewDevice(opts, telemetry.SlogAPI{})
	if err != nil {
		return err
	}

	name := textutil.NormalizeCommand(args[0])
	out, err := device.Run(ctx, name, args[1:])
	for _, line := range out.Lines {
		fmt.Fprintln(stdout, line)
	}

	var statusErr musicpal.HTTPStatusError
	if config.Debug && out.Extracted && errors.As(err, &statusErr) {
		fmt.Fprintf(stderr, "%s\n", out.Body)
	}
	return err
}

// exitCode maps the result of a command to the process exit code.
func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		return ExitInterrupted
	}
	return 1
}

// ExecuteContext runs the command line args and returns the exit code,
// errors are written to stderr. Interruptions exit silently.
func ExecuteContext(ctx context.Context, args []string) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	code := exitCode(ctx, err)
	if code == 1 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return code
}
