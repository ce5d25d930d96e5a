package terminal

import (
	"context"
	"io"
	"os"

	"github.com/Alias1177/KrishiMitra/internal/advisor"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	advisor  *advisor.Service
	reporter *Reporter
	opts     Options
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Advisor *advisor.Service
	Output  io.Writer
	// DefaultCity and DefaultCountry are used when weather is run without flags.
	DefaultCity    string
	DefaultCountry string
	// Serve runs the web API until ctx is done. The serve command is omitted when nil.
	Serve func(ctx context.Context) error
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		advisor:  opts.Advisor,
		reporter: NewReporter(opts.Output),
		opts:     opts,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "krishi",
		Short:         "Krishi Mitra farm advisory tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.opts.Output)

	cmd.AddCommand(NewPredictCmd(cli.advisor, cli.reporter))
	cmd.AddCommand(NewWeatherCmd(cli.advisor, cli.reporter, cli.opts.DefaultCity, cli.opts.DefaultCountry))
	cmd.AddCommand(NewAdviseCmd(cli.advisor, cli.reporter))
	cmd.AddCommand(NewMarketCmd(cli.advisor, cli.reporter))
	if cli.opts.Serve != nil {
		cmd.AddCommand(NewServeCmd(cli.opts.Serve))
	}

	return cmd
}
