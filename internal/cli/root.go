package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"graph-cloner/cloner"
	"graph-cloner/internal/rules"
)

var (
	// Global flags
	verbose bool
	noColor bool

	titleColor = color.New(color.FgCyan, color.Bold)
	okColor    = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed, color.Bold)
)

var rootCmd = &cobra.Command{
	Use:     "graphclone",
	Version: "dev",
	Short:   "Deep-copy object graphs",
	Long: `graphclone exercises the graph cloner: it clones generated graphs under
every execution model and shows how shared references and cycles survive.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

// SetVersion sets the version printed by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}

	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every clone call")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(benchCmd, demoCmd, vetCmd)
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// engineOptions reads the rules file, if any, and applies flag overrides on top.
func engineOptions(cmd *cobra.Command, rulesPath, mode string, workers int) ([]cloner.Option, error) {
	var opts []cloner.Option

	if rulesPath != "" {
		f, err := rules.LoadFile(rulesPath)
		if err != nil {
			return nil, err
		}

		res := rules.Validate(f)
		for _, w := range res.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.YellowString("warning:"), w)
		}

		_, built, err := rules.Build(f)
		if err != nil {
			return nil, fmt.Errorf("invalid rules file %s: %w", rulesPath, err)
		}

		opts = append(opts, built...)
	}

	if cmd.Flags().Changed("mode") {
		m, err := cloner.ParseMode(mode)
		if err != nil {
			return nil, err
		}

		opts = append(opts, cloner.WithMode(m))
	}

	if cmd.Flags().Changed("workers") {
		opts = append(opts, cloner.WithWorkers(workers))
	}

	opts = append(opts, cloner.WithLogger(newLogger(cmd.ErrOrStderr())))

	return opts, nil
}
