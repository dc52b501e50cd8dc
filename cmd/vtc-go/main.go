package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vtc-go/packages/compiler/src/config"
)

// main builds the command tree and exits with status 1 when a command
// fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorColor.Sprint("error:"), err)
		os.Exit(1)
	}
}

// app holds the global flags shared by every command.
type app struct {
	configPath string
	platform   string
	colorMode  string
	verbose    bool
	jobs       int

	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	root := &cobra.Command{
		Use:           "vtc-go",
		Short:         "Template compiler toolkit",
		Long:          `vtc-go classifies tags, resolves compiler options and inspects template ASTs and single file component descriptors`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to "+config.FileName+" (default: search from the working directory upwards)")
	flags.StringVar(&a.platform, "platform", "web", "platform tag tables used when the config file names none (web|none)")
	flags.StringVar(&a.colorMode, "color", "auto", "colorize output (auto|on|off)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")
	flags.IntVar(&a.jobs, "jobs", 0, "max parallel workers (0=auto)")

	root.AddCommand(
		a.tagsCmd(),
		a.optionsCmd(),
		a.astCmd(),
		a.optimizeCmd(),
		a.sfcCmd(),
		a.validateCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	mode, err := readColorMode(a.colorMode)
	if err != nil {
		return err
	}
	color.NoColor = !useColor(mode, cmd.OutOrStdout())

	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// workers returns the number of parallel workers for n inputs.
func (a *app) workers(n int) int {
	jobs := a.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on":
		return colorOn, nil
	case "off":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func useColor(mode colorMode, w io.Writer) bool {
	switch mode {
	case colorOn:
		return true
	case colorOff:
		return false
	default:
		f, ok := w.(*os.File)
		return ok && isTerminal(f)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
