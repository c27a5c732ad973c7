package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/gosuda/erakit/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := parseArgs(args, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "erakit: %v\n", err)
		if errors.Is(err, errMissingPath) {
			fmt.Fprint(os.Stderr, usage())
		}
		return 2
	}
	if cfg.showHelp {
		fmt.Fprint(os.Stdout, usage())
		return 0
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	if cfg.plain || !interactive {
		if err := logger.InitLogger(cfg.logLevel); err != nil {
			fmt.Fprintf(os.Stderr, "erakit: %v\n", err)
			return 2
		}
		if err := runPlain(cfg, os.Stdout, newLineReader(os.Stdin)); err != nil {
			fmt.Fprintf(os.Stderr, "erakit: %v\n", err)
			return 1
		}
		return 0
	}

	// The full-screen UI owns the terminal, so diagnostics are dropped
	// rather than drawn over it.
	if err := logger.InitLoggerTo(io.Discard, cfg.logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "erakit: %v\n", err)
		return 2
	}
	p := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		return 1
	}
	return 0
}
