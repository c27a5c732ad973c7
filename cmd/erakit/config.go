package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gosuda/erakit/logger"
)

type appConfig struct {
	path      string
	entry     string
	logLevel  string
	strict    bool
	plain     bool
	lineWidth int
	showHelp  bool
}

var errMissingPath = errors.New("missing script path")

// boolFlags never consume the following argument when reordering.
var boolFlags = map[string]bool{
	"h": true, "help": true, "strict": true, "plain": true,
}

// parseArgs reads the command line first and fills anything left unset
// from ERAKIT_* environment variables.
func parseArgs(args []string, getenv func(string) string) (appConfig, error) {
	fs := flag.NewFlagSet("erakit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := appConfig{}
	fs.StringVar(&cfg.entry, "entry", "TITLE", "entry function")
	fs.StringVar(&cfg.entry, "e", "TITLE", "entry function (shorthand)")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.StringVar(&cfg.logLevel, "l", "warn", "log level (shorthand)")
	fs.BoolVar(&cfg.strict, "strict", false, "fail on malformed lines and unknown statements")
	fs.BoolVar(&cfg.plain, "plain", false, "line console instead of the full-screen UI")
	fs.IntVar(&cfg.lineWidth, "width", 40, "DRAWLINE and shop table width")
	fs.BoolVar(&cfg.showHelp, "help", false, "show help")
	fs.BoolVar(&cfg.showHelp, "h", false, "show help (shorthand)")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return appConfig{}, err
	}
	if cfg.showHelp {
		return cfg, nil
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["log-level"] && !set["l"] {
		if v := getenv("ERAKIT_LOG_LEVEL"); v != "" {
			cfg.logLevel = strings.ToLower(strings.TrimSpace(v))
		}
	}
	if !set["strict"] {
		if v := getenv("ERAKIT_STRICT"); v != "" {
			strict, err := strconv.ParseBool(v)
			if err != nil {
				return appConfig{}, fmt.Errorf("ERAKIT_STRICT: %w", err)
			}
			cfg.strict = strict
		}
	}
	if !set["entry"] && !set["e"] {
		if v := strings.TrimSpace(getenv("ERAKIT_ENTRY")); v != "" {
			cfg.entry = v
		}
	}

	if _, err := logger.ParseLevel(cfg.logLevel); err != nil {
		return appConfig{}, err
	}
	if cfg.lineWidth <= 0 {
		return appConfig{}, fmt.Errorf("width must be positive, got %d", cfg.lineWidth)
	}
	if fs.NArg() == 0 {
		return appConfig{}, errMissingPath
	}
	if fs.NArg() > 1 {
		return appConfig{}, fmt.Errorf("expected one script path, got %d", fs.NArg())
	}
	cfg.path = fs.Arg(0)
	return cfg, nil
}

// reorderArgs moves flags (and their values) ahead of positional arguments
// so "erakit game/ -strict" parses the same as "erakit -strict game/".
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") || boolFlags[name] {
			continue
		}
		if i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return append(flags, positional...)
}

func usage() string {
	return `erakit - run ERB scripts

Usage:
  erakit [options] <script.erb | dir>

Options:
  -e, -entry <name>       entry function (default: TITLE)
  -l, -log-level <level>  debug, info, warn, error (default: warn)
  -strict                 fail on malformed lines and unknown statements
  -plain                  line console instead of the full-screen UI
  -width <n>              DRAWLINE and shop table width (default: 40)
  -h, -help               show this help

Environment:
  ERAKIT_LOG_LEVEL, ERAKIT_STRICT, ERAKIT_ENTRY  used when the flag is not given
`
}
