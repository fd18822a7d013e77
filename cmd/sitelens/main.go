// main.go — Entry point for the sitelens CLI binary.
// Lays out resource waterfalls, plans and writes paginated exports, and runs
// the HTTP service.
//
// Usage: sitelens <command> [args] [--flags]
//
// Exit codes:
//   0 = success
//   1 = error (input could not be read, render or write failed)
//   2 = usage or configuration error
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sitelens/sitelens/cmd/sitelens/commands"
	"github.com/sitelens/sitelens/cmd/sitelens/config"
	"github.com/sitelens/sitelens/cmd/sitelens/output"
	"github.com/sitelens/sitelens/internal/pagination"
	"github.com/sitelens/sitelens/internal/render"
	"github.com/sitelens/sitelens/internal/timeline"
)

// version is set at build time via -ldflags.
var version = "dev"

const usageText = `sitelens — website analysis report waterfalls and paginated exports

Usage:
  sitelens <command> [args] [--flags]

Commands:
  waterfall <report|file.har|->          Lay out the resource waterfall
      --axis-max <ms>                    Axis length (default: latest resource end, min 1000)
  paginate --height N --page-height N    Plan pages for a raw surface height
      [--page-width N] [--margin N]
  paginate <report>                      Plan PDF pages for a rendered report
  summary <report>                       Overall score, grades and issue counts
  export <pdf|json|csv|har|sarif> <report> --out <path>
  import har <file.har|-> [--out <path>] Convert a HAR capture to a report
  serve                                  Run the HTTP service

Global Flags:
  --format <human|json|csv>     Output format (default: human)
  --sort <start_time|total_time|size>
  --page-size <A4|Letter|Legal> PDF page size (default: A4)
  --margin-mm <mm>              PDF page margin (default: 10)
  --surface-width <px>          Report surface width (default: 1200)
  --addr <host:port>            Listen address for serve (default: 127.0.0.1:7420)
  --verbose                     Print layout corrections to stderr
  --version                     Show version
  --help                        Show this help

Examples:
  sitelens waterfall report.json --sort total_time
  sitelens paginate --height 950 --page-height 297
  sitelens export pdf report.json --out report.pdf --page-size Letter
  sitelens import har capture.har --out report.json
`

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the main entry point, separated for testability.
// Returns the exit code.
func run(args []string) int {
	return runWith(args, os.Stdin, os.Stdout, os.Stderr)
}

func runWith(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return 2
	}

	// Handle --version and --help before anything else
	for _, arg := range args {
		if arg == "--version" || arg == "-v" {
			fmt.Fprintf(stdout, "sitelens %s\n", version)
			return 0
		}
		if arg == "--help" || arg == "-h" {
			fmt.Fprint(stdout, usageText)
			return 0
		}
	}

	command := args[0]
	if command == "help" {
		fmt.Fprint(stdout, usageText)
		return 0
	}

	flags, remaining, err := extractGlobalFlags(args[1:])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "Error: cannot determine working directory: %v\n", err)
		return 1
	}
	cfg, err := config.Load(cwd, flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: configuration: %v\n", err)
		return 2
	}

	env := commands.Env{Config: cfg, Stdin: stdin, Stdout: stdout, Stderr: stderr}

	var result *output.Result
	switch command {
	case "waterfall":
		result, err = commands.Waterfall(env, remaining)
	case "paginate":
		result, err = commands.Paginate(env, remaining)
	case "summary":
		result, err = commands.Summary(env, remaining)
	case "export", "import":
		if len(remaining) == 0 {
			fmt.Fprintf(stderr, "Error: missing format for %s\n\n", command)
			fmt.Fprint(stderr, usageText)
			return 2
		}
		if command == "export" {
			result, err = commands.Export(env, remaining[0], remaining[1:])
		} else {
			result, err = commands.Import(env, remaining[0], remaining[1:])
		}
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = commands.Serve(ctx, env, remaining)
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q. Valid commands: waterfall, paginate, summary, export, import, serve\n", command)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	if result == nil {
		return 0
	}

	formatter := output.GetFormatter(cfg.Format, stdout)
	if err := formatter.Format(stdout, result); err != nil {
		fmt.Fprintf(stderr, "Error: format output: %v\n", err)
		return 1
	}
	if !result.Success {
		return 1
	}
	return 0
}

// exitCode maps usage and configuration errors to 2, everything else to 1.
func exitCode(err error) int {
	switch {
	case errors.Is(err, commands.ErrUsage),
		errors.Is(err, timeline.ErrUnknownSortKey),
		errors.Is(err, pagination.ErrInvalidPageHeight),
		errors.Is(err, pagination.ErrInvalidGeometry),
		errors.Is(err, render.ErrSurfaceTooNarrow),
		errors.Is(err, render.ErrSurfaceTooLarge):
		return 2
	}
	return 1
}

// extractGlobalFlags extracts global flags from args and returns FlagOverrides + remaining args.
func extractGlobalFlags(args []string) (*config.FlagOverrides, []string, error) {
	flags := &config.FlagOverrides{}
	remaining := args

	strFlags := []struct {
		name string
		dst  **string
	}{
		{"--format", &flags.Format},
		{"--sort", &flags.Sort},
		{"--page-size", &flags.PageSize},
		{"--addr", &flags.ListenAddr},
	}
	for _, f := range strFlags {
		var v string
		v, remaining = extractFlag(remaining, f.name)
		if v != "" {
			val := v
			*f.dst = &val
		}
	}

	var margin string
	margin, remaining = extractFlag(remaining, "--margin-mm")
	if margin != "" {
		m, err := strconv.ParseFloat(margin, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("--margin-mm expects a number, got %q", margin)
		}
		flags.MarginMm = &m
	}

	var width string
	width, remaining = extractFlag(remaining, "--surface-width")
	if width != "" {
		w, err := strconv.Atoi(width)
		if err != nil {
			return nil, nil, fmt.Errorf("--surface-width expects an integer, got %q", width)
		}
		flags.SurfaceWidthPx = &w
	}

	// --verbose (boolean flag)
	for i, a := range remaining {
		if a == "--verbose" {
			verbose := true
			flags.Verbose = &verbose
			remaining = append(remaining[:i:i], remaining[i+1:]...)
			break
		}
	}

	return flags, remaining, nil
}

// extractFlag removes a flag and its value from args, returning the value and remaining args.
func extractFlag(args []string, flag string) (string, []string) {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			val := args[i+1]
			remaining := make([]string, 0, len(args)-2)
			remaining = append(remaining, args[:i]...)
			remaining = append(remaining, args[i+2:]...)
			return val, remaining
		}
	}
	return "", args
}
