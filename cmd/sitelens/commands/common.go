// common.go — Shared utilities for command argument parsing and input loading.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sitelens/sitelens/cmd/sitelens/config"
	"github.com/sitelens/sitelens/internal/export"
	"github.com/sitelens/sitelens/internal/timeline"
	"github.com/sitelens/sitelens/internal/types"
)

// ErrUsage marks errors caused by missing or malformed arguments. The CLI
// maps it to exit code 2.
var ErrUsage = errors.New("usage")

// Env is what a command needs from the process.
type Env struct {
	Config config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// parseFlag extracts a flag value from an args slice.
// Returns the value and remaining args (with the flag pair removed).
func parseFlag(args []string, flag string) (string, []string) {
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

// parseFlagInt extracts an integer flag value. A present but malformed
// value is a usage error.
func parseFlagInt(args []string, flag string) (int, bool, []string, error) {
	val, remaining := parseFlag(args, flag)
	if val == "" {
		return 0, false, args, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, args, usagef("%s expects an integer, got %q", flag, val)
	}
	return n, true, remaining, nil
}

// parseFlagFloat extracts a float flag value.
func parseFlagFloat(args []string, flag string) (float64, bool, []string, error) {
	val, remaining := parseFlag(args, flag)
	if val == "" {
		return 0, false, args, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, args, usagef("%s expects a number, got %q", flag, val)
	}
	return f, true, remaining, nil
}

// positional returns the single positional argument, rejecting leftovers
// such as unknown flags.
func positional(args []string, what string) (string, error) {
	switch {
	case len(args) == 0:
		return "", usagef("missing %s", what)
	case len(args) > 1:
		return "", usagef("unexpected arguments: %s", strings.Join(args[1:], " "))
	case strings.HasPrefix(args[0], "--"):
		return "", usagef("unknown flag %s", args[0])
	}
	return args[0], nil
}

// openInput opens path, or stdin for "-".
func openInput(env Env, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(env.Stdin), nil
	}
	f, err := os.Open(path) // #nosec G304 -- user-supplied input path is the point of the CLI
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// LoadReport reads a report payload from path ("-" for stdin). A file ending
// in .har is imported as an unscored waterfall.
func LoadReport(env Env, path string) (types.Report, error) {
	rc, err := openInput(env, path)
	if err != nil {
		return types.Report{}, err
	}
	defer rc.Close() //nolint:errcheck // read-only

	if strings.HasSuffix(strings.ToLower(path), ".har") {
		h, err := export.ParseHAR(rc)
		if err != nil {
			return types.Report{}, err
		}
		wf := export.WaterfallFromHAR(h)
		return types.Report{URL: export.PageURL(h), Waterfall: &wf}, nil
	}

	var r types.Report
	if err := json.NewDecoder(rc).Decode(&r); err != nil {
		return types.Report{}, fmt.Errorf("read report %s: %w", path, err)
	}
	return r, nil
}

// logCorrections writes one stderr line per layout correction when verbose.
func logCorrections(env Env, cs []timeline.Correction) {
	if !env.Config.Verbose || env.Stderr == nil {
		return
	}
	for _, c := range cs {
		name := c.Name
		if c.Index < 0 {
			name = "axis"
		}
		fmt.Fprintf(env.Stderr, "[sitelens] layout: %s for %s\n", c.Reason, name)
	}
}
