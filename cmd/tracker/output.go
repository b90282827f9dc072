package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/natefinch/atomic"

	"github.com/jonathan/career-tracker/internal/types"
)

// outputOptions are the shared --json and --out flags.
type outputOptions struct {
	json bool
	out  string
}

// emit renders v as JSON (when --json or --out is set) or through render.
// With --out the JSON is written atomically to the file instead of stdout.
func emit(w io.Writer, opts outputOptions, v any, render func()) error {
	if opts.out == "" && !opts.json {
		render()
		return nil
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if opts.out != "" {
		if err := atomic.WriteFile(opts.out, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.out, err)
		}
		_, _ = fmt.Fprintf(w, "Wrote %s\n", opts.out)
		return nil
	}
	_, err = w.Write(data)
	return err
}

// parseDateFlag parses a YYYY-MM-DD flag value; empty yields the zero date.
func parseDateFlag(name, value string) (types.Date, error) {
	if value == "" {
		return types.Date{}, nil
	}
	d, err := types.ParseDate(value)
	if err != nil {
		return types.Date{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return d, nil
}
