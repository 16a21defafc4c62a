// Package config holds run options shared by every subcommand.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gkwa/noblenewtonia/inflate"
)

// Options holds the effective settings for one run.
type Options struct {
	Format      string
	Input       string
	Output      string
	OutputDir   string
	Prefix      string
	Separator   string
	Sample      int
	AsString    bool
	Summary     bool
	Verbose     bool
	Quiet       bool
	Debug       bool
	MetricsAddr string
}

// DefaultOptions returns the documented flag defaults.
func DefaultOptions() *Options {
	return &Options{
		Format:    "auto",
		Output:    "-",
		OutputDir: "./output",
		Prefix:    "decompressed_",
		Separator: "\n---\n",
	}
}

// Validate ensures all option values are coherent.
func (o *Options) Validate() error {
	if _, err := inflate.ParseFormat(o.Format); err != nil {
		return err
	}
	if o.Sample < 0 {
		return fmt.Errorf("sample count cannot be negative")
	}
	if o.Prefix == "" {
		return fmt.Errorf("file prefix cannot be empty")
	}
	if o.Verbose && o.Quiet {
		return fmt.Errorf("verbose and quiet are mutually exclusive")
	}
	return nil
}

// EnvString reads an environment override, reporting whether it was set.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment override.
func EnvInt(key string) (int, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return n, true, nil
}
