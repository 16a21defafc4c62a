// Package cmd implements the command-line interface: single-stream
// decompression on the root command, plus the batch and parse-json
// subcommands.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gkwa/noblenewtonia/codec"
	"github.com/gkwa/noblenewtonia/config"
	"github.com/gkwa/noblenewtonia/inflate"
)

const version = "1.0.0"

var (
	opts = config.DefaultOptions()

	rootCmd = &cobra.Command{
		Use:   "noblenewtonia",
		Short: "Decompress deflate, raw-deflate, and gzip data",
		Long: `Decompress data produced by a DEFLATE/zlib/gzip-family compressor.

The root command decompresses a single stream. The batch subcommand
processes newline-delimited base64 records; parse-json decompresses HTML
payloads embedded in JSON product records and emits YAML.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runDecompress,
	}
)

// Execute runs the root command. A non-nil return means a structural
// failure; main exits 1.
func Execute() error {
	_ = godotenv.Load()
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.Format, "format", "f", opts.Format, "compression format: auto, deflate, raw, or gzip")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable informational logging")
	pf.BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress informational output (errors still shown)")
	pf.BoolVarP(&opts.Debug, "debug", "d", false, "enable debug logging with byte previews")

	rootCmd.Flags().StringVarP(&opts.Input, "input", "i", "", "input file (default stdin)")
	rootCmd.Flags().StringVarP(&opts.Output, "output", "o", opts.Output, "output file (default stdout)")
	rootCmd.Flags().BoolVarP(&opts.AsString, "string", "s", false, "decode output bytes as UTF-8 text")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("noblenewtonia version %s\n", version)
		},
	})

	rootCmd.AddCommand(newBatchCommand())
	rootCmd.AddCommand(newParseJSONCommand())
}

func setup(cmd *cobra.Command, _ []string) error {
	applyEnvOverrides(cmd)

	if err := opts.Validate(); err != nil {
		return err
	}

	logger, _ := config.NewLogger(opts)
	slog.SetDefault(logger)
	return nil
}

// applyEnvOverrides lets environment variables stand in for flags the user
// did not pass explicitly.
func applyEnvOverrides(cmd *cobra.Command) {
	overrides := map[string]string{
		"format":       "NOBLENEWTONIA_FORMAT",
		"output-dir":   "NOBLENEWTONIA_OUTPUT_DIR",
		"prefix":       "NOBLENEWTONIA_PREFIX",
		"metrics-addr": "NOBLENEWTONIA_METRICS_ADDR",
	}
	for flagName, envKey := range overrides {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil || flag.Changed {
			continue
		}
		if value, ok := config.EnvString(envKey); ok {
			_ = flag.Value.Set(value)
		}
	}

	if flag := cmd.Flags().Lookup("sample"); flag != nil && !flag.Changed {
		n, ok, err := config.EnvInt("NOBLENEWTONIA_SAMPLE")
		if err != nil {
			slog.Warn("ignoring invalid sample override", slog.Any("error", err))
		} else if ok {
			opts.Sample = n
		}
	}
}

func runDecompress(cmd *cobra.Command, _ []string) error {
	input, err := readInput(opts.Input)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(input)) == 0 {
		return fmt.Errorf("input is empty")
	}

	format, err := inflate.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	// Base64 text on the way in is decoded first; anything else is taken
	// as raw compressed bytes. gzip and zlib headers contain bytes outside
	// the base64 alphabet, so those cannot be misread; a short raw-deflate
	// stream made entirely of base64 characters would be decoded instead.
	raw := input
	if decoded, decErr := codec.Decode(string(input)); decErr == nil {
		raw = decoded
		slog.Info("input decoded from base64",
			slog.Int("encoded_bytes", len(input)),
			slog.Int("decoded_bytes", len(raw)),
		)
	}

	data, err := inflate.Decompress(raw, format)
	if err != nil {
		return err
	}

	// The byte-vs-text choice is made exactly once, here at the boundary:
	// text mode re-interprets the payload as UTF-8, replacing invalid
	// sequences, and nothing downstream converts back.
	if opts.AsString {
		return writeOutput(opts.Output, []byte(strings.ToValidUTF8(string(data), "�")))
	}
	return writeOutput(opts.Output, data)
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
