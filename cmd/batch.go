package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gkwa/noblenewtonia/inflate"
	"github.com/gkwa/noblenewtonia/pipeline"
)

func newBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Decompress newline-delimited base64 records",
		Long: `Read a file of newline-delimited base64-encoded compressed records and
decompress each one, either into numbered files under an output directory
or onto stdout joined by a separator. Per-record failures are logged and
counted but never abort the batch.`,
		RunE: runBatch,
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "input file of base64 lines (required)")
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", opts.OutputDir, `output directory, or "-" for stdout`)
	cmd.Flags().StringVarP(&opts.Prefix, "prefix", "p", opts.Prefix, "per-file name prefix")
	cmd.Flags().StringVar(&opts.Separator, "separator", opts.Separator, "separator between records on stdout")
	cmd.Flags().BoolVarP(&opts.Summary, "summary", "s", false, "print aggregate statistics")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runBatch(cmd *cobra.Command, _ []string) error {
	input, err := readInput(opts.Input)
	if err != nil {
		return err
	}

	lines := make([]string, 0, 64)
	for _, line := range strings.Split(string(input), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return fmt.Errorf("input file has no records")
	}

	format, err := inflate.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	var writer pipeline.PayloadWriter
	if opts.OutputDir == "-" {
		writer = pipeline.NewStreamWriter(os.Stdout, opts.Separator)
	} else {
		writer, err = pipeline.NewDirWriter(opts.OutputDir, opts.Prefix)
		if err != nil {
			return err
		}
	}

	metrics := pipeline.NewMetrics()
	srv := startMetricsServer(opts.MetricsAddr, metrics)
	defer stopMetricsServer(srv)

	proc := pipeline.NewProcessor(format, metrics)
	proc.ProcessLines(lines, writer)
	if err := writer.Close(); err != nil {
		return err
	}

	if opts.Summary {
		printSummary(proc.Stats())
	}
	return nil
}
