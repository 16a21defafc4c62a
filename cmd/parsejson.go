package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gkwa/noblenewtonia/inflate"
	"github.com/gkwa/noblenewtonia/parser"
	"github.com/gkwa/noblenewtonia/pipeline"
)

func newParseJSONCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse-json",
		Short: "Decompress HTML payloads in JSON product records, emit YAML",
		Long: `Read JSON product records (a flat array, or an Items envelope with
optional {Value: ...} field wrappers), decompress each record's HTML
payload, and write the normalized list as a YAML document.`,
		RunE: runParseJSON,
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", `input JSON file ("-" or omitted for stdin)`)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "-", `output: .yaml/.yml file, directory, or "-" for stdout`)
	cmd.Flags().IntVar(&opts.Sample, "sample", 0, "randomly sample N records before processing")
	cmd.Flags().BoolVarP(&opts.Summary, "summary", "s", false, "print aggregate statistics")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")

	return cmd
}

func runParseJSON(cmd *cobra.Command, _ []string) error {
	input, err := readInput(opts.Input)
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(input, &doc); err != nil {
		return &parser.MalformedInputError{Detail: fmt.Sprintf("invalid JSON: %v", err)}
	}

	records, err := parser.ExtractRecords(doc)
	if err != nil {
		return err
	}
	slog.Info("records extracted", slog.Int("count", len(records)))

	if opts.Sample > 0 && opts.Sample < len(records) {
		records = pipeline.Sample(records, opts.Sample)
		slog.Info("records sampled", slog.Int("count", len(records)))
	}

	format, err := inflate.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	writer, err := pipeline.NewYAMLWriter(opts.Output)
	if err != nil {
		return err
	}

	metrics := pipeline.NewMetrics()
	srv := startMetricsServer(opts.MetricsAddr, metrics)
	defer stopMetricsServer(srv)

	proc := pipeline.NewProcessor(format, metrics)
	outputs := proc.ProcessRecords(records)

	if err := writer.Write(outputs); err != nil {
		return err
	}

	if opts.Summary {
		printSummary(proc.Stats())
	}
	return nil
}
