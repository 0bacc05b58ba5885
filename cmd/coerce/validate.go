package main

import (
	"fmt"
	"io"
	"os"

	gojson "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/metrics"
	"github.com/reoring/coerce/source"
)

type validateOptions struct {
	format  string
	collect bool
	quiet   bool
	strict  bool
	metrics string
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	vo := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [input...]",
		Short: "Validate documents and print the coerced model",
		Long: `Reads each input (a file, or "-" for stdin), validates it against --schema and prints the coerced model as JSON.
Failures are listed per path on stderr and the command exits non-zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, root, vo, args)
		},
	}
	cmd.Flags().StringVarP(&vo.format, "format", "f", "", "input format (json, yaml); default by extension, json for stdin")
	cmd.Flags().BoolVar(&vo.collect, "collect", true, "report every error instead of stopping at the first")
	cmd.Flags().BoolVarP(&vo.quiet, "quiet", "q", false, "do not print the coerced model")
	cmd.Flags().StringVar(&vo.metrics, "metrics-file", "", "write Prometheus metrics for this run to a textfile-collector file")
	cmd.Flags().BoolVar(&vo.strict, "strict", false, "reject JSON objects with duplicate keys")
	return cmd
}

func runValidate(cmd *cobra.Command, root *rootOptions, vo *validateOptions, args []string) error {
	s, err := root.loadSchema(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	opts := coerce.Options{CollectErrors: vo.collect, Logger: root.logger(cmd)}
	reg := prometheus.NewRegistry()
	if vo.metrics != "" {
		m, err := metrics.New(reg)
		if err != nil {
			return err
		}
		opts.Observer = m
	}
	p := newPrinter(cmd.ErrOrStderr())
	failed := 0
	for _, name := range args {
		in, err := readInput(cmd.InOrStdin(), name, vo)
		if iss, ok := err.(coerce.Issues); ok {
			failed++
			p.issues(name, iss)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		model, err := s.Validate(in, opts)
		if err != nil {
			iss, ok := coerce.AsIssues(err)
			if !ok {
				return fmt.Errorf("%s: %w", name, err)
			}
			failed++
			p.issues(name, iss)
			continue
		}
		if vo.quiet || !coerce.IsPresent(model) {
			continue
		}
		if err := writeModel(cmd.OutOrStdout(), model); err != nil {
			return err
		}
	}
	if vo.metrics != "" {
		if err := prometheus.WriteToTextfile(vo.metrics, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed validation", failed, len(args))
	}
	return nil
}

func readInput(stdin io.Reader, name string, vo *validateOptions) (any, error) {
	f := source.FormatJSON
	if name != "-" {
		f = source.FormatFor(name)
	}
	if vo.format != "" {
		var err error
		if f, err = source.ParseFormat(vo.format); err != nil {
			return nil, err
		}
	}
	var (
		b   []byte
		err error
	)
	if name == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	switch {
	case f == source.FormatYAML:
		return source.YAML(b)
	case vo.strict:
		return source.JSONStrict(b)
	}
	return source.JSON(b)
}

func writeModel(w io.Writer, model any) error {
	b, err := gojson.MarshalIndent(model, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
