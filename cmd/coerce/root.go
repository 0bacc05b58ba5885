package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/i18n"
	"github.com/reoring/coerce/openapi"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	schemaPath      string
	component       string
	preserveUnknown bool
	lang            string
	debug           bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "coerce",
		Short:         "Validate and coerce JSON/YAML documents against OpenAPI schemas",
		Long:          `coerce imports an OpenAPI 3 schema, converts loosely typed input to the declared types and reports every path that does not fit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.lang != "" {
				i18n.SetLanguage(opts.lang)
			}
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.schemaPath, "schema", "s", "", "OpenAPI schema file (JSON or YAML)")
	pf.StringVarP(&opts.component, "component", "c", "", "treat --schema as a full OpenAPI document and use components.schemas[NAME]")
	pf.BoolVar(&opts.preserveUnknown, "preserve-unknown", false, "keep keys not declared under properties")
	pf.StringVar(&opts.lang, "lang", "", "message language (en, ja)")
	pf.BoolVar(&opts.debug, "debug", false, "log pipeline decisions to stderr")

	cmd.AddCommand(newValidateCmd(opts), newJSONSchemaCmd(opts), newVersionCmd())
	return cmd
}

// loadSchema imports the schema selected by the persistent flags and
// prints import warnings to stderr.
func (o *rootOptions) loadSchema(cmd *cobra.Command) (*coerce.Schema, error) {
	if o.schemaPath == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	imp := openapi.Options{}
	if o.preserveUnknown {
		imp.Unknown = openapi.UnknownPreserve
	}
	var (
		s    *coerce.Schema
		diag openapi.Diag
		err  error
	)
	if o.component != "" {
		b, rerr := os.ReadFile(o.schemaPath)
		if rerr != nil {
			return nil, rerr
		}
		s, diag, err = openapi.ImportDocument(b, o.component, imp)
	} else {
		s, diag, err = openapi.ImportFile(o.schemaPath, imp)
	}
	if err != nil {
		return nil, err
	}
	if diag != nil {
		p := newPrinter(cmd.ErrOrStderr())
		for _, w := range diag.Warnings() {
			p.warning(w)
		}
	}
	return s, nil
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	if !o.debug {
		return nil
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}
