package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/coerce/jsonschema"
)

func newJSONSchemaCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the draft-07 JSON Schema of validated models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.loadSchema(cmd)
			if err != nil {
				return err
			}
			b, err := jsonschema.Marshal(s)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}
