package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/dyntype/schema"
	"github.com/wippyai/dyntype/witconv"
)

func newImportWITCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import-wit <resolve.json>",
		Short: "Convert WIT type definitions into a schema document",
		Long: `Convert the named type definitions of a resolved WIT package, in the JSON
form printed by "wasm-tools component wit --json", into a schema document.
Definitions with no device representation are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tgt, err := opts.target()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			types, skipped, err := witconv.ImportJSON(f, tgt)
			if err != nil {
				return err
			}
			for _, s := range skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", s)
			}

			out, err := schema.Marshal(tgt, types, schema.Format(format))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", string(schema.FormatYAML), "output format (yaml|json)")
	return cmd
}
