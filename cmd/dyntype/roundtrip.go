package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wippyai/dyntype/device"
	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/schema"
)

func newRoundtripCommand(opts *rootOptions) *cobra.Command {
	var (
		dump     bool
		maxPages uint32
	)

	cmd := &cobra.Command{
		Use:   "roundtrip <file>",
		Short: "Push every document value through a device arena and back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.load(args[0])
			if err != nil {
				return err
			}
			values, err := doc.Values()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			arena, err := device.Open(ctx, &device.Config{MaxPages: maxPages})
			if err != nil {
				return err
			}
			defer arena.Close(ctx)

			return roundtrip(cmd.OutOrStdout(), arena, values, dump)
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "hex dump the stored bytes")
	cmd.Flags().Uint32Var(&maxPages, "max-pages", 0, "arena memory limit in 64KB pages (default 256)")
	return cmd
}

func roundtrip(w io.Writer, arena *device.Arena, values []schema.Value, dump bool) error {
	failed := 0
	for i, v := range values {
		r, err := arena.Upload(v.Instance)
		if err != nil {
			return fmt.Errorf("values[%d] (%s): %w", i, v.TypeName, err)
		}
		back, err := arena.Download(v.Instance.Type(), r)
		if err != nil {
			return fmt.Errorf("values[%d] (%s): %w", i, v.TypeName, err)
		}
		status := "ok"
		if !dyn.EqualInstances(v.Instance, back) {
			status = "MISMATCH"
			failed++
		}
		fmt.Fprintf(w, "values[%d] %s: offset=%d size=%d align=%d %s\n",
			i, v.TypeName, r.Offset, r.Size, r.Align, status)
		if dump {
			raw, err := arena.Raw(r)
			if err != nil {
				return err
			}
			fmt.Fprint(w, hex.Dump(raw))
		}
	}
	fmt.Fprintf(w, "%d values, %d bytes used\n", len(values), arena.Used())
	if failed > 0 {
		return fmt.Errorf("%d of %d values did not round trip", failed, len(values))
	}
	return nil
}
