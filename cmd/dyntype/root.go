package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/dyntype/cache"
	"github.com/wippyai/dyntype/device"
	"github.com/wippyai/dyntype/emit"
	"github.com/wippyai/dyntype/schema"
	"github.com/wippyai/dyntype/target"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	log     *zap.Logger
	Target  string
	Verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:           "dyntype",
		Short:         "Inspect dynamic device types",
		Long:          "Lay out, emit and round trip runtime type descriptors shared with an OpenCL device.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Target != "" {
				if _, err := target.Parse(opts.Target); err != nil {
					return err
				}
			}
			if opts.Verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				opts.log = l
				emit.SetLogger(l)
				schema.SetLogger(l)
				device.SetLogger(l)
				cache.SetLogger(l)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")
	cmd.PersistentFlags().StringVar(&opts.Target, "target", "", "device target, e.g. fp32/addr64 (default: the document's target)")

	cmd.AddCommand(newLayoutCommand(opts))
	cmd.AddCommand(newEmitCommand(opts))
	cmd.AddCommand(newRoundtripCommand(opts))
	cmd.AddCommand(newBrowseCommand(opts))
	cmd.AddCommand(newImportWITCommand(opts))

	return cmd
}

// load reads a schema document, applying the --target override.
func (o *rootOptions) load(path string) (*schema.Document, error) {
	var opts []schema.Option
	if o.Target != "" {
		tgt, err := target.Parse(o.Target)
		if err != nil {
			return nil, err
		}
		opts = append(opts, schema.WithTarget(tgt))
	}
	return schema.LoadFile(path, opts...)
}

// target returns the --target flag or the default target.
func (o *rootOptions) target() (target.Target, error) {
	return target.Parse(o.Target)
}
