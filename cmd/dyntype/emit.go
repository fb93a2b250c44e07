package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/dyntype/cache"
	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/emit"
	"github.com/wippyai/dyntype/schema"
)

type emitOptions struct {
	Output       string
	Cache        string
	Checks       bool
	BuildOptions bool
}

func newEmitCommand(opts *rootOptions) *cobra.Command {
	eo := &emitOptions{}

	cmd := &cobra.Command{
		Use:   "emit <file>",
		Short: "Generate device source for every declared type",
		Long: `Generate an OpenCL translation unit holding the definition of every
declared type, a typedef per declared name and, with --checks, compile-time
assertions that the device agrees with the host layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.load(args[0])
			if err != nil {
				return err
			}
			if eo.BuildOptions {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), emit.New(doc.Target).BuildOptions())
				return err
			}
			src, err := emitSource(cmd.Context(), opts, eo, doc)
			if err != nil {
				return err
			}
			if eo.Output == "" || eo.Output == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), src)
				return err
			}
			return os.WriteFile(eo.Output, []byte(src), 0o644)
		},
	}

	cmd.Flags().StringVarP(&eo.Output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&eo.Checks, "checks", false, "emit LAYOUT_CHECK assertions")
	cmd.Flags().StringVar(&eo.Cache, "cache", "", "SQLite artifact cache to read and populate")
	cmd.Flags().BoolVar(&eo.BuildOptions, "build-options", false, "print the device compiler options for the target and exit")
	return cmd
}

func emitSource(ctx context.Context, opts *rootOptions, eo *emitOptions, doc *schema.Document) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	named := doc.Types()

	var (
		c   *cache.Cache
		key cache.Key
	)
	if eo.Cache != "" {
		var err error
		if c, err = cache.Open(eo.Cache); err != nil {
			return "", err
		}
		defer c.Close()

		roots := make([]dyn.Type, len(named))
		for i, n := range named {
			roots[i] = n.Type
		}
		key = cache.KeyOf(dyn.NewTuple(roots...), doc.Target, emitLabel(eo, named))
		src, ok, err := c.GetKey(ctx, key)
		if err != nil {
			return "", err
		}
		if ok {
			opts.log.Debug("emit served from cache", zap.String("digest", key.Digest))
			return src, nil
		}
	}

	p := emit.New(doc.Target).WithChecks(eo.Checks)
	for _, n := range named {
		if err := p.Alias(n.Name, n.Type); err != nil {
			return "", fmt.Errorf("type %s: %w", n.Name, err)
		}
	}
	src := p.Source()

	if c != nil {
		if err := c.PutKey(ctx, key, "program", src); err != nil {
			return "", err
		}
	}
	return src, nil
}

// emitLabel distinguishes programs over the same types that differ in
// declared names or assertions.
func emitLabel(eo *emitOptions, named []schema.Named) string {
	names := make([]string, len(named))
	for i, n := range named {
		names[i] = n.Name
	}
	return fmt.Sprintf("checks=%t;names=%s", eo.Checks, strings.Join(names, ","))
}
