package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/wippyai/dyntype/layout"
	"github.com/wippyai/dyntype/schema"
)

type layoutReport struct {
	Target string        `json:"target"`
	Types  []layoutEntry `json:"types"`
}

type layoutEntry struct {
	Tree *layout.Node `json:"tree"`
	Name string       `json:"name"`
}

func newLayoutCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Print size, alignment and offsets of every declared type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.load(args[0])
			if err != nil {
				return err
			}
			report := buildLayoutReport(doc)
			if asJSON {
				return writeLayoutJSON(cmd.OutOrStdout(), report)
			}
			return writeLayoutText(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON report")
	return cmd
}

func buildLayoutReport(doc *schema.Document) layoutReport {
	calc := layout.NewCalculator()
	report := layoutReport{Target: doc.Target.String()}
	for _, n := range doc.Types() {
		report.Types = append(report.Types, layoutEntry{Name: n.Name, Tree: calc.Tree(n.Type)})
	}
	return report
}

func writeLayoutJSON(w io.Writer, report layoutReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeLayoutText(w io.Writer, report layoutReport) error {
	fmt.Fprintf(w, "target: %s\n", report.Target)
	for _, e := range report.Types {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("member", "type", "offset", "size", "align")
		layout.Walk(e.Tree, func(n *layout.Node, depth int) {
			label := n.Label
			if depth == 0 {
				label = e.Name
			}
			t.Row(strings.Repeat("  ", depth)+label, n.Expr, strconv.Itoa(n.Offset), sizeText(n.Info), strconv.Itoa(n.Info.Align))
		})
		if _, err := fmt.Fprintf(w, "\n%s (%s)\n%s\n", e.Name, e.Tree.Info.Name, t.Render()); err != nil {
			return err
		}
	}
	return nil
}

func sizeText(info layout.Info) string {
	if !info.Storable {
		return "-"
	}
	return strconv.Itoa(info.Size)
}
