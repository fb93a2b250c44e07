package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/layout"
	"github.com/wippyai/dyntype/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newBrowseCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file>",
		Short: "Browse declared types and encode values interactively",
		Long: `Browse declared types, their layout trees and device definitions, and
encode values typed in YAML. Falls back to the layout report when stdout is
not a terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				doc, err := opts.load(args[0])
				if err != nil {
					return err
				}
				return writeLayoutText(cmd.OutOrStdout(), buildLayoutReport(doc))
			}
			p := tea.NewProgram(newBrowseModel(opts, args[0]), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

type browseState int

const (
	stateSelectType browseState = iota
	stateShowType
	stateInputValue
	stateShowResult
)

type browseModel struct {
	err      error
	opts     *rootOptions
	calc     *layout.Calculator
	filename string
	result   string
	types    []schema.Named
	input    textinput.Model
	selected int
	state    browseState
	loaded   bool
}

type loadedMsg struct {
	err   error
	types []schema.Named
}

func newBrowseModel(opts *rootOptions, filename string) *browseModel {
	return &browseModel{
		opts:     opts,
		calc:     layout.NewCalculator(),
		filename: filename,
		state:    stateSelectType,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadDocument
}

func (m *browseModel) loadDocument() tea.Msg {
	doc, err := m.opts.load(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{types: doc.Types()}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" || (key == "q" && m.state != stateInputValue) {
			return m, tea.Quit
		}

		switch key {
		case "up", "k":
			if m.state == stateSelectType && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectType && m.selected < len(m.types)-1 {
				m.selected++
			}

		case "e":
			if m.state == stateShowType {
				m.prepareInput()
				m.state = stateInputValue
				return m, nil
			}

		case "enter":
			switch m.state {
			case stateSelectType:
				if len(m.types) > 0 {
					m.state = stateShowType
				}
			case stateInputValue:
				m.result, m.err = encodeValue(m.types[m.selected].Type, m.input.Value())
				m.state = stateShowResult
			case stateShowResult:
				m.state = stateShowType
				m.result = ""
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateShowType:
				m.state = stateSelectType
			case stateInputValue, stateShowResult:
				m.state = stateShowType
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.types = msg.types
	}

	if m.state == stateInputValue {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *browseModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = placeholder(m.types[m.selected].Type)
	ti.Prompt = "value: "
	ti.Width = 60
	ti.Focus()
	m.input = ti
}

// placeholder shows the YAML shape a value of t takes.
func placeholder(t dyn.Type) string {
	switch typ := t.(type) {
	case *dyn.Tuple:
		parts := make([]string, typ.Len())
		for i := range parts {
			parts[i] = placeholder(typ.Field(i))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *dyn.Variant:
		if typ.Len() == 0 {
			return "{}"
		}
		return "{index: 0, value: " + placeholder(typ.Component(0)) + "}"
	case *dyn.Leaf:
		if typ.Lanes() > 1 {
			return "[" + strings.TrimSuffix(strings.Repeat("0, ", typ.Lanes()), ", ") + "]"
		}
	}
	return "0"
}

// encodeValue builds an instance of t from YAML text and hex dumps its
// device bytes.
func encodeValue(t dyn.Type, text string) (string, error) {
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return "", err
	}
	inst, err := schema.BuildValue(t, v)
	if err != nil {
		return "", err
	}
	buf, err := dyn.Encode(inst)
	if err != nil {
		return "", err
	}
	return hex.Dump(buf), nil
}

func (m *browseModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if !m.loaded {
		return "Loading document..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("dyntype"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	if len(m.types) == 0 {
		b.WriteString("No types declared.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	switch m.state {
	case stateSelectType:
		b.WriteString("Select a type:\n\n")
		for i, n := range m.types {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.formatType(n)))
			} else {
				b.WriteString("  " + m.formatType(n))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter inspect • q quit"))

	case stateShowType:
		n := m.types[m.selected]
		b.WriteString(nameStyle.Render(n.Name) + " = " + typeStyle.Render(dyn.Describe(n.Type)) + "\n\n")
		b.WriteString(m.renderTree(n))
		b.WriteString("\n")
		if src := n.Type.Source(); src != "" {
			b.WriteString(src)
		} else {
			b.WriteString(helpStyle.Render("built-in device type") + "\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("e encode a value • esc back • q quit"))

	case stateInputValue:
		n := m.types[m.selected]
		b.WriteString(fmt.Sprintf("Encoding %s\n\n", nameStyle.Render(n.Name)))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter encode • esc back"))

	case stateShowResult:
		n := m.types[m.selected]
		b.WriteString(fmt.Sprintf("%s bytes:\n\n", nameStyle.Render(n.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *browseModel) formatType(n schema.Named) string {
	info := m.calc.Calculate(n.Type)
	return nameStyle.Render(n.Name) + "  " + typeStyle.Render(dyn.Describe(n.Type)) + "  " + sizeText(info) + " bytes"
}

func (m *browseModel) renderTree(n schema.Named) string {
	var b strings.Builder
	layout.Walk(m.calc.Tree(n.Type), func(node *layout.Node, depth int) {
		label := node.Label
		if depth == 0 {
			label = n.Name
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(label + " " + typeStyle.Render(node.Expr))
		b.WriteString(" @" + strconv.Itoa(node.Offset) + " size " + sizeText(node.Info) + " align " + strconv.Itoa(node.Info.Align) + "\n")
	})
	return b.String()
}
