package emit

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/layout"
	"github.com/wippyai/dyntype/target"
)

var (
	identRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	vectorRe = regexp.MustCompile(`^(char|uchar|short|ushort|int|uint|long|ulong|float|double|half|real)(2|3|4|8|16)$`)
)

// reserved holds device keywords and built-in type names an alias may not take.
var reserved = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`
		auto break case char const continue default do double else enum extern
		float for goto if inline int long register restrict return short signed
		sizeof static struct switch typedef union unsigned void volatile while
		bool half uchar ushort uint ulong size_t ptrdiff_t intptr_t uintptr_t real
		kernel __kernel global __global local __local constant __constant
		private __private read_only __read_only write_only __write_only
		read_write __read_write image1d_t image2d_t image3d_t sampler_t event_t`) {
		reserved[w] = true
	}
}

func isReserved(name string) bool {
	return reserved[name] || vectorRe.MatchString(name)
}

const checkMacro = `#define LAYOUT_CHECK(T, size, align) \
    typedef char T##_size_check[(sizeof(T) == (size)) ? 1 : -1]; \
    typedef char T##_align_check[(__alignof__(T) == (align)) ? 1 : -1]
`

type alias struct {
	name string
	t    dyn.Type
}

// Program is one device translation unit under construction.
type Program struct {
	roots   []dyn.Type
	aliases []alias
	names   map[string]bool
	tgt     target.Target
	err     error
	checks  bool
}

// New starts a program for tgt. An invalid target is reported by every Add.
func New(tgt target.Target) *Program {
	p := &Program{tgt: tgt, names: make(map[string]bool)}
	if err := tgt.Validate(); err != nil {
		p.err = errors.Wrap(errors.PhaseEmit, errors.KindInvalidInput, err, "invalid program target "+tgt.String())
	}
	return p
}

// WithChecks enables LAYOUT_CHECK assertions for every emitted definition.
func (p *Program) WithChecks(on bool) *Program {
	p.checks = on
	return p
}

func (p *Program) Target() target.Target { return p.tgt }

// BuildOptions is the compiler option string matching the program target,
// e.g. "-D DOUBLE_SUPPORT -D ADDRESS_BITS=64".
func (p *Program) BuildOptions() string {
	defs := p.tgt.Defines()
	opts := make([]string, len(defs))
	for i, d := range defs {
		opts[i] = "-D " + d
	}
	return strings.Join(opts, " ")
}

// Add includes t and its dependencies. t must have a device layout and its
// target-dependent leaves must match the program target.
func (p *Program) Add(t dyn.Type) error {
	if p.err != nil {
		return p.err
	}
	if err := layout.Check(t); err != nil {
		e := err.(*errors.Error)
		return errors.New(errors.PhaseEmit, errors.KindUnrepresentable).
			Path(e.Path...).
			DeviceType(e.DeviceType).
			Cause(err).
			Detail("%s has no device layout", dyn.Describe(t)).
			Build()
	}
	if err := p.checkTarget(t, nil); err != nil {
		return err
	}
	p.roots = append(p.roots, t.Clone())
	return nil
}

// Alias adds t and emits `typedef <t> name;` after the definitions.
func (p *Program) Alias(name string, t dyn.Type) error {
	if !identRe.MatchString(name) {
		return errors.New(errors.PhaseEmit, errors.KindInvalidInput).
			Value(name).
			Detail("%q is not a valid identifier", name).
			Build()
	}
	if isReserved(name) {
		return errors.New(errors.PhaseEmit, errors.KindInvalidInput).
			Value(name).
			Detail("%q is a reserved device name", name).
			Build()
	}
	if p.names[name] {
		return errors.New(errors.PhaseEmit, errors.KindDuplicate).
			Value(name).
			Detail("alias %q already defined", name).
			Build()
	}
	if err := p.Add(t); err != nil {
		return err
	}
	p.names[name] = true
	p.aliases = append(p.aliases, alias{name: name, t: t.Clone()})
	return nil
}

func (p *Program) checkTarget(t dyn.Type, path []string) error {
	if l, ok := t.(*dyn.Leaf); ok {
		lt := l.Target()
		mismatch := false
		switch l.Code() {
		case dyn.Real, dyn.F64:
			mismatch = lt.Precision != p.tgt.Precision
		case dyn.SizeT:
			mismatch = lt.AddressBits != p.tgt.AddressBits
		}
		if mismatch {
			return errors.New(errors.PhaseEmit, errors.KindTypeMismatch).
				Path(path...).
				HostType(lt.String()).
				DeviceType(p.tgt.String()).
				Detail("%s built for a different target", l.Name()).
				Build()
		}
		return nil
	}
	for i, child := range dyn.Children(t) {
		step := "field" + strconv.Itoa(i)
		if t.Kind() == dyn.KindVariant {
			step = "variant" + strconv.Itoa(i)
		}
		if err := p.checkTarget(child, append(path, step)); err != nil {
			return err
		}
	}
	return nil
}

// Definitions returns the composite definitions in emission order.
func (p *Program) Definitions() []dyn.Definition {
	return dyn.Definitions(p.roots...)
}

// Source renders the complete translation unit.
func (p *Program) Source() string {
	defs := p.Definitions()
	sections := []string{p.header()}
	if p.tgt.HasDouble() {
		sections = append(sections, "#pragma OPENCL EXTENSION cl_khr_fp64 : enable\n")
	}
	sections = append(sections, realTypedefs(p.tgt))
	for _, d := range defs {
		sections = append(sections, d.Source)
	}
	if len(p.aliases) > 0 {
		var b strings.Builder
		for _, a := range p.aliases {
			b.WriteString("typedef " + a.t.Name() + " " + a.name + ";\n")
		}
		sections = append(sections, b.String())
	}
	if p.checks && len(defs) > 0 {
		sections = append(sections, checkMacro, p.layoutChecks(defs))
	}

	Logger().Debug("program emitted",
		zap.String("target", p.tgt.String()),
		zap.Int("roots", len(p.roots)),
		zap.Int("definitions", len(defs)),
		zap.Bool("checks", p.checks),
	)
	return strings.Join(sections, "\n")
}

// WriteTo writes Source to w.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.Source())
	return int64(n), err
}

func (p *Program) header() string {
	return "// Code generated by dyntype. DO NOT EDIT.\n// target: " + p.tgt.String() + "\n"
}

func (p *Program) layoutChecks(defs []dyn.Definition) string {
	byName := make(map[string]dyn.Type)
	for _, r := range p.roots {
		collect(r, byName)
	}
	var b strings.Builder
	for _, d := range defs {
		t := byName[d.Name]
		size, _ := t.Size()
		b.WriteString("LAYOUT_CHECK(" + d.Name + ", " + strconv.Itoa(size) + ", " + strconv.Itoa(t.Align()) + ");\n")
	}
	return b.String()
}

func collect(t dyn.Type, into map[string]dyn.Type) {
	if t.Kind() == dyn.KindLeaf {
		return
	}
	into[t.Name()] = t
	for _, c := range dyn.Children(t) {
		collect(c, into)
	}
}

var realLanes = []int{1, 2, 3, 4, 8, 16}

func realTypedefs(tgt target.Target) string {
	scalar := "float"
	if tgt.HasDouble() {
		scalar = "double"
	}
	var b strings.Builder
	for _, n := range realLanes {
		suffix := ""
		if n > 1 {
			suffix = strconv.Itoa(n)
		}
		b.WriteString("typedef " + scalar + suffix + " real" + suffix + ";\n")
	}
	return b.String()
}

// Source is a one-shot helper: a program over roots without checks.
func Source(tgt target.Target, roots ...dyn.Type) (string, error) {
	p := New(tgt)
	if p.err != nil {
		return "", p.err
	}
	for _, r := range roots {
		if err := p.Add(r); err != nil {
			return "", err
		}
	}
	return p.Source(), nil
}
