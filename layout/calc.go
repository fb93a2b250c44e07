package layout

import (
	"strconv"
	"sync"

	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/errors"
)

// Info is the device layout of one type.
type Info struct {
	Name          string `json:"name"`
	Offsets       []int  `json:"offsets,omitempty"`
	Size          int    `json:"size"`
	Align         int    `json:"align"`
	PayloadOffset int    `json:"payload_offset,omitempty"`
	Storable      bool   `json:"storable"`
}

type entry struct {
	t    dyn.Type
	info Info
}

// Calculator memoizes layouts. It is safe for concurrent use.
type Calculator struct {
	cache  map[uint64][]entry
	mu     sync.Mutex
	hits   int
	misses int
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[uint64][]entry),
	}
}

func (c *Calculator) Calculate(t dyn.Type) Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calculate(t)
}

func (c *Calculator) calculate(t dyn.Type) Info {
	id := t.ID()
	for _, e := range c.cache[id] {
		if dyn.Equal(e.t, t) {
			c.hits++
			return e.info
		}
	}
	c.misses++

	var info Info
	switch typ := t.(type) {
	case *dyn.Leaf:
		info = c.calculateLeaf(typ)
	case *dyn.Tuple:
		info = c.calculateTuple(typ)
	case *dyn.Variant:
		info = c.calculateVariant(typ)
	}

	c.cache[id] = append(c.cache[id], entry{t: t.Clone(), info: info})
	return info
}

func base(t dyn.Type) Info {
	size, ok := t.Size()
	return Info{Name: t.Name(), Size: size, Align: t.Align(), Storable: ok}
}

func (c *Calculator) calculateLeaf(l *dyn.Leaf) Info {
	return base(l)
}

func (c *Calculator) calculateTuple(t *dyn.Tuple) Info {
	info := base(t)
	for i := 0; i < t.Len(); i++ {
		c.calculate(t.Field(i))
	}
	info.Offsets = t.Offsets()
	return info
}

func (c *Calculator) calculateVariant(v *dyn.Variant) Info {
	info := base(v)
	for i := 0; i < v.Len(); i++ {
		c.calculate(v.Component(i))
	}
	info.PayloadOffset = v.PayloadOffset()
	return info
}

// Stats returns cache hits and misses so far.
func (c *Calculator) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Node is one type in a layout tree. Offset is relative to the root buffer.
type Node struct {
	Type     dyn.Type `json:"-"`
	Label    string   `json:"label"`
	Expr     string   `json:"type"`
	Children []*Node  `json:"children,omitempty"`
	Info     Info     `json:"layout"`
	Offset   int      `json:"offset"`
}

// Tree lays out t and every nested type. Tuple fields are labelled fieldN
// and variant components variantN, matching emitted member names.
func (c *Calculator) Tree(t dyn.Type) *Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree(t, t.Name(), 0)
}

func (c *Calculator) tree(t dyn.Type, label string, offset int) *Node {
	n := &Node{
		Type:   t,
		Label:  label,
		Expr:   dyn.Describe(t),
		Info:   c.calculate(t),
		Offset: offset,
	}
	switch typ := t.(type) {
	case *dyn.Tuple:
		for i := 0; i < typ.Len(); i++ {
			off := offset
			if n.Info.Storable {
				off += n.Info.Offsets[i]
			}
			n.Children = append(n.Children, c.tree(typ.Field(i), "field"+strconv.Itoa(i), off))
		}
	case *dyn.Variant:
		for i := 0; i < typ.Len(); i++ {
			n.Children = append(n.Children, c.tree(typ.Component(i), "variant"+strconv.Itoa(i), offset+n.Info.PayloadOffset))
		}
	}
	return n
}

// Walk visits n and its descendants depth first.
func Walk(n *Node, fn func(n *Node, depth int)) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int)) {
	fn(n, depth)
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}

// Check returns an unrepresentable error naming the first nested type that
// has no device layout, or nil when t is storable.
func Check(t dyn.Type) error {
	if _, ok := t.Size(); ok {
		return nil
	}
	var path []string
	culprit := t
	for {
		next := -1
		kids := dyn.Children(culprit)
		for i, k := range kids {
			if _, ok := k.Size(); !ok {
				next = i
				break
			}
		}
		if next < 0 {
			break
		}
		path = append(path, label(culprit, next))
		culprit = kids[next]
	}
	return errors.Unrepresentable(errors.PhaseLayout, path, dyn.Describe(culprit))
}

func label(t dyn.Type, i int) string {
	if t.Kind() == dyn.KindVariant {
		return "variant" + strconv.Itoa(i)
	}
	return "field" + strconv.Itoa(i)
}
