package reactive

import (
	"fmt"
	"time"
)

type Kind int

const (
	KindInput Kind = iota
	KindCalc
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindCalc:
		return "calc"
	case KindOutput:
		return "output"
	}
	return "unknown"
}

// Node is any member of a Graph that others can depend on.
type Node interface {
	Name() string
	base() *node
}

type node struct {
	g        *Graph
	name     string
	kind     Kind
	deps     []*node
	children []*node
	stale    bool
	run      func()
}

func (n *node) Name() string { return n.name }
func (n *node) base() *node  { return n }

// declares reports whether dep is a direct dependency of n.
func (n *node) declares(dep *node) bool {
	for _, d := range n.deps {
		if d == dep {
			return true
		}
	}
	return false
}

// Info describes a node for introspection.
type Info struct {
	Name string
	Kind Kind
	Deps []string
}

// Graph owns a set of nodes. The zero value is not usable; call NewGraph.
type Graph struct {
	nodes  []*node
	byName map[string]*node
	runs   map[string]int
	active *node

	invalidateHooks []func(outputs []string)
	recomputeHooks  []func(name string, kind Kind, elapsed time.Duration)
}

func NewGraph() *Graph {
	return &Graph{
		byName: make(map[string]*node),
		runs:   make(map[string]int),
	}
}

func (g *Graph) add(name string, kind Kind, deps []Node) *node {
	if name == "" {
		panic("reactive: empty node name")
	}
	if _, dup := g.byName[name]; dup {
		panic("reactive: duplicate node " + name)
	}
	n := &node{g: g, name: name, kind: kind, stale: kind != KindInput}
	for _, d := range deps {
		dn := d.base()
		if dn.g != g {
			panic(fmt.Sprintf("reactive: %s depends on %s from another graph", name, dn.name))
		}
		if dn.kind == KindOutput {
			panic(fmt.Sprintf("reactive: %s depends on output %s", name, dn.name))
		}
		n.deps = append(n.deps, dn)
		dn.children = append(dn.children, n)
	}
	g.nodes = append(g.nodes, n)
	g.byName[name] = n
	return n
}

// OnInvalidate registers fn to receive the outputs made stale by each
// input write, in creation order.
func (g *Graph) OnInvalidate(fn func(outputs []string)) {
	g.invalidateHooks = append(g.invalidateHooks, fn)
}

// OnRecompute registers fn to run after every calc or output execution.
func (g *Graph) OnRecompute(fn func(name string, kind Kind, elapsed time.Duration)) {
	g.recomputeHooks = append(g.recomputeHooks, fn)
}

// invalidate marks everything downstream of src stale and notifies listeners.
func (g *Graph) invalidate(src *node) {
	marked := make(map[*node]bool)
	queue := append([]*node(nil), src.children...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if marked[n] {
			continue
		}
		marked[n] = true
		n.stale = true
		queue = append(queue, n.children...)
	}

	var outputs []string
	for _, n := range g.nodes {
		if marked[n] && n.kind == KindOutput {
			outputs = append(outputs, n.name)
		}
	}
	if len(outputs) == 0 {
		return
	}
	for _, fn := range g.invalidateHooks {
		fn(outputs)
	}
}

// ensure brings n up to date, recomputing stale dependencies first.
func (g *Graph) ensure(n *node) {
	if !n.stale {
		return
	}
	for _, d := range n.deps {
		g.ensure(d)
	}

	start := time.Now()
	g.execute(n)
	elapsed := time.Since(start)

	n.stale = false
	g.runs[n.name]++
	for _, fn := range g.recomputeHooks {
		fn(n.name, n.kind, elapsed)
	}
}

func (g *Graph) execute(n *node) {
	prev := g.active
	g.active = n
	defer func() { g.active = prev }()
	n.run()
}

// read is called by every Get. Reading a node that the running node did not
// declare is a wiring bug.
func (g *Graph) read(n *node) {
	if g.active != nil && !g.active.declares(n) {
		panic(fmt.Sprintf("reactive: %s reads undeclared dependency %s", g.active.name, n.name))
	}
	g.ensure(n)
}

// Flush recomputes every stale output in topological order and returns the
// names of the outputs that ran.
func (g *Graph) Flush() []string {
	var ran []string
	for _, n := range g.nodes {
		if n.kind == KindOutput && n.stale {
			g.ensure(n)
			ran = append(ran, n.name)
		}
	}
	return ran
}

// Stale reports whether the named node needs recomputation.
func (g *Graph) Stale(name string) bool {
	n, ok := g.byName[name]
	return ok && n.stale
}

// Runs returns a copy of the execution count of every calc and output.
func (g *Graph) Runs() map[string]int {
	out := make(map[string]int, len(g.nodes))
	for _, n := range g.nodes {
		if n.kind != KindInput {
			out[n.name] = g.runs[n.name]
		}
	}
	return out
}

// Describe lists the nodes in creation order.
func (g *Graph) Describe() []Info {
	out := make([]Info, 0, len(g.nodes))
	for _, n := range g.nodes {
		info := Info{Name: n.name, Kind: n.kind}
		for _, d := range n.deps {
			info.Deps = append(info.Deps, d.name)
		}
		out = append(out, info)
	}
	return out
}
