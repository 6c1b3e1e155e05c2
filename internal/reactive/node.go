package reactive

// Input is a writable source value.
type Input[T any] struct {
	*node
	value T
	equal func(a, b T) bool
}

// NewInput adds an input holding initial. equal decides whether a write is a
// change; nil means writes always invalidate.
func NewInput[T any](g *Graph, name string, initial T, equal func(a, b T) bool) *Input[T] {
	in := &Input[T]{value: initial, equal: equal}
	in.node = g.add(name, KindInput, nil)
	in.node.run = func() {}
	return in
}

func (in *Input[T]) Get() T {
	in.g.read(in.node)
	return in.value
}

// Set stores v and reports whether it changed. An unchanged value
// invalidates nothing.
func (in *Input[T]) Set(v T) bool {
	if in.g.active != nil {
		panic("reactive: " + in.g.active.name + " writes input " + in.name)
	}
	if in.equal != nil && in.equal(in.value, v) {
		return false
	}
	in.value = v
	in.g.invalidate(in.node)
	return true
}

// Calc is a cached derivation of its dependencies.
type Calc[T any] struct {
	*node
	value T
}

func NewCalc[T any](g *Graph, name string, deps []Node, fn func() T) *Calc[T] {
	c := &Calc[T]{}
	c.node = g.add(name, KindCalc, deps)
	c.node.run = func() { c.value = fn() }
	return c
}

func (c *Calc[T]) Get() T {
	c.g.read(c.node)
	return c.value
}

// Output is a terminal node. Nothing may depend on it.
type Output[T any] struct {
	*node
	value T
}

func NewOutput[T any](g *Graph, name string, deps []Node, fn func() T) *Output[T] {
	o := &Output[T]{}
	o.node = g.add(name, KindOutput, deps)
	o.node.run = func() { o.value = fn() }
	return o
}

func (o *Output[T]) Get() T {
	o.g.read(o.node)
	return o.value
}

// Equal is the equality func for comparable input types.
func Equal[T comparable](a, b T) bool { return a == b }
