package graphgen

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

// Node is the vertex type of generated graphs. It mixes every shape the
// cloner handles: scalars, slices of primitives, slices of pointers, maps of
// pointers, arrays, interfaces and an unexported slice.
type Node struct {
	ID       int
	Name     string
	Weight   float64
	Tags     []string
	Children []*Node
	Attrs    map[string]*Leaf
	Leaf     *Leaf
	Payload  any
	Matrix   [2][2]int
	Created  time.Time

	scratch []byte
}

// Leaf is a terminal value.
type Leaf struct {
	Value int
	Label string
}

// Scratch returns the unexported buffer of n.
func (n *Node) Scratch() []byte {
	return n.scratch
}

// Config bounds the size of generated graphs.
type Config struct {
	Seed  uint64
	Width int
	Depth int
	// Share is the probability that a child slot reuses an already generated
	// node instead of a new one. Sharing never creates a cycle.
	Share float64
}

// DefaultConfig returns a small graph configuration.
func DefaultConfig() Config {
	return Config{Seed: 1, Width: 3, Depth: 4, Share: 0.1}
}

// Generator builds random acyclic graphs. The same Config always yields the
// same graph.
//
// Thread Safety: not safe for concurrent use.
type Generator struct {
	cfg   Config
	rnd   *rand.Rand
	next  int
	built []*Node
}

// New returns a generator for cfg.
func New(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rnd: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// Graph generates a new graph and returns its root.
func (g *Generator) Graph() *Node {
	g.built = g.built[:0]
	return g.node(g.cfg.Depth)
}

// Count returns the number of distinct nodes created by the last Graph call.
func (g *Generator) Count() int {
	return len(g.built)
}

func (g *Generator) node(depth int) *Node {
	g.next++

	n := &Node{
		ID:      g.next,
		Name:    fmt.Sprintf("node-%d", g.next),
		Weight:  g.rnd.Float64(),
		Tags:    g.tags(),
		Created: time.Unix(int64(g.rnd.IntN(1<<30)), 0).UTC(),
		Matrix:  [2][2]int{{g.rnd.IntN(10), g.rnd.IntN(10)}, {g.rnd.IntN(10), g.rnd.IntN(10)}},
		scratch: []byte(fmt.Sprintf("s%d", g.next)),
	}

	if g.rnd.IntN(2) == 0 {
		n.Leaf = g.leaf()
	}

	switch g.rnd.IntN(4) {
	case 0:
		n.Payload = g.leaf()
	case 1:
		n.Payload = g.rnd.IntN(100)
	case 2:
		n.Payload = []any{"x", g.rnd.IntN(100)}
	}

	if count := g.rnd.IntN(3); count > 0 {
		n.Attrs = make(map[string]*Leaf, count)
		for i := range count {
			n.Attrs[fmt.Sprintf("k%d", i)] = g.leaf()
		}
	}

	if depth > 0 {
		for range g.rnd.IntN(g.cfg.Width + 1) {
			// Only fully built nodes are shared, so no node reaches an ancestor.
			if len(g.built) > 0 && g.rnd.Float64() < g.cfg.Share {
				n.Children = append(n.Children, g.built[g.rnd.IntN(len(g.built))])
				continue
			}

			n.Children = append(n.Children, g.node(depth-1))
		}
	}

	g.built = append(g.built, n)

	return n
}

func (g *Generator) leaf() *Leaf {
	v := g.rnd.IntN(1000)
	return &Leaf{Value: v, Label: fmt.Sprintf("leaf-%d", v)}
}

func (g *Generator) tags() []string {
	count := g.rnd.IntN(3)
	if count == 0 {
		return nil
	}

	tags := make([]string, count)
	for i := range tags {
		tags[i] = fmt.Sprintf("t%d", g.rnd.IntN(50))
	}

	return tags
}

// Fingerprint hashes the exported content of an acyclic graph. Structurally
// equal graphs have equal fingerprints. It does not terminate on cycles.
func Fingerprint(v any) (uint64, error) {
	return hashstructure.Hash(v, hashstructure.FormatV2, nil)
}
