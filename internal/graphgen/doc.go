// Package graphgen builds object graphs for exercising cloners: seeded random
// acyclic graphs with shared nodes, plus small hand-made fixtures with cycles.
package graphgen
