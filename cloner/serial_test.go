package cloner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph-cloner/cloner"
	"graph-cloner/internal/graphgen"
)

func TestNoop(t *testing.T) {
	in := graphgen.Chain()

	out, err := cloner.CloneOf(t.Context(), cloner.Noop, in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestGob(t *testing.T) {
	x := &graphgen.Item{Name: "x"}
	in := &graphgen.Pair{Left: x, Right: x, Index: map[string]*graphgen.Item{"a": x}}

	out, err := cloner.CloneOf(t.Context(), cloner.Gob, in)
	require.NoError(t, err)

	assert.NotSame(t, in, out)
	assert.Equal(t, "x", out.Left.Name)
	assert.NotSame(t, out.Left, out.Right, "gob does not preserve sharing")

	out, err = cloner.CloneOf(t.Context(), cloner.Gob, (*graphgen.Pair)(nil))
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = cloner.Gob.Clone(t.Context(), make(chan int))
	var cloning *cloner.CloningError
	require.ErrorAs(t, err, &cloning)
}
