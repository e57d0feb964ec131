package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph-cloner/internal/graphgen"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	benchMode, benchWorkers, benchRules = "depth-first", 4, ""
	benchIterations, benchMetrics = 5, false
	benchGraph = graphgen.DefaultConfig()
	demoMode, demoDump = "depth-first", false
	vetDir, vetTagKey = "", ""

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--no-color"))

	t.Cleanup(func() {
		for _, cmd := range []string{"mode", "workers"} {
			for _, c := range rootCmd.Commands() {
				if f := c.Flags().Lookup(cmd); f != nil {
					f.Changed = false
				}
			}
		}
	})

	err := rootCmd.Execute()

	return out.String(), err
}

func TestDemo(t *testing.T) {
	for _, mode := range []string{"depth-first", "breadth-first", "parallel"} {
		t.Run(mode, func(t *testing.T) {
			out, err := run(t, "demo", "--mode", mode)
			require.NoError(t, err)

			assert.Contains(t, out, mode)
			assert.NotContains(t, out, "FAIL")
			assert.Contains(t, out, "ok ring closes on its own head")
		})
	}
}

func TestDemoDump(t *testing.T) {
	out, err := run(t, "demo", "--dump")
	require.NoError(t, err)

	assert.Contains(t, out, `Name: (string) (len=1) "A"`)
	assert.Contains(t, out, "already shown")
}

func TestBench(t *testing.T) {
	out, err := run(t, "bench", "--workers", "3", "--depth", "3", "--iterations", "2", "--metrics")
	require.NoError(t, err)

	assert.Contains(t, out, "parallel:")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "#2")
	assert.Contains(t, out, "mean")
	assert.Contains(t, out, `graph_cloner_clones_total{mode="parallel",result="ok"} 2`)
}

func TestBenchRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("execution:\n  mode: breadth-first\n"), 0o600))

	out, err := run(t, "bench", "--rules", path, "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "breadth-first:")
}

func TestBenchInvalidRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types:\n  - action: original\n"), 0o600))

	_, err := run(t, "bench", "--rules", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty_matcher")
}

func TestBenchSharedClone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types:\n  - match: \"*graphgen.Leaf\"\n    action: original\n"), 0o600))

	out, err := run(t, "bench", "--rules", path, "-n", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not independent")
	assert.Contains(t, out, "clone shares *graphgen.Leaf")
}

func TestBenchBadMode(t *testing.T) {
	_, err := run(t, "bench", "--mode", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported execution mode")
}

func TestBenchBadIterations(t *testing.T) {
	_, err := run(t, "bench", "-n", "0")
	require.Error(t, err)
}

func writeModule(t *testing.T, src string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/model\n\ngo 1.25\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.go"), []byte(src), 0o600))

	return dir
}

func TestVet(t *testing.T) {
	dir := writeModule(t, "package model\n\ntype User struct {\n\tName string `clone:\"original\"`\n}\n")

	out, err := run(t, "vet", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "tags ok")
}

func TestVetErrors(t *testing.T) {
	dir := writeModule(t, "package model\n\ntype User struct {\n\tName string `clone:\"sometimes\"`\n}\n")

	out, err := run(t, "vet", "-C", dir, "./...")
	require.Error(t, err)
	assert.Contains(t, out, "model.User.Name: [bad_tag]")
}
