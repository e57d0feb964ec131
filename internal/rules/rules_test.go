package rules

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph-cloner/cloner"
	"graph-cloner/policy"
)

type session struct {
	ID     string
	conn   chan int
	Token  string `secret:"true"`
	Labels map[string]string
}

type settings struct {
	Name string
}

func slotOf(t *testing.T, owner reflect.Type, name string) policy.Slot {
	t.Helper()

	f, ok := owner.FieldByName(name)
	require.True(t, ok, name)

	return policy.Slot{Owner: owner, Field: f, Index: f.Index}
}

func TestParse(t *testing.T) {
	data := `
execution:
  mode: parallel
  workers: 4
types:
  - match: "*rules.settings"
    action: original
  - kind: chan
    action: null
slots:
  - owner: "rules.session"
    field: "conn*"
    action: skip
  - tag: secret
    action: null
keys:
  - "string"
`

	f, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, "parallel", f.Execution.Mode)
	assert.Equal(t, 4, f.Execution.Workers)
	require.Len(t, f.Types, 2)
	assert.Equal(t, "original", f.Types[0].Action)
	assert.Equal(t, "chan", f.Types[1].Kind)
	assert.Equal(t, "null", f.Types[1].Action)
	require.Len(t, f.Slots, 2)
	assert.Equal(t, "skip", f.Slots[0].Action)
	assert.Equal(t, "secret", f.Slots[1].Tag)
	assert.Equal(t, "null", f.Slots[1].Action)
	assert.Equal(t, []string{"string"}, f.Keys)
}

func TestParseDefaults(t *testing.T) {
	f, err := Parse([]byte("types: []\n"))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, "depth-first", f.Execution.Mode)
	assert.False(t, Validate(f).HasErrors())
}

func TestParseNullAction(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected policy.Action
	}{
		{"bare null", "null", policy.Null},
		{"tilde", "~", policy.Null},
		{"capitalized", "Null", policy.Null},
		{"quoted", `"null"`, policy.Null},
		{"nil", "nil", policy.Null},
		{"zero", "zero", policy.Null},
		{"empty", "", policy.Default},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte("types:\n  - kind: chan\n    action: " + tt.value + "\nslots:\n  - field: X\n    action: " + tt.value + "\n"))
			require.NoError(t, err)
			require.False(t, Validate(f).HasErrors())

			p, _, err := Build(f)
			require.NoError(t, err)

			got, err := p.TypeAction(reflect.TypeFor[chan int]())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)

			got, err = p.SlotAction(slotOf(t, reflect.TypeFor[struct{ X int }](), "X"))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseUnknownAction(t *testing.T) {
	f, err := Parse([]byte("types:\n  - kind: map\n    action: copy\n"))
	require.NoError(t, err)

	res := Validate(f)
	assert.Equal(t, []string{"unknown_action"}, res.Codes())
	assert.Equal(t, "types[0]", res.Errors[0].Rule)

	_, _, err = Build(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown action "copy"`)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("execution:\n  mode: bfs\n"), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bfs", f.Execution.Mode)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	f := &File{
		Version:   "1",
		Execution: Execution{Mode: "parallel", Workers: 2},
		Types:     []TypeRule{{Kind: "func", Action: "original"}},
	}

	data, err := Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), "action: original")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, back)
}

func TestValidate(t *testing.T) {
	f := &File{
		Version:   "2",
		Execution: Execution{Mode: "sideways", Workers: -1},
		Types: []TypeRule{
			{Action: "deep"},
			{Kind: "tuple", Action: "null"},
			{Kind: "map", Action: "copy"},
		},
		Slots: []SlotRule{{Field: "x"}},
		Keys:  []string{""},
	}

	res := Validate(f)
	require.True(t, res.HasErrors())
	assert.Equal(t, []string{
		"unsupported_version",
		"unknown_mode",
		"bad_workers",
		"empty_matcher",
		"unknown_kind",
		"unknown_action",
		"empty_matcher",
	}, res.Codes())

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "default_action", res.Warnings[0].Code)
	assert.Equal(t, "slots[0]", res.Warnings[0].Rule)
}

func TestValidateNil(t *testing.T) {
	assert.Equal(t, []string{"file_is_nil"}, Validate(nil).Codes())
}

func TestValidateUnusedWorkers(t *testing.T) {
	res := Validate(&File{Version: "1", Execution: Execution{Mode: "bfs", Workers: 3}})

	assert.False(t, res.HasErrors())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "unused_workers", res.Warnings[0].Code)
}

func TestBuild(t *testing.T) {
	f, err := Parse([]byte(`
types:
  - match: "*rules.settings"
    action: original
  - kind: chan
    action: null
  - package: graph-cloner/internal/...
    kind: struct
    action: deep
slots:
  - owner: "rules.session"
    field: "conn*"
    action: skip
  - tag: secret
    action: null
keys:
  - "string"
`))
	require.NoError(t, err)

	p, opts, err := Build(f)
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	sessionType := reflect.TypeFor[session]()

	tests := []struct {
		name string
		typ  reflect.Type
		want policy.Action
	}{
		{name: "glob", typ: reflect.TypeFor[*settings](), want: policy.Original},
		{name: "kind", typ: reflect.TypeFor[chan int](), want: policy.Null},
		{name: "package and kind", typ: sessionType, want: policy.Deep},
		{name: "key", typ: reflect.TypeFor[string](), want: policy.Deep},
		{name: "no rule", typ: reflect.TypeFor[[]int](), want: policy.Default},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.TypeAction(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	action, err := p.SlotAction(slotOf(t, sessionType, "conn"))
	require.NoError(t, err)
	assert.Equal(t, policy.Skip, action)

	action, err = p.SlotAction(slotOf(t, sessionType, "Token"))
	require.NoError(t, err)
	assert.Equal(t, policy.Null, action)

	action, err = p.SlotAction(slotOf(t, sessionType, "ID"))
	require.NoError(t, err)
	assert.Equal(t, policy.Default, action)
}

func TestBuildConflict(t *testing.T) {
	f := &File{
		Version: "1",
		Types: []TypeRule{
			{Kind: "map", Action: "original"},
			{Match: "map[string]*", Action: "null"},
		},
	}

	p, _, err := Build(f)
	require.NoError(t, err)

	_, err = p.TypeAction(reflect.TypeFor[map[string]int]())
	require.ErrorIs(t, err, &policy.ConflictingPolicyError{})
}

func TestBuildInvalid(t *testing.T) {
	_, _, err := Build(&File{Version: "1", Types: []TypeRule{{Action: "null"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty_matcher")
}

func TestBuildClones(t *testing.T) {
	f, err := Parse([]byte(`
execution:
  mode: parallel
  workers: 2
slots:
  - owner: "rules.session"
    field: "Token"
    action: null
`))
	require.NoError(t, err)

	_, opts, err := Build(f)
	require.NoError(t, err)

	e, err := cloner.New(opts...)
	require.NoError(t, err)
	assert.Equal(t, cloner.Parallel, e.Mode())

	in := &session{ID: "s1", Token: "hunter2", Labels: map[string]string{"a": "b"}}

	out, err := cloner.CloneOf(t.Context(), e, in)
	require.NoError(t, err)

	assert.Equal(t, "s1", out.ID)
	assert.Empty(t, out.Token)
	assert.Equal(t, in.Labels, out.Labels)
	assert.NotSame(t, in, out)
	assert.NotEqual(t, reflect.ValueOf(in.Labels).Pointer(), reflect.ValueOf(out.Labels).Pointer())
}

func TestInPackage(t *testing.T) {
	assert.True(t, inPackage("a/b", "a/b"))
	assert.True(t, inPackage("a/b/c", "a/b/..."))
	assert.True(t, inPackage("a/b", "a/b/..."))
	assert.False(t, inPackage("a/bc", "a/b/..."))
	assert.False(t, inPackage("a/b/c", "a/b"))
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		expected   []string
	}{
		{"mpa", []string{"map", "chan", "slice"}, []string{"map"}},
		{"Slcie", []string{"map", "chan", "slice"}, []string{"slice"}},
		{"paralel", modeNames, []string{"parallel"}},
		{"bf", modeNames, []string{"bfs"}},
		{"xfs", modeNames, []string{"bfs", "dfs"}},
		{"something", modeNames, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, suggest(tt.name, tt.candidates))
		})
	}
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, distance("", ""))
	assert.Equal(t, 3, distance("", "abc"))
	assert.Equal(t, 3, distance("kitten", "sitting"))
	assert.Equal(t, 3, distance("saturday", "sunday"))
	assert.Equal(t, 1, distance("map", "mat"))
}

func TestValidateSuggestions(t *testing.T) {
	res := Validate(&File{
		Version:   "1",
		Execution: Execution{Mode: "paralel"},
		Types:     []TypeRule{{Kind: "mpa", Action: "null"}},
	})

	require.Len(t, res.Errors, 2)
	assert.Equal(t, []string{"parallel"}, res.Errors[0].Suggestions)
	assert.Equal(t, []string{"map"}, res.Errors[1].Suggestions)
}

func TestValidateActionSuggestions(t *testing.T) {
	f, err := Parse([]byte(`
types:
  - kind: chan
    action: nul
slots:
  - field: conn
    action: Skpi
`))
	require.NoError(t, err)

	res := Validate(f)
	assert.Equal(t, []string{"unknown_action", "unknown_action"}, res.Codes())
	assert.Equal(t, []string{"null"}, res.Errors[0].Suggestions)
	assert.Equal(t, "slots[0]", res.Errors[1].Rule)
	assert.Equal(t, []string{"skip"}, res.Errors[1].Suggestions)
	assert.Contains(t, res.Err().Error(), "did you mean null?")
}
