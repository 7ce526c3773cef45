package builtin

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentharness/internal/testutil"
	"github.com/hupe1980/agentharness/kb"
	"github.com/hupe1980/agentharness/tool"
)

func newTestRegistry(t *testing.T, optFns ...func(o *Options)) *tool.Registry {
	t.Helper()
	base := func(o *Options) { o.Clock = testutil.FixedClock(testutil.Epoch) }
	reg, err := NewRegistry(append([]func(o *Options){base}, optFns...)...)
	require.NoError(t, err)
	return reg
}

func TestNewRegistry_AllTools(t *testing.T) {
	reg := newTestRegistry(t)
	assert.Equal(t, []string{
		AggregateResults, CrossCheck, DispatchAgent, FactConsistency,
		MDLookup, PlanTasks, SchemaValidate, WebSearch,
	}, reg.Names())

	for _, tl := range Tools() {
		assert.NotEmpty(t, tl.Description(), tl.Name())
		assert.Equal(t, "object", tl.Parameters()["type"], tl.Name())
	}
}

func TestMDLookup_Scenario(t *testing.T) {
	dir := testutil.NewDirBuilder(t).File("a.md", "# A\nfoo foo\n# B\nbar\n").Build()
	reg := newTestRegistry(t)

	env := reg.Dispatch(context.Background(), MDLookup, tool.Payload{"query": "foo", "kb_path": dir})

	require.True(t, env.OK)
	assert.Equal(t, MDLookup, env.Tool)
	assert.Equal(t, testutil.Epoch, env.Meta.Time)
	assert.Equal(t, []kb.Result{{File: "a.md", Header: "A", Content: "foo foo", Score: 2}}, env.Data)
	require.NotNil(t, env.Meta.Count)
	assert.Equal(t, 1, *env.Meta.Count)
}

func TestMDLookup_EmptyQuery(t *testing.T) {
	reg := newTestRegistry(t)

	for _, payload := range []tool.Payload{
		{"query": "   "},
		{"query": ""},
		{},
		nil,
	} {
		env := reg.Dispatch(context.Background(), MDLookup, payload)
		assert.False(t, env.OK)
		assert.Equal(t, []kb.Result{}, env.Data)
		assert.Equal(t, "empty query", env.Meta.Error)
		assert.Equal(t, testutil.Epoch, env.Meta.Time)
	}
}

func TestMDLookup_MissingDir(t *testing.T) {
	reg := newTestRegistry(t)

	env := reg.Dispatch(context.Background(), MDLookup, tool.Payload{"query": "x", "kb_path": "/nonexistent"})

	assert.False(t, env.OK)
	assert.Equal(t, []kb.Result{}, env.Data)
	assert.Equal(t, "kb_path not found: /nonexistent", env.Meta.Error)
}

func TestMDLookup_DefaultPathAndMax(t *testing.T) {
	b := testutil.NewDirBuilder(t)
	for _, name := range []string{"1.md", "2.md", "3.md", "4.md", "5.md", "6.md", "7.md"} {
		b.File(name, "# H\nterm\n")
	}
	dir := b.Build()

	t.Run("configured path and default max", func(t *testing.T) {
		reg := newTestRegistry(t, func(o *Options) { o.KBPath = dir })
		env := reg.Dispatch(context.Background(), MDLookup, tool.Payload{"query": "term"})
		require.True(t, env.OK)
		assert.Len(t, env.Data, kb.DefaultMaxSections)
	})

	t.Run("env path", func(t *testing.T) {
		t.Setenv(EnvKBPath, dir)
		reg := newTestRegistry(t)
		env := reg.Dispatch(context.Background(), MDLookup, tool.Payload{"query": "term", "max_sections": 2})
		require.True(t, env.OK)
		assert.Len(t, env.Data, 2)
	})

	t.Run("json number max", func(t *testing.T) {
		reg := newTestRegistry(t, func(o *Options) { o.KBPath = dir })
		env := reg.Dispatch(context.Background(), MDLookup, tool.Payload{"query": "term", "max_sections": 3.0})
		require.True(t, env.OK)
		assert.Len(t, env.Data, 3)
	})

	t.Run("zero max", func(t *testing.T) {
		reg := newTestRegistry(t, func(o *Options) { o.KBPath = dir })
		env := reg.Dispatch(context.Background(), MDLookup, tool.Payload{"query": "term", "max_sections": 0})
		require.True(t, env.OK)
		assert.Equal(t, []kb.Result{}, env.Data)
		assert.Equal(t, 0, *env.Meta.Count)
	})
}

func TestMDLookup_InvalidPayload(t *testing.T) {
	reg := newTestRegistry(t)

	for _, payload := range []tool.Payload{
		{"query": "x", "max_sections": "five"},
		{"query": "x", "max_sections": 2.5},
		{"query": 42},
	} {
		env := reg.Dispatch(context.Background(), MDLookup, payload)

		assert.False(t, env.OK)
		assert.Equal(t, []kb.Result{}, env.Data)
		assert.Contains(t, env.Meta.Error, "invalid payload")
	}
}

func TestUnknownTool(t *testing.T) {
	reg := newTestRegistry(t)

	env := reg.Dispatch(context.Background(), "nope", tool.Payload{})

	assert.Equal(t, "nope", env.Tool)
	assert.False(t, env.OK)
	assert.Equal(t, map[string]any{"error": "unknown tool"}, env.Data)
	assert.Equal(t, testutil.Epoch, env.Meta.Time)
	assert.Empty(t, env.Meta.Error)
	assert.Nil(t, env.Meta.Count)
}

func TestWebSearch(t *testing.T) {
	reg := newTestRegistry(t)

	env := reg.Dispatch(context.Background(), WebSearch, tool.Payload{"query": "go lang"})

	require.True(t, env.OK)
	assert.Equal(t, []SearchHit{{Title: "go lang", URL: "https://example.com?q=go lang"}}, env.Data)
}

func TestSchemaValidate(t *testing.T) {
	reg := newTestRegistry(t)
	sch := map[string]any{
		"type":     "object",
		"required": []any{"summary"},
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
		},
	}

	t.Run("valid", func(t *testing.T) {
		env := reg.Dispatch(context.Background(), SchemaValidate, tool.Payload{
			"instance": map[string]any{"summary": "ok"},
			"schema":   sch,
		})
		require.True(t, env.OK)
		assert.Equal(t, map[string]any{"valid": true}, env.Data)
	})

	t.Run("invalid", func(t *testing.T) {
		env := reg.Dispatch(context.Background(), SchemaValidate, tool.Payload{
			"instance": map[string]any{"summary": 1},
			"schema":   sch,
		})
		assert.False(t, env.OK)
		data, ok := env.Data.(map[string]any)
		require.True(t, ok)
		assert.NotEmpty(t, data["error"])
		assert.NotEmpty(t, env.ErrorMessage())
	})

	t.Run("no schema accepts anything", func(t *testing.T) {
		env := reg.Dispatch(context.Background(), SchemaValidate, tool.Payload{"instance": []any{1, "x"}})
		assert.True(t, env.OK)
	})

	t.Run("boolean schemas", func(t *testing.T) {
		env := reg.Dispatch(context.Background(), SchemaValidate, tool.Payload{"instance": "x", "schema": true})
		require.True(t, env.OK, env.ErrorMessage())
		assert.Equal(t, map[string]any{"valid": true}, env.Data)

		env = reg.Dispatch(context.Background(), SchemaValidate, tool.Payload{"instance": "x", "schema": false})
		assert.False(t, env.OK)
		assert.NotContains(t, env.ErrorMessage(), "invalid payload")
	})

	t.Run("non-schema value", func(t *testing.T) {
		env := reg.Dispatch(context.Background(), SchemaValidate, tool.Payload{"instance": "x", "schema": "nope"})
		assert.False(t, env.OK)
		assert.NotEmpty(t, env.ErrorMessage())
	})
}

func TestCrossCheck(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		name     string
		evidence any
		want     bool
	}{
		{"text and chunk", []any{map[string]any{"text": "x"}, map[string]any{"chunk": "y"}}, true},
		{"missing key", []any{map[string]any{"text": "x"}, map[string]any{"other": "y"}}, false},
		{"empty", []any{}, true},
		{"non-object item", []any{"text"}, false},
		{"lookup results", []any{map[string]any{"file": "a.md", "header": "A", "content": "foo", "score": 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := reg.Dispatch(context.Background(), CrossCheck, tool.Payload{"evidence": tt.evidence})
			assert.Equal(t, tt.want, env.OK)
			assert.Equal(t, map[string]any{"consistent": tt.want}, env.Data)
		})
	}

	t.Run("absent evidence", func(t *testing.T) {
		env := reg.Dispatch(context.Background(), CrossCheck, nil)
		assert.True(t, env.OK)
	})
}

func TestFactConsistency(t *testing.T) {
	reg := newTestRegistry(t)
	env := reg.Dispatch(context.Background(), FactConsistency, tool.Payload{"facts": []any{"a", "b", "c"}})
	require.True(t, env.OK)
	assert.Equal(t, map[string]any{"facts_checked": 3}, env.Data)
}

func TestAggregateResults(t *testing.T) {
	reg := newTestRegistry(t)
	env := reg.Dispatch(context.Background(), AggregateResults, tool.Payload{"parts": []any{"a", "b", 3}})
	require.True(t, env.OK)
	assert.Equal(t, map[string]any{"summary": "a | b | 3"}, env.Data)
	require.NotNil(t, env.Meta.Count)
	assert.Equal(t, 3, *env.Meta.Count)

	env = reg.Dispatch(context.Background(), AggregateResults, nil)
	assert.Equal(t, map[string]any{"summary": ""}, env.Data)
	assert.Equal(t, 0, *env.Meta.Count)
}

func TestDispatchAgent(t *testing.T) {
	reg := newTestRegistry(t)

	env := reg.Dispatch(context.Background(), DispatchAgent, tool.Payload{"agent": "researcher", "task": "find"})
	require.True(t, env.OK)
	assert.Equal(t, map[string]any{"agent": "researcher", "task": "find"}, env.Data)

	env = reg.Dispatch(context.Background(), DispatchAgent, nil)
	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"agent":null,"task":null}`, string(raw))
}

func TestPlanTasks(t *testing.T) {
	reg := newTestRegistry(t)

	env := reg.Dispatch(context.Background(), PlanTasks, tool.Payload{"objective": "Demo objective"})
	require.True(t, env.OK)
	assert.Equal(t, map[string]any{"steps": []string{
		"Analyze: Demo objective", "Retrieve context", "Generate draft", "Verify", "Finalize",
	}}, env.Data)

	env = reg.Dispatch(context.Background(), PlanTasks, tool.Payload{"objective": "{{.x}}"})
	steps := env.Data.(map[string]any)["steps"].([]string)
	assert.Equal(t, "Analyze: {{.x}}", steps[0])

	env = reg.Dispatch(context.Background(), PlanTasks, nil)
	steps = env.Data.(map[string]any)["steps"].([]string)
	assert.Equal(t, "Analyze: ", steps[0])
}

func TestEnvelopeJSONShape(t *testing.T) {
	reg := newTestRegistry(t)
	env := reg.Dispatch(context.Background(), MDLookup, tool.Payload{"query": ""})

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"tool": "md_lookup",
		"ok": false,
		"data": [],
		"meta": {"t": "2024-01-02T03:04:05Z", "error": "empty query"}
	}`, string(raw))
}
