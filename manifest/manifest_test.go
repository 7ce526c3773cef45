package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentharness/internal/testutil"
)

func TestLoadDir(t *testing.T) {
	dir := testutil.NewDirBuilder(t).
		File("orchestrator.yaml", "id: orchestrator\nrole: planner\ntools: [plan_tasks, dispatch_agent]\nmax_steps: 5\n").
		File("retriever.yaml", "description: Finds context\ntools:\n  - md_lookup\n").
		File("empty.yaml", "").
		File("notes.yml", "id: ignored\n").
		File("README.md", "# not a manifest\n").
		Subdir("nested.yaml").
		Build()

	specs, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"empty", "orchestrator", "retriever"}, IDs(specs))

	orch := specs["orchestrator"]
	assert.Equal(t, "planner", orch.Role)
	assert.Equal(t, []string{"plan_tasks", "dispatch_agent"}, orch.Tools)
	assert.Equal(t, 5, orch.Fields["max_steps"])

	ret := specs["retriever"]
	assert.Empty(t, ret.ID)
	assert.Equal(t, "retriever", ret.AgentID())
	assert.Equal(t, "Finds context", ret.Description)
}

func TestLoadDir_MissingDir(t *testing.T) {
	b := testutil.NewDirBuilder(t)

	specs, err := LoadDir(b.Path("nope"))
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestLoadDir_DuplicateIDLaterFileWins(t *testing.T) {
	dir := testutil.NewDirBuilder(t).
		File("a.yaml", "id: shared\nrole: first\n").
		File("b.yaml", "id: shared\nrole: second\n").
		Build()

	specs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "second", specs["shared"].Role)
}

func TestLoadDir_InvalidYAML(t *testing.T) {
	dir := testutil.NewDirBuilder(t).File("broken.yaml", "id: [unterminated\n").Build()

	_, err := LoadDir(dir)
	assert.ErrorContains(t, err, "broken.yaml")
}

func TestParse_EmptyDocument(t *testing.T) {
	m, err := Parse(nil, "/tmp/agents/solo.yaml")
	require.NoError(t, err)
	assert.Equal(t, "solo", m.AgentID())
}
