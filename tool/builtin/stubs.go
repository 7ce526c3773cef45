package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentharness/internal/util"
	"github.com/hupe1980/agentharness/schema"
	"github.com/hupe1980/agentharness/tool"
)

type webSearchInput struct {
	Query string `json:"query,omitempty" description:"Search term"`
}

// SearchHit is a single web_search result.
type SearchHit struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func webSearch(_ context.Context, in webSearchInput) tool.Envelope {
	// The query is appended unescaped.
	return tool.Success([]SearchHit{{Title: in.Query, URL: "https://example.com?q=" + in.Query}})
}

type schemaValidateInput struct {
	Instance any            `json:"instance" description:"JSON value to validate"`
	Schema   any            `json:"schema,omitempty" description:"JSON Schema document (object or boolean)"`
}

func schemaValidate(_ context.Context, in schemaValidateInput) tool.Envelope {
	if err := schema.ValidateValue(in.Instance, in.Schema); err != nil {
		return tool.Failure(map[string]any{"error": err.Error()}, "")
	}
	return tool.Success(map[string]any{"valid": true})
}

type crossCheckInput struct {
	Evidence []any `json:"evidence,omitempty" description:"Evidence objects, each expected to carry a chunk or text field"`
}

func crossCheck(_ context.Context, in crossCheckInput) tool.Envelope {
	consistent := true
	for _, e := range in.Evidence {
		if !hasEvidenceText(e) {
			consistent = false
			break
		}
	}

	env := tool.Success(map[string]any{"consistent": consistent})
	env.OK = consistent
	return env
}

// hasEvidenceText reports whether e is an object with a chunk or text key.
// The key's value is not inspected.
func hasEvidenceText(e any) bool {
	m, ok := e.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := m["chunk"]; ok {
		return true
	}
	_, ok = m["text"]
	return ok
}

type factConsistencyInput struct {
	Facts []any `json:"facts,omitempty" description:"Facts to check"`
}

func factConsistency(_ context.Context, in factConsistencyInput) tool.Envelope {
	return tool.Success(map[string]any{"facts_checked": len(in.Facts)})
}

type aggregateResultsInput struct {
	Parts []any `json:"parts,omitempty" description:"Result parts to join"`
}

func aggregateResults(_ context.Context, in aggregateResultsInput) tool.Envelope {
	strs := make([]string, len(in.Parts))
	for i, p := range in.Parts {
		strs[i] = fmt.Sprint(p)
	}
	return tool.Success(map[string]any{"summary": strings.Join(strs, " | ")}).WithCount(len(in.Parts))
}

type dispatchAgentInput struct {
	Agent any `json:"agent" description:"Target agent identifier"`
	Task  any `json:"task" description:"Task handed to the agent"`
}

func dispatchAgent(_ context.Context, in dispatchAgentInput) tool.Envelope {
	return tool.Success(map[string]any{"agent": in.Agent, "task": in.Task})
}

type planTasksInput struct {
	Objective string `json:"objective,omitempty" description:"Objective to plan for"`
}

var planSteps = []string{
	"Analyze: {{.objective}}",
	"Retrieve context",
	"Generate draft",
	"Verify",
	"Finalize",
}

func planTasks(_ context.Context, in planTasksInput) tool.Envelope {
	vars := map[string]any{"objective": in.Objective}

	steps := make([]string, len(planSteps))
	for i, tmpl := range planSteps {
		s, err := util.RenderTemplate(tmpl, vars)
		if err != nil {
			return tool.Failure(nil, fmt.Sprintf("render plan: %v", err))
		}
		steps[i] = s
	}
	return tool.Success(map[string]any{"steps": steps})
}
