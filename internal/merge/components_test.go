// SPDX-License-Identifier: MPL-2.0

package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackpack/pkg/bundlefile"
)

func agentBundle(id string, names ...string) *bundlefile.Bundle {
	bundle := &bundlefile.Bundle{ID: id}
	for _, name := range names {
		bundle.Agents = append(bundle.Agents, bundlefile.Agent{
			Name:         name,
			Body:         "body from " + id,
			SourceBundle: id,
		})
	}
	return bundle
}

func TestAgentsNoCollision(t *testing.T) {
	bundles := []*bundlefile.Bundle{
		agentBundle("a", "reviewer", "planner"),
		agentBundle("b", "tester"),
	}
	got := Agents(bundles, map[string]int{"a": 0, "b": 0})

	require.Len(t, got, 3)
	assert.Equal(t, "reviewer", got[0].Name)
	assert.Equal(t, "planner", got[1].Name)
	assert.Equal(t, "tester", got[2].Name)
}

func TestAgentsCollisionHighestPriorityWins(t *testing.T) {
	bundles := []*bundlefile.Bundle{
		agentBundle("low", "reviewer"),
		agentBundle("high", "reviewer"),
	}
	got := Agents(bundles, map[string]int{"low": 1, "high": 9})

	require.Len(t, got, 1)
	assert.Equal(t, "high", got[0].SourceBundle)
	assert.Equal(t, "body from high", got[0].Body)
}

func TestAgentsCollisionTieKeepsFirst(t *testing.T) {
	bundles := []*bundlefile.Bundle{
		agentBundle("first", "reviewer"),
		agentBundle("second", "reviewer"),
	}
	got := Agents(bundles, map[string]int{"first": 3, "second": 3})

	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].SourceBundle)
}

func TestAgentsCollisionKeepsFirstEncounterPosition(t *testing.T) {
	// The winner replaces the loser in place; it does not move to the end.
	bundles := []*bundlefile.Bundle{
		agentBundle("a", "reviewer", "planner"),
		agentBundle("b", "reviewer"),
	}
	got := Agents(bundles, map[string]int{"a": 0, "b": 10})

	require.Len(t, got, 2)
	assert.Equal(t, "reviewer", got[0].Name)
	assert.Equal(t, "b", got[0].SourceBundle)
	assert.Equal(t, "planner", got[1].Name)
}

func TestAgentsCollisionIsNormalized(t *testing.T) {
	bundles := []*bundlefile.Bundle{
		agentBundle("a", "Code Reviewer"),
		agentBundle("b", "code-reviewer"),
	}
	got := Agents(bundles, map[string]int{"a": 0, "b": 5})

	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].SourceBundle)
}

func TestAgentsLoserDroppedWhole(t *testing.T) {
	// No field-level merging: the losing definition contributes nothing.
	bundles := []*bundlefile.Bundle{
		{ID: "a", Agents: []bundlefile.Agent{{
			Name: "reviewer", Model: "opus", Tools: []string{"Read", "Grep"}, SourceBundle: "a",
		}}},
		{ID: "b", Agents: []bundlefile.Agent{{
			Name: "reviewer", Body: "winning body", SourceBundle: "b",
		}}},
	}
	got := Agents(bundles, map[string]int{"a": 0, "b": 1})

	require.Len(t, got, 1)
	assert.Empty(t, got[0].Model)
	assert.Empty(t, got[0].Tools)
	assert.Equal(t, "winning body", got[0].Body)
}

func TestCommandsDedupe(t *testing.T) {
	bundles := []*bundlefile.Bundle{
		{ID: "a", Commands: []bundlefile.Command{
			{Name: "deploy", SourceBundle: "a"},
			{Name: "lint", SourceBundle: "a"},
		}},
		{ID: "b", Commands: []bundlefile.Command{
			{Name: "deploy", SourceBundle: "b"},
		}},
	}
	got := Commands(bundles, map[string]int{"a": 5, "b": 1})

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].SourceBundle)
	assert.Equal(t, "lint", got[1].Name)
}

func TestHooksDedupe(t *testing.T) {
	bundles := []*bundlefile.Bundle{
		{ID: "a", Hooks: []bundlefile.Hook{
			{Name: "format", Kind: bundlefile.KindScript, Ext: ".sh", SourceBundle: "a"},
		}},
		{ID: "b", Hooks: []bundlefile.Hook{
			{Name: "format", Kind: bundlefile.KindConfig, Ext: ".json", SourceBundle: "b"},
		}},
	}
	got := Hooks(bundles, map[string]int{"a": 1, "b": 2})

	require.Len(t, got, 1)
	// Kind does not matter for identity; the name collides either way.
	assert.Equal(t, bundlefile.KindConfig, got[0].Kind)
}

func TestDedupeEmptyInput(t *testing.T) {
	assert.Empty(t, Agents(nil, nil))
	assert.Empty(t, Commands([]*bundlefile.Bundle{{ID: "a"}}, map[string]int{"a": 0}))
}
