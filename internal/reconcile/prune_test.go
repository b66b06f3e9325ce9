package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrune_RemovesKeyAtEveryDepth(t *testing.T) {
	node := map[string]any{
		"link": "/root",
		"team": map[string]any{
			"name": "Detroit Tigers",
			"link": "/api/v1/teams/116",
			"venue": map[string]any{
				"link": "/api/v1/venues/2394",
				"id":   float64(2394),
			},
		},
		"roster": []any{
			map[string]any{"link": "/p/1", "id": float64(1)},
			"link",
			[]any{map[string]any{"link": "/p/2"}},
		},
		"officials": []map[string]any{{"link": "/o/1", "role": "plate"}},
	}

	Prune(node, "link")

	assert.Equal(t, map[string]any{
		"team": map[string]any{
			"name":  "Detroit Tigers",
			"venue": map[string]any{"id": float64(2394)},
		},
		"roster": []any{
			map[string]any{"id": float64(1)},
			"link",
			[]any{map[string]any{}},
		},
		"officials": []map[string]any{{"role": "plate"}},
	}, node)
}

func TestPrune_LeavesGraphWithoutKeyUnchanged(t *testing.T) {
	node := map[string]any{"id": float64(1), "nested": map[string]any{"name": "x"}}
	Prune(node, "link")
	assert.Equal(t, map[string]any{"id": float64(1), "nested": map[string]any{"name": "x"}}, node)
}

func TestPrune_SharedSubstructure(t *testing.T) {
	shared := map[string]any{"link": "/shared", "name": "Comerica Park"}
	node := []any{
		map[string]any{"venue": shared},
		map[string]any{"venue": shared},
		shared,
	}

	Prune(node, "link")

	assert.Equal(t, map[string]any{"name": "Comerica Park"}, shared)
}

func TestPrune_TerminatesOnCycles(t *testing.T) {
	parent := map[string]any{"link": "/parent"}
	child := map[string]any{"link": "/child", "parent": parent}
	parent["child"] = child
	list := []any{parent, nil}
	list[1] = list
	parent["list"] = list

	Prune(parent, "link")

	_, ok := parent["link"]
	assert.False(t, ok)
	_, ok = child["link"]
	assert.False(t, ok)
}

func TestPrune_IgnoresScalarsAndNil(t *testing.T) {
	assert.NotPanics(t, func() {
		Prune(nil, "link")
		Prune("link", "link")
		Prune(map[string]any(nil), "link")
		Prune([]any{}, "link")
	})
}
