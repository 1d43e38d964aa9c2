package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	name  string
	score float64
	hours int
}

func TestSortMultiKeyDeterministic(t *testing.T) {
	rows := []row{
		{"c", 0.7, 10},
		{"a", 0.9, 5},
		{"b", 0.7, 3},
		{"d", 0.7, 3},
	}

	keys := []Key[row]{
		ByFloat(func(r row) float64 { return r.score }, true),
		ByInt(func(r row) int { return r.hours }, false),
		ByString(func(r row) string { return r.name }),
	}

	Sort(rows, keys...)
	assert.Equal(t, []row{
		{"a", 0.9, 5},
		{"b", 0.7, 3},
		{"d", 0.7, 3},
		{"c", 0.7, 10},
	}, rows)

	// Same multiset, same keys, same order on a second run.
	again := []row{
		{"d", 0.7, 3},
		{"b", 0.7, 3},
		{"a", 0.9, 5},
		{"c", 0.7, 10},
	}
	Sort(again, keys...)
	assert.Equal(t, rows, again)
}

func TestTopK(t *testing.T) {
	items := []int{5, 4, 3, 2, 1}
	assert.Len(t, TopK(items, 3), 3)
	assert.Len(t, TopK(items, 10), 5)
	assert.Len(t, TopK(items, 0), 5)
}

func TestDistinctUnion(t *testing.T) {
	got := DistinctUnion(
		[]string{"Taliban", "", "ISIL"},
		[]string{"ISIL", "Boko Haram"},
	)
	assert.Equal(t, []string{"Boko Haram", "ISIL", "Taliban"}, got)
}
