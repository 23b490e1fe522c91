package ticker

import (
	"testing"

	"liquidity-ticker/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRotationStateFullCycleReturnsToStart(t *testing.T) {
	for n := 1; n <= 6; n++ {
		items := make(domain.RecommendationSet, n)
		for i := range items {
			items[i] = string(rune('A' + i))
		}
		state := RotationState{Items: items}

		seen := map[string]int{}
		for i := 0; i < n; i++ {
			seen[state.Window(SlotCount)[0]]++
			state = state.Advance()
		}
		assert.Equal(t, 0, state.Cursor, "n=%d", n)
		assert.Len(t, seen, n)
		for _, c := range seen {
			assert.Equal(t, 1, c)
		}
	}
}

func TestRotationStateWindowWraps(t *testing.T) {
	state := RotationState{Items: domain.RecommendationSet{"a", "b", "c"}, Cursor: 2}
	assert.Equal(t, []string{"c", "a", "b", "c", "a"}, state.Window(SlotCount))
}

func TestRotationStateEmptyIsInactive(t *testing.T) {
	var state RotationState
	assert.False(t, state.Active())
	assert.Nil(t, state.Window(SlotCount))
	assert.Equal(t, RotationState{}, state.Advance())
}

func TestRecencyLabel(t *testing.T) {
	want := map[int]string{
		0: "Unknown time",
		1: "Now",
		2: "20 min ago",
		3: "32 min ago",
		4: "40 min ago",
		5: "1h ago",
		6: "Unknown time",
	}
	for slot, label := range want {
		assert.Equal(t, label, RecencyLabel(slot), "slot %d", slot)
	}
}
