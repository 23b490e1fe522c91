package ticker

import "liquidity-ticker/internal/domain"

// SlotCount is the number of visible ticker rows.
const SlotCount = 5

// RotationState is the recommendation set being rotated and the index of
// the item shown in slot 1 on the next tick.
type RotationState struct {
	Items  domain.RecommendationSet `json:"items"`
	Cursor int                      `json:"cursor"`
}

// Active reports whether there is anything to rotate.
func (s RotationState) Active() bool {
	return len(s.Items) > 0
}

func (s RotationState) Advance() RotationState {
	if !s.Active() {
		return RotationState{}
	}
	return RotationState{Items: s.Items, Cursor: (s.Cursor + 1) % len(s.Items)}
}

// Window returns the n items shown in slots 1..n, wrapping around the set.
func (s RotationState) Window(n int) []string {
	if !s.Active() || n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := 1; i <= n; i++ {
		out[i-1] = s.Items[(s.Cursor+i-1)%len(s.Items)]
	}
	return out
}

func RecencyLabel(slot int) string {
	switch slot {
	case 1:
		return "Now"
	case 2:
		return "20 min ago"
	case 3:
		return "32 min ago"
	case 4:
		return "40 min ago"
	case 5:
		return "1h ago"
	default:
		return "Unknown time"
	}
}
