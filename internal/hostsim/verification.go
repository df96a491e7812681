package hostsim

import (
	"fmt"
	"time"

	"github.com/okian/rangers/internal/domain/types"
)

// VerifyTimeline checks the properties a host relies on: strictly increasing
// dates spaced by step, one character and one relevance throughout, and a
// reload policy consistent with the entries.
func VerifyTimeline(tl types.TimelineView, step time.Duration) error {
	if tl.Policy == "" {
		return fmt.Errorf("%w: missing reload policy", ErrVerify)
	}
	if len(tl.Entries) == 0 {
		return nil
	}

	first := tl.Entries[0]
	if first.Relevance == nil {
		return fmt.Errorf("%w: entry 0 has no relevance", ErrVerify)
	}

	for i := 1; i < len(tl.Entries); i++ {
		prev, cur := tl.Entries[i-1], tl.Entries[i]
		if !cur.Date.After(prev.Date) {
			return fmt.Errorf("%w: entry %d is not after entry %d", ErrVerify, i, i-1)
		}
		if step > 0 && cur.Date.Sub(prev.Date) != step {
			return fmt.Errorf("%w: entry %d is %s after entry %d, want %s",
				ErrVerify, i, cur.Date.Sub(prev.Date), i-1, step)
		}
		if cur.Character != first.Character {
			return fmt.Errorf("%w: entry %d shows %s, want %s", ErrVerify, i, cur.Character, first.Character)
		}
		if cur.Relevance == nil || *cur.Relevance != *first.Relevance {
			return fmt.Errorf("%w: entry %d relevance differs from entry 0", ErrVerify, i)
		}
	}

	if tl.Policy == PolicyAtEnd {
		last := tl.Entries[len(tl.Entries)-1]
		if tl.ReloadAt == nil || !tl.ReloadAt.Equal(last.Date) {
			return fmt.Errorf("%w: reload_at does not match the last entry", ErrVerify)
		}
	}
	return nil
}

// verifyDescriptor checks the gallery descriptor supports the requested family.
func verifyDescriptor(d types.WidgetDescriptor, family string) error {
	if d.Kind == "" {
		return fmt.Errorf("%w: empty kind", ErrDescriptor)
	}
	want, err := types.ParseFamily(family)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDescriptor, err)
	}
	for _, f := range d.Families {
		if f == want {
			return nil
		}
	}
	return fmt.Errorf("%w: family %q not supported", ErrDescriptor, family)
}
