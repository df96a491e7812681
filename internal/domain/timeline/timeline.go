// Package timeline produces the dated entries a widget host renders over time.
package timeline

import (
	"time"

	"github.com/okian/rangers/internal/domain/character"
)

// Relevance hints to the host how prominently an entry should be shown.
type Relevance struct {
	Score float32
}

// Entry is a single dated snapshot of a character.
type Entry struct {
	Date      time.Time
	Relevance *Relevance
	Character character.Character
}

// PolicyKind tells the host what to do once a timeline runs out.
type PolicyKind string

// Reload policy kinds.
const (
	PolicyAtEnd PolicyKind = "atEnd"
	PolicyNever PolicyKind = "never"
	PolicyAfter PolicyKind = "after"
)

// Policy is the reload policy attached to a timeline.
// Date is only meaningful for PolicyAfter.
type Policy struct {
	Kind PolicyKind
	Date time.Time
}

// AtEnd asks the host for a new timeline after the last entry.
func AtEnd() Policy { return Policy{Kind: PolicyAtEnd} }

// Never tells the host not to ask again on its own.
func Never() Policy { return Policy{Kind: PolicyNever} }

// After asks the host for a new timeline at date.
func After(date time.Time) Policy { return Policy{Kind: PolicyAfter, Date: date} }

// Timeline is an ordered list of entries plus its reload policy.
type Timeline struct {
	Entries []Entry
	Policy  Policy
}

// ReloadAt returns when the host should ask for the next timeline.
// ok is false when the policy never reloads or an atEnd timeline is empty.
func (t Timeline) ReloadAt() (time.Time, bool) {
	switch t.Policy.Kind {
	case PolicyAfter:
		return t.Policy.Date, true
	case PolicyAtEnd:
		if len(t.Entries) == 0 {
			return time.Time{}, false
		}
		return t.Entries[len(t.Entries)-1].Date, true
	default:
		return time.Time{}, false
	}
}
