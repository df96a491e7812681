// Package character defines the fixed set of rangers a widget can show and
// the health attributes derived from them.
package character

import (
	"strings"
	"time"
)

// Character identifies one entry of the fixed ranger roster.
type Character int

// The roster. The zero value is Panda, which is also the fallback variant.
const (
	Panda Character = iota
	Egghead
	Spouty
	Spook
	Cake
	Owl
)

// DefaultCharacter is returned whenever a selection cannot be matched.
const DefaultCharacter = Panda

var identifiers = [...]string{
	Panda:   "panda",
	Egghead: "egghead",
	Spouty:  "spouty",
	Spook:   "spook",
	Cake:    "cake",
	Owl:     "owl",
}

// All returns every character in roster order.
func All() []Character {
	return []Character{Panda, Egghead, Spouty, Spook, Cake, Owl}
}

// ID returns the stable identifier used by widget configuration.
func (c Character) ID() string {
	if c < 0 || int(c) >= len(identifiers) {
		return identifiers[DefaultCharacter]
	}
	return identifiers[c]
}

func (c Character) String() string { return c.ID() }

// Detail carries the static attributes of a character.
type Detail struct {
	Character Character
	Name      string
	Avatar    string
	ImageName string
	HeroType  string
	Bio       string

	// HealthLevel is the current vitality in [0, 1].
	HealthLevel float64
	// RecoveryPerHour is the share of full health regained per hour.
	RecoveryPerHour float64
}

// URL is the deep link the widget opens when tapped.
func (d Detail) URL() string {
	return "rangers://character/" + d.Character.ID()
}

// FullHealthDate returns when the character is fully recovered, counting from now.
// A character already at full health, or one that cannot recover, is done at now.
func (d Detail) FullHealthDate(now time.Time) time.Time {
	needed := min(1-d.HealthLevel, 1)
	if needed <= 0 || d.RecoveryPerHour <= 0 {
		return now
	}
	hours := needed / d.RecoveryPerHour
	return now.Add(time.Duration(hours * float64(time.Hour)))
}

// Resolve maps an identifier (or display name) to a character in the default catalog.
func Resolve(identifier string) Character {
	return defaultCatalog.Resolve(identifier)
}

// normalize folds an identifier for lookup; empty means "no selection".
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
