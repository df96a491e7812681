package timeline

import (
	"time"

	"github.com/okian/rangers/internal/domain/character"
)

// DefaultStep is the spacing between consecutive timeline entries.
const DefaultStep = 5 * time.Second

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithStep sets the spacing between entries. Non-positive values are ignored.
func WithStep(step time.Duration) Option {
	return func(g *Generator) {
		if step > 0 {
			g.step = step
		}
	}
}

// WithCatalog sets the character table used for lookups and health data.
func WithCatalog(c *character.Catalog) Option {
	return func(g *Generator) {
		if c != nil {
			g.catalog = c
		}
	}
}

// WithSubstitution replaces the rule applied to a resolved character before
// a timeline is generated.
func WithSubstitution(fn func(character.Character) character.Character) Option {
	return func(g *Generator) {
		if fn != nil {
			g.substitute = fn
		}
	}
}

// Substitute is the default substitution rule: Cake is shown as Egghead and
// every other character is shown as Spook. The resolved selection does not
// survive this step for any input.
func Substitute(c character.Character) character.Character {
	if c == character.Cake {
		return character.Egghead
	}
	return character.Spook
}

// Generator builds snapshots and timelines. It holds no mutable state and is
// safe for concurrent use.
type Generator struct {
	step       time.Duration
	catalog    *character.Catalog
	substitute func(character.Character) character.Character
}

// NewGenerator creates a Generator with configuration options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		step:       DefaultStep,
		catalog:    character.Default(),
		substitute: Substitute,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Step returns the spacing between entries.
func (g *Generator) Step() time.Duration { return g.step }

// Catalog returns the character table in use.
func (g *Generator) Catalog() *character.Catalog { return g.catalog }

// Placeholder returns the entry shown before any real data is available.
func (g *Generator) Placeholder(now time.Time) Entry {
	return Entry{Date: now, Character: character.DefaultCharacter}
}

// Snapshot returns a single unscored entry at now for the selected character.
func (g *Generator) Snapshot(selection string, now time.Time) Entry {
	return Entry{Date: now, Character: g.catalog.Resolve(selection)}
}

// Plan describes how a timeline request was interpreted.
type Plan struct {
	Selected  character.Character
	Matched   bool
	Shown     character.Character
	EndDate   time.Time
	Relevance float32
}

// Plan resolves selection and applies the substitution rule without emitting entries.
func (g *Generator) Plan(selection string, now time.Time) Plan {
	selected, matched := g.catalog.Lookup(selection)
	shown := g.catalog.Detail(g.substitute(selected)).Character
	return Plan{
		Selected:  selected,
		Matched:   matched,
		Shown:     shown,
		EndDate:   g.catalog.FullHealthDate(shown, now),
		Relevance: float32(g.catalog.HealthLevel(shown)),
	}
}

// Generate returns entries from now until the shown character's full-health
// date, spaced by the configured step. The result is empty when now is not
// before that date. Output depends only on selection and now.
func (g *Generator) Generate(selection string, now time.Time) Timeline {
	return g.generate(g.Plan(selection, now), now)
}

func (g *Generator) generate(p Plan, now time.Time) Timeline {
	var entries []Entry
	if now.Before(p.EndDate) {
		entries = make([]Entry, 0, int(p.EndDate.Sub(now)/g.step)+1)
	}
	for cursor := now; cursor.Before(p.EndDate); cursor = cursor.Add(g.step) {
		entries = append(entries, Entry{
			Date:      cursor,
			Relevance: &Relevance{Score: p.Relevance},
			Character: p.Shown,
		})
	}
	return Timeline{Entries: entries, Policy: AtEnd()}
}

// GenerateWithPlan is Generate that also returns the plan it followed.
func (g *Generator) GenerateWithPlan(selection string, now time.Time) (Timeline, Plan) {
	p := g.Plan(selection, now)
	return g.generate(p, now), p
}
