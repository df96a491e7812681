package character

import "time"

// Catalog is a read-only lookup table of character details.
// It is safe for concurrent use once built.
type Catalog struct {
	details map[Character]Detail
	byKey   map[string]Character
}

var builtinDetails = []Detail{
	Detail{
		Character:       Panda,
		Name:            "Power Panda",
		Avatar:          "🐼",
		ImageName:       "panda",
		HeroType:        "Forest Dweller",
		Bio:             "Power Panda loves eating bamboo and napping in the sun. Though slow to anger, Power Panda is a fierce protector of friends.",
		HealthLevel:     0.14,
		RecoveryPerHour: 0.25,
	},
	Detail{
		Character:       Egghead,
		Name:            "Egghead",
		Avatar:          "🦄",
		ImageName:       "egghead",
		HeroType:        "Side Kick",
		Bio:             "Egghead is the brains of the team. Always ready with a plan, Egghead can solve any puzzle given enough snacks.",
		HealthLevel:     0.67,
		RecoveryPerHour: 0.22,
	},
	Detail{
		Character:       Spouty,
		Name:            "Spouty",
		Avatar:          "🐳",
		ImageName:       "spouty",
		HeroType:        "Streaker",
		Bio:             "Spouty rides the biggest waves in the sea. A splash from Spouty is enough to put out any fire.",
		HealthLevel:     0.83,
		RecoveryPerHour: 0.28,
	},
	Detail{
		Character:       Spook,
		Name:            "Mr. Spook",
		Avatar:          "👻",
		ImageName:       "spook",
		HeroType:        "Trickster",
		Bio:             "Mr. Spook floats through walls and loves a good prank. Nobody ever sees Mr. Spook coming.",
		HealthLevel:     0.45,
		RecoveryPerHour: 0.30,
	},
	Detail{
		Character:       Cake,
		Name:            "Cake",
		Avatar:          "🎂",
		ImageName:       "cake",
		HeroType:        "Party Animal",
		Bio:             "Cake turns every battle into a celebration. Candles on top, courage inside.",
		HealthLevel:     0.32,
		RecoveryPerHour: 0.18,
	},
	Detail{
		Character:       Owl,
		Name:            "Night Owl",
		Avatar:          "🦉",
		ImageName:       "owl",
		HeroType:        "Watcher",
		Bio:             "Night Owl keeps watch while the others sleep and never misses a thing in the dark.",
		HealthLevel:     0.91,
		RecoveryPerHour: 0.20,
	},
}

var defaultCatalog = NewCatalog(builtinDetails...)

// Default returns the built-in catalog.
func Default() *Catalog { return defaultCatalog }

// NewCatalog builds a catalog from details. Later duplicates replace earlier ones.
// Characters not given take their built-in details, so every entry a generator
// produces is backed by that character's own data. Name and identifier keys
// are both indexed for Resolve; given details win key collisions.
func NewCatalog(details ...Detail) *Catalog {
	c := &Catalog{
		details: make(map[Character]Detail, len(builtinDetails)),
		byKey:   make(map[string]Character, len(builtinDetails)*2),
	}
	given := make(map[Character]bool, len(details))
	for _, d := range details {
		given[d.Character] = true
	}
	for _, d := range builtinDetails {
		if !given[d.Character] {
			c.add(d)
		}
	}
	for _, d := range details {
		c.add(d)
	}
	return c
}

func (c *Catalog) add(d Detail) {
	c.details[d.Character] = d
	c.byKey[normalize(d.Character.ID())] = d.Character
	if d.Name != "" {
		c.byKey[normalize(d.Name)] = d.Character
	}
}

// Resolve returns the character matching identifier, either by id or by display name.
// Absent and unknown identifiers resolve to DefaultCharacter.
func (c *Catalog) Resolve(identifier string) Character {
	ch, _ := c.Lookup(identifier)
	return ch
}

// Lookup is Resolve that also reports whether identifier matched.
func (c *Catalog) Lookup(identifier string) (Character, bool) {
	key := normalize(identifier)
	if key == "" {
		return DefaultCharacter, false
	}
	ch, ok := c.byKey[key]
	if !ok {
		return DefaultCharacter, false
	}
	return ch, true
}

// Detail returns the attributes of ch. Values outside the roster get the
// default variant's details.
func (c *Catalog) Detail(ch Character) Detail {
	if d, ok := c.details[ch]; ok {
		return d
	}
	return c.details[DefaultCharacter]
}

// HealthLevel returns the health level of ch.
func (c *Catalog) HealthLevel(ch Character) float64 {
	return c.Detail(ch).HealthLevel
}

// FullHealthDate returns when ch is fully recovered, counting from now.
func (c *Catalog) FullHealthDate(ch Character, now time.Time) time.Time {
	return c.Detail(ch).FullHealthDate(now)
}

// Details returns all details in roster order.
func (c *Catalog) Details() []Detail {
	out := make([]Detail, 0, len(c.details))
	for _, ch := range All() {
		if d, ok := c.details[ch]; ok {
			out = append(out, d)
		}
	}
	return out
}
