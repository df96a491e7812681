// Package types contains the JSON shapes handed to the widget host.
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/rangers/internal/domain/character"
	"github.com/okian/rangers/internal/domain/timeline"
)

// Family is the widget size the host renders.
type Family string

// Supported widget families.
const (
	FamilySmall  Family = "small"
	FamilyMedium Family = "medium"
)

// Families lists the supported families in display order.
func Families() []Family { return []Family{FamilySmall, FamilyMedium} }

// ParseFamily parses a family name; empty selects FamilySmall.
func ParseFamily(s string) (Family, error) {
	switch Family(strings.ToLower(strings.TrimSpace(s))) {
	case "", FamilySmall:
		return FamilySmall, nil
	case FamilyMedium:
		return FamilyMedium, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}
}

// EntryView is the rendered form of a timeline entry.
type EntryView struct {
	Date      time.Time `json:"date"`
	Relevance *float32  `json:"relevance,omitempty"`
	Character string    `json:"character"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	URL       string    `json:"url"`
	Bio       string    `json:"bio,omitempty"`
}

// TimelineView is the rendered form of a timeline.
type TimelineView struct {
	Entries  []EntryView `json:"entries"`
	Policy   string      `json:"policy"`
	ReloadAt *time.Time  `json:"reload_at,omitempty"`
}

// CharacterView describes one selectable character.
type CharacterView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Avatar      string  `json:"avatar"`
	ImageName   string  `json:"image_name"`
	HeroType    string  `json:"hero_type"`
	Bio         string  `json:"bio"`
	URL         string  `json:"url"`
	HealthLevel float64 `json:"health_level"`
}

// WidgetDescriptor is what the host shows in its widget gallery.
type WidgetDescriptor struct {
	Kind        string   `json:"kind"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Families    []Family `json:"families"`
}

// Widget gallery metadata.
const (
	WidgetKind        = "EmojiRangerWidget"
	WidgetDisplayName = "Ranger Detail"
	WidgetDescription = "See your favorite ranger."
)

// Describe returns the widget gallery descriptor.
func Describe() WidgetDescriptor {
	return WidgetDescriptor{
		Kind:        WidgetKind,
		DisplayName: WidgetDisplayName,
		Description: WidgetDescription,
		Families:    Families(),
	}
}

// RenderEntry renders e for family. Small widgets carry the avatar and deep
// link only; medium widgets add the bio.
func RenderEntry(cat *character.Catalog, e timeline.Entry, family Family) EntryView {
	d := cat.Detail(e.Character)
	v := EntryView{
		Date:      e.Date,
		Character: d.Character.ID(),
		Name:      d.Name,
		Avatar:    d.Avatar,
		URL:       d.URL(),
	}
	if e.Relevance != nil {
		score := e.Relevance.Score
		v.Relevance = &score
	}
	if family == FamilyMedium {
		v.Bio = d.Bio
	}
	return v
}

// RenderTimeline renders every entry of tl for family.
func RenderTimeline(cat *character.Catalog, tl timeline.Timeline, family Family) TimelineView {
	v := TimelineView{
		Entries: make([]EntryView, 0, len(tl.Entries)),
		Policy:  string(tl.Policy.Kind),
	}
	for _, e := range tl.Entries {
		v.Entries = append(v.Entries, RenderEntry(cat, e, family))
	}
	if at, ok := tl.ReloadAt(); ok {
		v.ReloadAt = &at
	}
	return v
}

// RenderCharacter renders d for the character list.
func RenderCharacter(d character.Detail) CharacterView {
	return CharacterView{
		ID:          d.Character.ID(),
		Name:        d.Name,
		Avatar:      d.Avatar,
		ImageName:   d.ImageName,
		HeroType:    d.HeroType,
		Bio:         d.Bio,
		URL:         d.URL(),
		HealthLevel: d.HealthLevel,
	}
}
