package card

import "strings"

// Aspect is one of the six thematic card aspects, or None.
type Aspect string

// Aspects
const (
	Vigilance  Aspect = "Vigilance"
	Command    Aspect = "Command"
	Aggression Aspect = "Aggression"
	Cunning    Aspect = "Cunning"
	Villainy   Aspect = "Villainy"
	Heroism    Aspect = "Heroism"
	None       Aspect = ""
)

var aspects = []Aspect{Vigilance, Command, Aggression, Cunning, Villainy, Heroism}

var aspectColors = map[Aspect]string{
	Vigilance:  "blue",
	Command:    "green",
	Aggression: "red",
	Cunning:    "yellow",
	Villainy:   "black",
	Heroism:    "white",
}

// AspectNames returns the six aspect names in sort order.
func AspectNames() []string {
	names := make([]string, len(aspects))
	for i, a := range aspects {
		names[i] = string(a)
	}
	return names
}

// ParseAspect returns the canonical aspect for s, ignoring case. An empty
// string parses as None.
func ParseAspect(s string) (Aspect, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return None, true
	}
	for _, a := range aspects {
		if strings.EqualFold(string(a), s) {
			return a, true
		}
	}
	return None, false
}

// Color is the display color of the aspect; None has no color.
func (a Aspect) Color() string {
	return aspectColors[a]
}

// SortOrder ranks aspects for display, None last.
func (a Aspect) SortOrder() int {
	for i, v := range aspects {
		if v == a {
			return i + 1
		}
	}
	return len(aspects) + 1
}

// PilotTrait marks a card that can be played as a pilot.
const PilotTrait = "PILOT"

// CardAspect is one aspect icon on a card.
type CardAspect struct {
	Aspect Aspect `json:"aspect"`
	Color  string `json:"color"`
	Double bool   `json:"double"`
}

// Card is a single printing of a card.
type Card struct {
	ID          string       `json:"id"` // SET-NUMBER, e.g. SOR-010
	SetID       string       `json:"set_id"`
	Number      int          `json:"number"`
	Name        string       `json:"name"`
	Subtitle    string       `json:"subtitle,omitempty"`
	Unique      bool         `json:"unique"`
	Rarity      string       `json:"rarity"`
	VariantType string       `json:"variant_type"`
	CardType    string       `json:"card_type"`
	Cost        string       `json:"cost,omitempty"`
	Power       string       `json:"power,omitempty"`
	HP          string       `json:"hp,omitempty"`
	FrontText   string       `json:"front_text,omitempty"`
	DoubleSided bool         `json:"double_sided"`
	EpicAction  string       `json:"epic_action,omitempty"`
	BackText    string       `json:"back_text,omitempty"`
	Artist      string       `json:"artist"`
	Aspects     []CardAspect `json:"aspects"`
	Traits      []string     `json:"traits"`
	Arenas      []string     `json:"arenas"`
	Keywords    []string     `json:"keywords"`
}

// CardID builds the canonical id of a card from its set and its collector
// number as printed ("SOR", "010" -> "SOR-010").
func CardID(setID, number string) string {
	return setID + "-" + number
}

// IsPilot reports whether the card carries the PILOT trait.
func (c *Card) IsPilot() bool {
	for _, t := range c.Traits {
		if strings.EqualFold(t, PilotTrait) {
			return true
		}
	}
	return false
}

// HasKeyword reports whether the card has keyword k.
func (c *Card) HasKeyword(k string) bool {
	for _, v := range c.Keywords {
		if strings.EqualFold(v, k) {
			return true
		}
	}
	return false
}

// Set is a released card set.
type Set struct {
	ID       string `json:"id" toml:"id"`
	Name     string `json:"name" toml:"name"`
	Rotation string `json:"rotation,omitempty" toml:"rotation"`
	Number   int    `json:"number" toml:"number"`
}
