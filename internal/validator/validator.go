package validator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/arcanaland/holocron/internal/card"
	"github.com/arcanaland/holocron/internal/catalog"
	"github.com/arcanaland/holocron/internal/swuapi"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// OK reports whether validation found no errors.
func (r ValidationResults) OK() bool {
	return len(r.Errors) == 0
}

type Validator struct {
	CardsPath string
	// ImageDir, when set, is checked for a front image of every card.
	ImageDir string
	Catalog  *catalog.Catalog
	Results  ValidationResults
}

func NewValidator(cardsPath string, sets *catalog.Catalog) *Validator {
	return &Validator{
		CardsPath: cardsPath,
		Catalog:   sets,
		Results:   ValidationResults{},
	}
}

// Validate loads the card data file and checks every card.
func (v *Validator) Validate() (ValidationResults, error) {
	cards, err := v.loadCards()
	if err != nil {
		return v.Results, err
	}

	v.ValidateCards(cards)
	if v.ImageDir != "" {
		v.validateImages(cards)
	}

	return v.Results, nil
}

func (v *Validator) loadCards() ([]swuapi.Card, error) {
	data, err := os.ReadFile(v.CardsPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("card data not found at %s", v.CardsPath)
	}
	if err != nil {
		return nil, err
	}

	var cards []swuapi.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("error parsing %s: %v", v.CardsPath, err)
	}
	if len(cards) == 0 {
		v.Results.Warnings = append(v.Results.Warnings, "card data is empty")
	}
	return cards, nil
}

// ValidateCards checks already loaded cards.
func (v *Validator) ValidateCards(cards []swuapi.Card) {
	seen := make(map[string]int, len(cards))
	unknownSets := make(map[string]bool)

	for i, c := range cards {
		label := fmt.Sprintf("card #%d", i+1)
		if c.Set != "" && c.Number != "" {
			label = c.ID()
		}

		v.validateRequired(label, c)

		if c.Number != "" {
			if _, err := strconv.Atoi(c.Number); err != nil {
				v.Results.Errors = append(v.Results.Errors,
					fmt.Sprintf("%s: number is not an integer: %q", label, c.Number))
			}
		}

		if c.Set != "" && c.Number != "" {
			if first, dup := seen[c.ID()]; dup {
				v.Results.Errors = append(v.Results.Errors,
					fmt.Sprintf("duplicate card id %s (entries #%d and #%d)", c.ID(), first, i+1))
			} else {
				seen[c.ID()] = i + 1
			}
		}

		for _, a := range c.Aspects {
			if _, ok := card.ParseAspect(a); !ok {
				v.Results.Errors = append(v.Results.Errors,
					fmt.Sprintf("%s: unknown aspect %q", label, a))
			}
		}

		if v.Catalog != nil && c.Set != "" && !v.Catalog.Has(c.Set) && !unknownSets[c.Set] {
			unknownSets[c.Set] = true
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("set %s is not in the set catalog", c.Set))
		}

		v.validateText(label, "FrontText", c.FrontText)
		v.validateText(label, "EpicAction", c.EpicAction)
		v.validateText(label, "BackText", c.BackText)
	}
}

// validateRequired checks the fields every card must carry
func (v *Validator) validateRequired(label string, c swuapi.Card) {
	required := []struct {
		field string
		value string
	}{
		{"Set", c.Set},
		{"Number", c.Number},
		{"Name", c.Name},
		{"Rarity", c.Rarity},
		{"VariantType", c.VariantType},
		{"Type", c.Type},
		{"Artist", c.Artist},
	}
	for _, r := range required {
		if r.value == "" {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("%s: %s is required", label, r.field))
		}
	}
}

// validateText warns about rules text whose brackets do not pair up
func (v *Validator) validateText(label, field, text string) {
	pairs := []struct{ open, close rune }{{'{', '}'}, {'(', ')'}, {'[', ']'}}
	for _, p := range pairs {
		depth := 0
		balanced := true
		for _, r := range text {
			switch r {
			case p.open:
				depth++
			case p.close:
				depth--
			}
			if depth < 0 {
				balanced = false
				break
			}
		}
		if depth != 0 {
			balanced = false
		}
		if !balanced {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("%s: %s has unbalanced %c%c", label, field, p.open, p.close))
		}
	}
}

// validateImages checks that every card has a downloaded front image
func (v *Validator) validateImages(cards []swuapi.Card) {
	missing := 0
	for _, c := range cards {
		if c.Set == "" || c.Number == "" {
			continue
		}
		path := filepath.Join(v.ImageDir, "cards", c.Set, c.Number+".png")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			missing++
		}
	}
	if missing > 0 {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("%d cards have no image, run `holocron images` to download them", missing))
	}
}
