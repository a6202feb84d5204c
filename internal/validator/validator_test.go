package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/holocron/internal/catalog"
	"github.com/arcanaland/holocron/internal/swuapi"
)

func validCard(set, number string) swuapi.Card {
	return swuapi.Card{
		Set:         set,
		Number:      number,
		Name:        "Darth Vader",
		Type:        "Leader",
		Rarity:      "Common",
		VariantType: "Normal",
		Artist:      "Borja Pindado",
		Aspects:     []string{"Aggression", "Villainy"},
		FrontText:   "{Action} [C=1]: Deal 1 damage (to a unit).",
	}
}

func TestValidateCards_Valid(t *testing.T) {
	v := NewValidator("", catalog.Default())
	v.ValidateCards([]swuapi.Card{validCard("SOR", "010"), validCard("SOR", "011")})
	assert.Empty(t, v.Results.Errors)
	assert.Empty(t, v.Results.Warnings)
	assert.True(t, v.Results.OK())
}

func TestValidateCards_Errors(t *testing.T) {
	missing := validCard("SOR", "012")
	missing.Name = ""
	missing.Artist = ""

	badAspect := validCard("SOR", "013")
	badAspect.Aspects = []string{"Chaos"}

	badNumber := validCard("SOR", "x1")

	v := NewValidator("", catalog.Default())
	v.ValidateCards([]swuapi.Card{
		validCard("SOR", "010"),
		validCard("SOR", "010"),
		missing,
		badAspect,
		badNumber,
	})

	assert.False(t, v.Results.OK())
	assert.ElementsMatch(t, []string{
		"duplicate card id SOR-010 (entries #1 and #2)",
		"SOR-012: Name is required",
		"SOR-012: Artist is required",
		`SOR-013: unknown aspect "Chaos"`,
		`SOR-x1: number is not an integer: "x1"`,
	}, v.Results.Errors)
}

func TestValidateCards_Warnings(t *testing.T) {
	unknown := validCard("XYZ", "1")
	other := validCard("XYZ", "2")
	text := validCard("SOR", "1")
	text.FrontText = "When Played: (Deal 2 damage."
	text.BackText = "{Exhaust}} this"

	v := NewValidator("", catalog.Default())
	v.ValidateCards([]swuapi.Card{unknown, other, text})

	assert.Empty(t, v.Results.Errors)
	assert.Equal(t, []string{
		"set XYZ is not in the set catalog",
		"SOR-1: FrontText has unbalanced ()",
		"SOR-1: BackText has unbalanced {}",
	}, v.Results.Warnings)
}

func TestValidate_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "all_cards.json")

	_, err := NewValidator(path, catalog.Default()).Validate()
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
	_, err = NewValidator(path, catalog.Default()).Validate()
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`[{"Set":"SOR","Number":"1","Name":"A","Type":"Unit","Rarity":"Common","VariantType":"Normal","Artist":"B"}]`), 0644))
	v := NewValidator(path, catalog.Default())
	v.ImageDir = filepath.Join(dir, "images")
	results, err := v.Validate()
	require.NoError(t, err)
	assert.Empty(t, results.Errors)
	assert.Equal(t, []string{"1 cards have no image, run `holocron images` to download them"}, results.Warnings)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images", "cards", "SOR"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "cards", "SOR", "1.png"), nil, 0644))
	v = NewValidator(path, catalog.Default())
	v.ImageDir = filepath.Join(dir, "images")
	results, err = v.Validate()
	require.NoError(t, err)
	assert.Empty(t, results.Warnings)
}
