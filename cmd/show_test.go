package cmd

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arcanaland/holocron/internal/card"
)

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{""}, wrapText("", 20))
	assert.Equal(t,
		[]string{"When Played: Deal 2", "damage to a ground", "unit."},
		wrapText("When Played: Deal 2 damage to a ground unit.", 20))
	assert.Equal(t, []string{"Chlewińska"}, wrapText("Chlewińska", 10))
}

func TestStripAnsi(t *testing.T) {
	assert.Equal(t, "▀", stripAnsi("\x1b[38;2;1;2;3m\x1b[48;2;4;5;6m▀\x1b[0m"))
	assert.Equal(t, "plain", stripAnsi("plain"))
}

func TestImageToAnsi(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	art, err := imageToAnsi(img, 4, 3, true)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat("▀", 4), stripAnsi(lines[0]))
	assert.Contains(t, lines[0], "\x1b[38;2;255;0;0m")
}

func TestArtSize(t *testing.T) {
	w, h := artSize(&card.Card{CardType: "Leader"})
	assert.Greater(t, w, h)
	w, h = artSize(&card.Card{CardType: "Unit"})
	assert.Less(t, w, h)
}

func TestCardImagePath(t *testing.T) {
	c := &card.Card{ID: "SOR-010", SetID: "SOR", Number: 10}
	assert.Equal(t, "/img/cards/SOR/010.png", cardImagePath("/img", c))
}

func TestInfoLines(t *testing.T) {
	c := &card.Card{
		ID:        "SOR-010",
		SetID:     "SOR",
		Name:      "Darth Vader",
		Unique:    true,
		CardType:  "Leader",
		Rarity:    "Common",
		Aspects:   []card.CardAspect{{Aspect: card.Villainy, Double: true}},
		Traits:    []string{"FORCE", "SITH"},
		FrontText: "Action [C=1]: Deal 1 damage.\nEpic Action: Flip this leader.",
	}

	text := stripAnsi(strings.Join(infoLines(c, "Spark of Rebellion", 40), "\n"))
	assert.Contains(t, text, "✧ Darth Vader")
	assert.Contains(t, text, "Spark of Rebellion")
	assert.Contains(t, text, "Villainy ×2")
	assert.Contains(t, text, "FORCE, SITH")
	assert.Contains(t, text, "Epic Action: Flip this leader.")
	assert.NotContains(t, text, "Back:")
}
