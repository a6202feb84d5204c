// Package ingest turns fetched card data into the rows stored in the
// database.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/arcanaland/holocron/internal/card"
	"github.com/arcanaland/holocron/internal/catalog"
	"github.com/arcanaland/holocron/internal/rulestext"
	"github.com/arcanaland/holocron/internal/swuapi"
)

// Source is the raw input of a database build.
type Source struct {
	Cards []swuapi.Card
	// Corrections maps a card id to the fields that replace the fetched ones.
	Corrections map[string]json.RawMessage
}

// Record is one card ready for storage.
type Record struct {
	card.Card
	ArtistSearch string
}

// Corpus is everything written by a database build.
type Corpus struct {
	Sets    []card.Set
	Records []Record
}

// artistRemap fixes typos and alternate spellings of artist names. Diacritics
// are folded separately.
var artistRemap = map[string]string{
	"Aitor Prieto Reyes":    "Aitor Prieto",
	"Amélie Hutt":           "Axel Hutt",
	"Anny Maulina":          "Ann Maulina",
	"Christian Papzoglakis": "Christian Papazoglakis",
	"Frank Cannels":         "Francois Cannels",
	"Gretel Nancy Lusky":    "Gretel Lusky",
	"Liana Anatolievich":    "Liana Anatolevich",
	"Roxana Karpatvogyi":    "Roxana Karpatvolgyi",
	"Sandra Chewlińska":     "Sandra Chlewińska",
}

// letters without a canonical decomposition
var foldLetters = strings.NewReplacer(
	"ł", "l", "Ł", "L",
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
)

// Load reads all_cards.json and, when present, corrections.json.
func Load(allCardsPath, correctionsPath string) (*Source, error) {
	data, err := os.ReadFile(allCardsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not find %s, run `holocron fetch` to create it", allCardsPath)
	}
	if err != nil {
		return nil, err
	}

	src := &Source{Corrections: map[string]json.RawMessage{}}
	if err := json.Unmarshal(data, &src.Cards); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", allCardsPath, err)
	}

	if correctionsPath == "" {
		return src, nil
	}
	data, err = os.ReadFile(correctionsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return src, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &src.Corrections); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", correctionsPath, err)
	}
	return src, nil
}

// BuildCorpus applies corrections, extracts keywords and normalizes every
// card of src.
func BuildCorpus(src *Source, sets *catalog.Catalog, logger *zap.Logger) (*Corpus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("loaded card data", zap.Int("cards", len(src.Cards)), zap.Int("corrections", len(src.Corrections)))

	corpus := &Corpus{
		Sets:    append([]card.Set(nil), sets.Sets...),
		Records: make([]Record, 0, len(src.Cards)),
	}
	for _, raw := range src.Cards {
		id := raw.ID()
		if fix, ok := src.Corrections[id]; ok {
			if err := json.Unmarshal(fix, &raw); err != nil {
				return nil, fmt.Errorf("applying correction for %s: %w", id, err)
			}
			logger.Debug("applied correction", zap.String("card", id))
		}
		rec, err := buildRecord(raw)
		if err != nil {
			return nil, err
		}
		if !sets.Has(rec.SetID) {
			logger.Warn("card belongs to a set missing from the catalog", zap.String("card", rec.ID))
		}
		corpus.Records = append(corpus.Records, rec)
	}
	logger.Info("parsed card data", zap.Int("records", len(corpus.Records)))
	return corpus, nil
}

func buildRecord(raw swuapi.Card) (Record, error) {
	number, err := strconv.Atoi(raw.Number)
	if err != nil {
		return Record{}, fmt.Errorf("card %s: invalid number %q", raw.ID(), raw.Number)
	}

	front, frontKeywords := rulestext.Extract(raw.FrontText)
	back, backKeywords := rulestext.Extract(raw.BackText)
	var keywords []string
	for _, k := range frontKeywords.Union(backKeywords).Sorted() {
		keywords = append(keywords, string(k))
	}

	aspects, err := countAspects(raw.Aspects)
	if err != nil {
		return Record{}, fmt.Errorf("card %s: %w", raw.ID(), err)
	}

	return Record{
		Card: card.Card{
			ID:          card.CardID(raw.Set, raw.Number),
			SetID:       raw.Set,
			Number:      number,
			Name:        raw.Name,
			Subtitle:    raw.Subtitle,
			Unique:      raw.Unique,
			Rarity:      raw.Rarity,
			VariantType: raw.VariantType,
			CardType:    raw.Type,
			Cost:        raw.Cost,
			Power:       raw.Power,
			HP:          raw.HP,
			FrontText:   front,
			DoubleSided: raw.DoubleSided,
			EpicAction:  raw.EpicAction,
			BackText:    back,
			Artist:      raw.Artist,
			Aspects:     aspects,
			Traits:      raw.Traits,
			Arenas:      raw.Arenas,
			Keywords:    keywords,
		},
		ArtistSearch: ArtistSearchKey(raw.Artist),
	}, nil
}

// countAspects collapses repeated aspects into a single double aspect, in
// order of first appearance. A card without aspects gets a single None.
func countAspects(names []string) ([]card.CardAspect, error) {
	if len(names) == 0 {
		return []card.CardAspect{{Aspect: card.None}}, nil
	}
	var out []card.CardAspect
	index := map[card.Aspect]int{}
	for _, name := range names {
		a, ok := card.ParseAspect(name)
		if !ok {
			return nil, fmt.Errorf("unknown aspect %q", name)
		}
		if i, seen := index[a]; seen {
			out[i].Double = true
			continue
		}
		index[a] = len(out)
		out = append(out, card.CardAspect{Aspect: a, Color: a.Color()})
	}
	return out, nil
}

// ArtistSearchKey normalizes an artist name for search: known misspellings
// are remapped, then diacritics are removed.
func ArtistSearchKey(artist string) string {
	if fixed, ok := artistRemap[artist]; ok {
		artist = fixed
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, artist)
	if err != nil {
		folded = artist
	}
	return foldLetters.Replace(folded)
}
