package store

import (
	"context"
	"strings"

	"github.com/arcanaland/holocron/internal/card"
	"github.com/arcanaland/holocron/internal/ingest"
)

// Filter selects cards in Search. Empty fields match everything; set fields
// are combined with AND.
type Filter struct {
	Aspect      string
	Keyword     string
	Trait       string
	VariantType string
	Set         string
	Name        string // substring, case-insensitive
	Type        string
	Rarity      string
	Artist      string // substring of the normalized artist name
	Limit       int
}

// Empty reports whether no criterion is set.
func (f Filter) Empty() bool {
	f.Limit = 0
	return f == Filter{}
}

// Search returns the cards matching f, ordered by set then number.
func (s *Store) Search(ctx context.Context, f Filter) ([]card.Card, error) {
	var conds []string
	var args []any

	if f.Aspect != "" {
		aspect, ok := card.ParseAspect(f.Aspect)
		if !ok {
			return nil, nil
		}
		conds = append(conds, `EXISTS (SELECT 1 FROM card_aspects a WHERE a.card_id = c.id AND a.aspect = ?)`)
		args = append(args, string(aspect))
	}
	if f.Keyword != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM card_keywords k WHERE k.card_id = c.id AND k.keyword = ?)`)
		args = append(args, strings.ToUpper(f.Keyword))
	}
	if f.Trait != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM card_traits t WHERE t.card_id = c.id AND t.trait = ?)`)
		args = append(args, strings.ToUpper(f.Trait))
	}
	equal := []struct {
		column, value string
	}{
		{"c.variant_type", f.VariantType},
		{"c.set_id", strings.ToUpper(f.Set)},
		{"c.card_type", f.Type},
		{"c.rarity", f.Rarity},
	}
	for _, e := range equal {
		if e.value != "" {
			conds = append(conds, e.column+` = ? COLLATE NOCASE`)
			args = append(args, e.value)
		}
	}
	if f.Name != "" {
		conds = append(conds, `(c.name LIKE ? OR c.subtitle LIKE ?)`)
		like := "%" + f.Name + "%"
		args = append(args, like, like)
	}
	if f.Artist != "" {
		conds = append(conds, `c.artist_search LIKE ?`)
		args = append(args, "%"+ingest.ArtistSearchKey(f.Artist)+"%")
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	return s.queryCards(ctx, where, f.Limit, args...)
}
