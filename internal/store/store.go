// Package store keeps the card database in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/arcanaland/holocron/internal/card"
	"github.com/arcanaland/holocron/internal/ingest"
)

// ErrNotFound is returned when a card or set does not exist.
var ErrNotFound = errors.New("not found")

// Store is a handle on the card database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Rebuild replaces the whole database content with corpus in a single
// transaction.
func (s *Store) Rebuild(ctx context.Context, corpus *ingest.Corpus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, group := range [][]string{dropStatements, createStatements} {
		for _, stmt := range group {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("creating schema: %w", err)
			}
		}
	}

	for _, set := range corpus.Sets {
		if _, err := tx.ExecContext(ctx, `INSERT INTO sets VALUES (?, ?, ?, ?)`,
			set.ID, set.Number, nullable(set.Rotation), set.Name); err != nil {
			return fmt.Errorf("inserting set %s: %w", set.ID, err)
		}
	}
	for i := range corpus.Records {
		if err := insertRecord(ctx, tx, &corpus.Records[i]); err != nil {
			return err
		}
	}

	for _, stmt := range indexStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, r *ingest.Record) error {
	c := &r.Card
	_, err := tx.ExecContext(ctx,
		`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.SetID, c.Number, c.Name, nullable(c.Subtitle), c.Unique, c.Rarity, c.VariantType,
		c.CardType, nullable(c.Cost), nullable(c.Power), nullable(c.HP), nullable(c.FrontText),
		c.DoubleSided, nullable(c.EpicAction), nullable(c.BackText), c.Artist, r.ArtistSearch,
	)
	if err != nil {
		return fmt.Errorf("inserting card %s: %w", c.ID, err)
	}

	aspects := c.Aspects
	if len(aspects) == 0 {
		aspects = []card.CardAspect{{Aspect: card.None}}
	}
	for _, a := range aspects {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO card_aspects ("card_id", "aspect", "color", "sort_order", "double") VALUES (?, ?, ?, ?, ?)`,
			c.ID, nullable(string(a.Aspect)), nullable(a.Aspect.Color()), a.Aspect.SortOrder(), a.Double,
		); err != nil {
			return fmt.Errorf("inserting aspects of %s: %w", c.ID, err)
		}
	}

	// absent traits, arenas and keywords are stored as a single NULL row
	lists := []struct {
		query  string
		values []string
	}{
		{`INSERT INTO card_traits ("card_id", "trait") VALUES (?, ?)`, c.Traits},
		{`INSERT INTO card_arenas ("card_id", "arena") VALUES (?, ?)`, c.Arenas},
		{`INSERT INTO card_keywords ("card_id", "keyword") VALUES (?, ?)`, c.Keywords},
	}
	for _, l := range lists {
		if len(l.values) == 0 {
			if _, err := tx.ExecContext(ctx, l.query, c.ID, nil); err != nil {
				return fmt.Errorf("inserting %s: %w", c.ID, err)
			}
			continue
		}
		for _, v := range l.values {
			if _, err := tx.ExecContext(ctx, l.query, c.ID, v); err != nil {
				return fmt.Errorf("inserting %s: %w", c.ID, err)
			}
		}
	}
	return nil
}

// ListSets returns the sets ordered by release number.
func (s *Store) ListSets(ctx context.Context) ([]card.Set, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, COALESCE(rotation, ''), number FROM sets ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("listing sets: %w", err)
	}
	defer rows.Close()

	var sets []card.Set
	for rows.Next() {
		var set card.Set
		if err := rows.Scan(&set.ID, &set.Name, &set.Rotation, &set.Number); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

// GetSet returns a single set.
func (s *Store) GetSet(ctx context.Context, id string) (*card.Set, error) {
	var set card.Set
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(rotation, ''), number FROM sets WHERE id = ?`, id,
	).Scan(&set.ID, &set.Name, &set.Rotation, &set.Number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("set %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// GetCard returns a card with its aspects, traits, arenas and keywords.
func (s *Store) GetCard(ctx context.Context, id string) (*card.Card, error) {
	cards, err := s.queryCards(ctx, `WHERE c.id = ?`, 0, id)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	return &cards[0], nil
}

// Variants returns the other printings of c: same name, type and subtitle.
func (s *Store) Variants(ctx context.Context, c *card.Card) ([]card.Card, error) {
	return s.queryCards(ctx,
		`WHERE c.id != ? AND c.name = ? AND c.card_type = ? AND COALESCE(c.subtitle, '') = ?`, 0,
		c.ID, c.Name, c.CardType, c.Subtitle,
	)
}

// CardsInSet returns the normal variants of a set in collector order.
func (s *Store) CardsInSet(ctx context.Context, setID string) ([]card.Card, error) {
	return s.queryCards(ctx, `WHERE c.set_id = ? AND c.variant_type = 'Normal'`, 0, setID)
}

// DistinctTraits returns every trait in the database in alphabetical order.
func (s *Store) DistinctTraits(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `SELECT DISTINCT trait FROM card_traits WHERE trait IS NOT NULL ORDER BY trait`)
}

// Count returns the number of cards.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cards: %w", err)
	}
	return n, nil
}

const cardColumns = `c.id, c.set_id, c.number, c.name, c.subtitle, c."unique", c.rarity,
	c.variant_type, c.card_type, c.cost, c.power, c.hp, c.front_text, c.double_sided,
	c.epic_action, c.back_text, c.artist`

// queryCards selects at most limit (0 for all) cards matching where, ordered
// by set then number, and loads their related rows.
func (s *Store) queryCards(ctx context.Context, where string, limit int, args ...any) ([]card.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards c LEFT JOIN sets s ON s.id = c.set_id ` +
		where + ` ORDER BY COALESCE(s.number, 1000000), c.set_id, c.number`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	var cards []card.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attach(ctx, cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func scanCard(rows *sql.Rows) (card.Card, error) {
	var c card.Card
	var subtitle, cost, power, hp, front, epic, back sql.NullString
	err := rows.Scan(
		&c.ID, &c.SetID, &c.Number, &c.Name, &subtitle, &c.Unique, &c.Rarity,
		&c.VariantType, &c.CardType, &cost, &power, &hp, &front, &c.DoubleSided,
		&epic, &back, &c.Artist,
	)
	if err != nil {
		return c, err
	}
	c.Subtitle = subtitle.String
	c.Cost = cost.String
	c.Power = power.String
	c.HP = hp.String
	c.FrontText = front.String
	c.EpicAction = epic.String
	c.BackText = back.String
	return c, nil
}

// attach fills the aspects, traits, arenas and keywords of cards.
func (s *Store) attach(ctx context.Context, cards []card.Card) error {
	if len(cards) == 0 {
		return nil
	}
	index := make(map[string]*card.Card, len(cards))
	ids := make([]any, len(cards))
	for i := range cards {
		index[cards[i].ID] = &cards[i]
		ids[i] = cards[i].ID
	}
	in := "(" + strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",") + ")"

	rows, err := s.db.QueryContext(ctx,
		`SELECT card_id, aspect, "double" FROM card_aspects WHERE aspect IS NOT NULL AND card_id IN `+in+
			` ORDER BY card_id, sort_order`, ids...)
	if err != nil {
		return fmt.Errorf("loading aspects: %w", err)
	}
	for rows.Next() {
		var id, name string
		var double bool
		if err := rows.Scan(&id, &name, &double); err != nil {
			rows.Close()
			return err
		}
		a, _ := card.ParseAspect(name)
		c := index[id]
		c.Aspects = append(c.Aspects, card.CardAspect{Aspect: a, Color: a.Color(), Double: double})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	lists := []struct {
		table, column string
		field         func(*card.Card) *[]string
	}{
		{"card_traits", "trait", func(c *card.Card) *[]string { return &c.Traits }},
		{"card_arenas", "arena", func(c *card.Card) *[]string { return &c.Arenas }},
		{"card_keywords", "keyword", func(c *card.Card) *[]string { return &c.Keywords }},
	}
	for _, l := range lists {
		query := fmt.Sprintf(`SELECT card_id, %[2]s FROM %[1]s WHERE %[2]s IS NOT NULL AND card_id IN %[3]s ORDER BY id`,
			l.table, l.column, in)
		rows, err := s.db.QueryContext(ctx, query, ids...)
		if err != nil {
			return fmt.Errorf("loading %s: %w", l.table, err)
		}
		for rows.Next() {
			var id, v string
			if err := rows.Scan(&id, &v); err != nil {
				rows.Close()
				return err
			}
			f := l.field(index[id])
			*f = append(*f, v)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
