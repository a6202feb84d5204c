package swuapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FetchAll collects the cards of every full set and the wanted numbers of
// every partial set, ordered by set (full sets in the given order, then
// partial sets by id) and collector number. Any failure on a full set is
// fatal; partial sets fall back to fetching missing cards one by one.
func (c *Client) FetchAll(ctx context.Context, full []string, partial map[string][]int, concurrency int) ([]Card, error) {
	partialIDs := make([]string, 0, len(partial))
	for id := range partial {
		partialIDs = append(partialIDs, id)
	}
	sort.Strings(partialIDs)

	results := make([][]Card, len(full)+len(partialIDs))
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, setID := range full {
		g.Go(func() error {
			c.logger.Info("fetching set", zap.String("set", setID))
			cards, err := c.SetCards(ctx, setID)
			if err != nil {
				return fmt.Errorf("full set data not found for %s: %w", setID, err)
			}
			sortByNumber(cards)
			results[i] = cards
			return nil
		})
	}
	for j, setID := range partialIDs {
		g.Go(func() error {
			results[len(full)+j] = c.fetchPartial(ctx, setID, partial[setID])
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Card
	for _, cards := range results {
		all = append(all, cards...)
	}
	return all, nil
}

func (c *Client) fetchPartial(ctx context.Context, setID string, numbers []int) []Card {
	log := c.logger.With(zap.String("set", setID))
	log.Info("fetching partial set", zap.Int("wanted", len(numbers)))

	need := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		need[n] = true
	}

	var out []Card
	cards, err := c.SetCards(ctx, setID)
	if err != nil {
		log.Warn("full set data not found", zap.Error(err))
	}
	for _, card := range cards {
		if n := card.NumberInt(); need[n] {
			out = append(out, card)
			delete(need, n)
		}
	}

	if len(need) > 0 {
		log.Info("fetching remaining cards one by one", zap.Int("remaining", len(need)))
	}
	missing := make([]int, 0, len(need))
	for n := range need {
		missing = append(missing, n)
	}
	sort.Ints(missing)
	for _, n := range missing {
		if ctx.Err() != nil {
			break
		}
		card, err := c.Card(ctx, setID, n)
		if err != nil {
			log.Warn("skipping card", zap.Int("number", n), zap.Error(err))
			continue
		}
		out = append(out, *card)
	}

	sortByNumber(out)
	return out
}

func sortByNumber(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].NumberInt() < cards[j].NumberInt()
	})
}

// ImageOptions controls FetchImages.
type ImageOptions struct {
	BaseURL     string   // e.g. https://swudb.com/images/cards
	Dir         string   // images are written under Dir/cards/SET/
	Overwrite   bool     // replace files already on disk
	Sets        []string // limit to these sets; empty means all
	Concurrency int
}

// FetchImages downloads the front image of every card, and the back image of
// double sided cards. Failed downloads are logged and skipped. It returns the
// number of files written.
func (c *Client) FetchImages(ctx context.Context, cards []Card, opts ImageOptions) (int, error) {
	only := make(map[string]bool, len(opts.Sets))
	for _, s := range opts.Sets {
		only[s] = true
	}

	type job struct {
		urls []string // tried in order until one exists
		path string
	}
	var jobs []job
	for _, card := range cards {
		if len(only) > 0 && !only[card.Set] {
			continue
		}
		dir := filepath.Join(opts.Dir, "cards", card.Set)
		jobs = append(jobs, job{
			urls: []string{fmt.Sprintf("%s/%s/%s.png", opts.BaseURL, card.Set, card.Number)},
			path: filepath.Join(dir, card.Number+".png"),
		})
		if card.DoubleSided {
			jobs = append(jobs, job{
				urls: []string{
					fmt.Sprintf("%s/%s/%s-portrait.png", opts.BaseURL, card.Set, card.Number),
					fmt.Sprintf("%s/%s/%s-back.png", opts.BaseURL, card.Set, card.Number),
				},
				path: filepath.Join(dir, card.Number+"-back.png"),
			})
		}
	}

	written := make([]bool, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, j := range jobs {
		if !opts.Overwrite {
			if _, err := os.Stat(j.path); err == nil {
				continue
			}
		}
		g.Go(func() error {
			ok, err := c.fetchImage(ctx, j.urls, j.path)
			if err != nil {
				c.logger.Warn("failed to fetch image", zap.String("path", j.path), zap.Error(err))
			}
			written[i] = ok
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	n := 0
	for _, ok := range written {
		if ok {
			n++
		}
	}
	return n, nil
}

func (c *Client) fetchImage(ctx context.Context, urls []string, path string) (bool, error) {
	var lastErr error
	for _, u := range urls {
		c.logger.Debug("fetching image", zap.String("url", u), zap.String("path", path))
		data, err := c.Download(ctx, u)
		if errors.Is(err, ErrNotFound) {
			lastErr = err
			continue
		}
		if err != nil {
			return false, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return false, err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, lastErr
}
