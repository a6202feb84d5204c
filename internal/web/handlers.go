package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/arcanaland/holocron/internal/card"
	"github.com/arcanaland/holocron/internal/rulestext"
	"github.com/arcanaland/holocron/internal/store"
)

type setPage struct {
	Set *card.Set
}

type cardPage struct {
	Card         *card.Card
	Variants     []card.Card
	FrontText    template.HTML
	EpicAction   template.HTML
	BackText     template.HTML
	ImageURL     string
	BackImageURL string
}

type searchPage struct {
	Filter store.Filter
	Cards  []card.Card
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "index.html", nil)
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	set, err := s.store.GetSet(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Set not found"})
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.renderPage(w, "set.html", setPage{Set: set})
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCard(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Card not found"})
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	variants, err := s.store.Variants(r.Context(), c)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.renderPage(w, "card.html", s.newCardPage(c, variants))
}

func (s *Server) newCardPage(c *card.Card, variants []card.Card) cardPage {
	ctx := rulestext.ContextFor(c)
	base := "/static/images/cards/" + c.SetID + "/" + strings.TrimPrefix(c.ID, c.SetID+"-")
	// rules text comes from the card database and is trusted
	return cardPage{
		Card:         c,
		Variants:     variants,
		FrontText:    template.HTML(s.annotator.Annotate(c.FrontText, ctx)),
		EpicAction:   template.HTML(s.annotator.Annotate(c.EpicAction, ctx)),
		BackText:     template.HTML(s.annotator.Annotate(c.BackText, ctx)),
		ImageURL:     base + ".png",
		BackImageURL: base + "-back.png",
	}
}

func (s *Server) handleSetList(w http.ResponseWriter, r *http.Request) {
	sets, err := s.store.ListSets(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	if isHTMX(r) {
		s.renderFragment(w, "set_list", sets)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(sets))
}

func (s *Server) handleCardList(w http.ResponseWriter, r *http.Request) {
	cards, err := s.store.CardsInSet(r.Context(), r.PathValue("set"))
	if err != nil {
		s.serverError(w, err)
		return
	}
	if isHTMX(r) {
		s.renderFragment(w, "card_list", cards)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(cards))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.Filter{
		Aspect:      q.Get("aspect"),
		Keyword:     q.Get("keyword"),
		Trait:       q.Get("trait"),
		VariantType: q.Get("variant_type"),
		Set:         q.Get("set"),
		Name:        q.Get("name"),
		Type:        q.Get("type"),
		Rarity:      q.Get("rarity"),
		Artist:      q.Get("artist"),
		Limit:       s.opts.SearchLimit,
	}

	var cards []card.Card
	if !f.Empty() {
		var err error
		cards, err = s.store.Search(r.Context(), f)
		if err != nil {
			s.serverError(w, err)
			return
		}
	}

	switch {
	case isHTMX(r):
		s.renderFragment(w, "card_list", cards)
	case wantsHTML(r):
		s.renderPage(w, "search.html", searchPage{Filter: f, Cards: cards})
	default:
		writeJSON(w, http.StatusOK, nonNil(cards))
	}
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) renderFragment(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.fragments.ExecuteTemplate(&buf, name, data); err != nil {
		s.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") != ""
}

// wantsHTML reports a browser navigation, as opposed to an API client.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// nonNil makes empty results encode as [] rather than null.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
