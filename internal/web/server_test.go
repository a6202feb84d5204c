package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/holocron/internal/card"
	"github.com/arcanaland/holocron/internal/ingest"
	"github.com/arcanaland/holocron/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "db.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	corpus := &ingest.Corpus{
		Sets: []card.Set{{ID: "SOR", Name: "Spark of Rebellion", Number: 1}},
		Records: []ingest.Record{
			{Card: card.Card{
				ID:          "SOR-010",
				SetID:       "SOR",
				Number:      10,
				Name:        "Darth Vader",
				Subtitle:    "Dark Lord of the Sith",
				Rarity:      "Common",
				VariantType: "Normal",
				CardType:    "Leader",
				FrontText:   "Action [C=1]: Give an IMPERIAL unit +1/+0. (It's temporary.)",
				BackText:    "SENTINEL\nOn Attack: Deal 1 damage.",
				DoubleSided: true,
				Artist:      "Borja Pindado",
				Aspects:     []card.CardAspect{{Aspect: card.Villainy, Color: "black"}},
				Traits:      []string{"FORCE", "IMPERIAL", "SITH"},
				Keywords:    []string{"SENTINEL"},
			}},
			{Card: card.Card{
				ID:          "SOR-279",
				SetID:       "SOR",
				Number:      279,
				Name:        "Darth Vader",
				Subtitle:    "Dark Lord of the Sith",
				Rarity:      "Special",
				VariantType: "Hyperspace",
				CardType:    "Leader",
				Artist:      "Borja Pindado",
				Traits:      []string{"FORCE", "IMPERIAL", "SITH"},
			}},
		},
	}
	require.NoError(t, st.Rebuild(context.Background(), corpus))

	imageDir := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(filepath.Join(imageDir, "cards", "SOR"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(imageDir, "cards", "SOR", "010.png"), []byte("png"), 0644))

	srv, err := New(context.Background(), st, nil, Options{ImageDir: imageDir})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, imageDir
}

func get(t *testing.T, url string, header map[string]string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

var htmx = map[string]string{"HX-Request": "true"}

func TestIndex(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `hx-get="/set_list"`)
}

func TestSetList(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/set_list", nil)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var sets []card.Set
	require.NoError(t, json.Unmarshal([]byte(body), &sets))
	assert.Equal(t, []card.Set{{ID: "SOR", Name: "Spark of Rebellion", Number: 1}}, sets)

	resp, body = get(t, ts.URL+"/set_list", htmx)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `<a href="/sets/SOR">Spark of Rebellion</a>`)
}

func TestSetPage(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/sets/SOR", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `hx-get="/card_list/SOR"`)

	resp, _ = get(t, ts.URL+"/sets/XYZ", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCardList(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts.URL+"/card_list/SOR", nil)
	var cards []card.Card
	require.NoError(t, json.Unmarshal([]byte(body), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "SOR-010", cards[0].ID)

	_, body = get(t, ts.URL+"/card_list/SOR", htmx)
	assert.Contains(t, body, `<a href="/cards/SOR-010">Darth Vader, Dark Lord of the Sith</a>`)

	_, body = get(t, ts.URL+"/card_list/XYZ", nil)
	assert.Equal(t, "[]\n", body)
}

func TestCardPage(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/cards/SOR-010", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<span class="reminder">(It’s temporary.)</span>`)
	assert.Contains(t, body, `<span class="trait"><a href="/search?trait=IMPERIAL&variant_type=Normal">IMPERIAL</a></span>`)
	assert.Contains(t, body, `<div class="alert alert-danger">`)
	assert.Contains(t, body, `src="/static/images/cards/SOR/010.png"`)
	assert.Contains(t, body, `<a href="/cards/SOR-279">`, "variants are listed")
}

func TestCardPage_NotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/cards/SOR-999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Card not found"}`, body)
}

func TestSearch(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts.URL+"/search?trait=imperial&variant_type=Normal", nil)
	var cards []card.Card
	require.NoError(t, json.Unmarshal([]byte(body), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "SOR-010", cards[0].ID)

	_, body = get(t, ts.URL+"/search?name=vader", htmx)
	assert.Contains(t, body, "/cards/SOR-010")
	assert.Contains(t, body, "/cards/SOR-279")
	assert.NotContains(t, body, "<html")

	_, body = get(t, ts.URL+"/search?keyword=sentinel", map[string]string{"Accept": "text/html"})
	assert.Contains(t, body, "<html")
	assert.Contains(t, body, "/cards/SOR-010")

	_, body = get(t, ts.URL+"/search", nil)
	assert.Equal(t, "[]\n", body)
}

func TestStatic(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := get(t, ts.URL+"/static/css/holocron.css", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/static/images/aspects/Villainy.png", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := get(t, ts.URL+"/static/images/cards/SOR/010.png", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "png", body)

	resp, _ = get(t, ts.URL+"/static/images/cards/SOR/011.png", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
