// Package web serves the card database over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/arcanaland/holocron/internal/card"
	"github.com/arcanaland/holocron/internal/rulestext"
	"github.com/arcanaland/holocron/internal/store"
)

//go:embed templates static
var assets embed.FS

// Store is the part of the card database the server reads.
type Store interface {
	ListSets(ctx context.Context) ([]card.Set, error)
	GetSet(ctx context.Context, id string) (*card.Set, error)
	GetCard(ctx context.Context, id string) (*card.Card, error)
	Variants(ctx context.Context, c *card.Card) ([]card.Card, error)
	CardsInSet(ctx context.Context, setID string) ([]card.Card, error)
	Search(ctx context.Context, f store.Filter) ([]card.Card, error)
	DistinctTraits(ctx context.Context) ([]string, error)
}

// Options configures a Server.
type Options struct {
	// ImageDir holds downloaded card images under cards/SET/.
	ImageDir string
	// SearchLimit caps the number of search results; 0 means no limit.
	SearchLimit int
}

// Server renders pages and fragments for the card database.
type Server struct {
	store     Store
	annotator *rulestext.Annotator
	pages     map[string]*template.Template
	fragments *template.Template
	logger    *zap.Logger
	opts      Options
}

var pageNames = []string{"index.html", "set.html", "card.html", "search.html"}

// New builds a server. The trait vocabulary is read from st once.
func New(ctx context.Context, st Store, logger *zap.Logger, opts Options) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	traits, err := st.DistinctTraits(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading traits: %w", err)
	}
	vocab := rulestext.NewTraitVocabulary(traits)
	logger.Info("trait vocabulary loaded", zap.Int("traits", vocab.Len()), zap.String("version", vocab.Version()))

	s := &Server{
		store:     st,
		annotator: rulestext.NewAnnotator(vocab),
		pages:     make(map[string]*template.Template, len(pageNames)),
		logger:    logger,
		opts:      opts,
	}

	s.fragments, err = template.ParseFS(assets, "templates/set_list.html", "templates/card_list.html")
	if err != nil {
		return nil, fmt.Errorf("parsing fragments: %w", err)
	}
	for _, name := range pageNames {
		t, err := template.ParseFS(assets,
			"templates/layout.html", "templates/set_list.html", "templates/card_list.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		s.pages[name] = t
	}
	return s, nil
}

// Handler returns the routes of the server wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /sets/{id}", s.handleSet)
	mux.HandleFunc("GET /cards/{id}", s.handleCard)
	mux.HandleFunc("GET /set_list", s.handleSetList)
	mux.HandleFunc("GET /card_list/{set}", s.handleCardList)
	mux.HandleFunc("GET /search", s.handleSearch)

	static, _ := fs.Sub(assets, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	if s.opts.ImageDir != "" {
		cards := http.Dir(filepath.Join(s.opts.ImageDir, "cards"))
		mux.Handle("GET /static/images/cards/", http.StripPrefix("/static/images/cards/", http.FileServer(cards)))
	}
	return s.logRequests(mux)
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Bool("htmx", isHTMX(r)),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
