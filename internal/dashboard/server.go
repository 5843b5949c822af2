package dashboard

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sabarim/stockdash/internal/config"
)

//go:embed templates/*.html
var templates embed.FS

// Server serves the dashboard page and its JSON API
type Server struct {
	config *config.Config
	cache  *Cache
	logger *slog.Logger
	page   *template.Template
}

// NewServer creates a dashboard server over the configured snapshots
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	page, err := template.New("index.html").
		Funcs(template.FuncMap{"contains": slices.Contains[[]string]}).
		ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	return &Server{
		config: cfg,
		cache:  NewCache(logger),
		logger: logger.With(slog.String("component", "dashboard")),
		page:   page,
	}, nil
}

// Routes returns the dashboard router
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Mount("/api", s.apiRoutes())
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Dashboard listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request served",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// previewToggle is one raw-table checkbox of the page
type previewToggle struct {
	Name    string
	Label   string
	Shown   bool
	Preview Preview
}

type pageData struct {
	Error     string
	Selection Selection
	Trend     Spec
	Volume    Spec
	Returns   Spec
	Previews  []previewToggle
}

var previewLabels = map[string]string{
	"daily-close": "Show Aggregated Data (agg1 - Daily Close)",
	"volume":      "Show Aggregated Data (agg2 - Volume by Sector)",
	"returns":     "Show Aggregated Data (agg3 - Daily Return)",
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	d, err := LoadData(s.cache, s.config.Output)
	if err != nil {
		s.logger.Error("Failed to load snapshots", slog.String("error", err.Error()))
		s.render(w, http.StatusInternalServerError, pageData{Error: err.Error()})
		return
	}

	q := r.URL.Query()
	sel := Select(d, q)
	data := pageData{Selection: sel}

	if len(sel.Tickers) > 0 {
		data.Trend = TrendChart(DailyClosePoints(d.DailyClose, sel.Tickers))
		data.Returns = ReturnHistogram(ReturnPoints(d.Returns, sel.Tickers))
	}
	if points := SectorVolumePoints(d.Volume, sel.Sectors); len(points) > 0 {
		data.Volume = VolumeChart(points)
	}

	shown := q["show"]
	for _, name := range previewNames {
		toggle := previewToggle{Name: name, Label: previewLabels[name], Shown: slices.Contains(shown, name)}
		if toggle.Shown {
			toggle.Preview, _ = BuildPreview(d, name, s.config.Server.PreviewRows)
		}
		data.Previews = append(data.Previews, toggle)
	}

	s.render(w, http.StatusOK, data)
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to render page", slog.String("error", err.Error()))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
