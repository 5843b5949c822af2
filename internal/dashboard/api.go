package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ErrorResponse is the JSON body of a failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}

// OptionsResponse lists filter options and their default selection
type OptionsResponse struct {
	Options []string `json:"options"`
	Default []string `json:"default"`
}

func (s *Server) apiRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/sectors", s.withData(s.getSectors))
	r.Get("/tickers", s.withData(s.getTickers))
	r.Get("/daily-close", s.withData(s.getDailyClose))
	r.Get("/volume", s.withData(s.getVolume))
	r.Get("/returns", s.withData(s.getReturns))
	r.Get("/preview/{name}", s.withData(s.getPreview))
	return r
}

type dataHandler func(w http.ResponseWriter, r *http.Request, d *Data)

// withData loads the snapshots before calling h, answering with an error
// instead when any snapshot is unavailable.
func (s *Server) withData(h dataHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := LoadData(s.cache, s.config.Output)
		if err != nil {
			s.logger.Error("Failed to load snapshots", slog.String("error", err.Error()))
			s.renderError(w, r, err)
			return
		}
		h(w, r, d)
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}

func (s *Server) getSectors(w http.ResponseWriter, r *http.Request, d *Data) {
	options := SectorOptions(d.Volume)
	render.JSON(w, r, OptionsResponse{Options: nonNil(options), Default: nonNil(head(options, defaultSectorCount))})
}

func (s *Server) getTickers(w http.ResponseWriter, r *http.Request, d *Data) {
	options := TickerOptions(d, r.URL.Query()["sector"])
	render.JSON(w, r, OptionsResponse{Options: nonNil(options), Default: nonNil(head(options, defaultTickerCount))})
}

func (s *Server) getDailyClose(w http.ResponseWriter, r *http.Request, d *Data) {
	render.JSON(w, r, DailyClosePoints(d.DailyClose, r.URL.Query()["ticker"]))
}

func (s *Server) getVolume(w http.ResponseWriter, r *http.Request, d *Data) {
	render.JSON(w, r, SectorVolumePoints(d.Volume, r.URL.Query()["sector"]))
}

func (s *Server) getReturns(w http.ResponseWriter, r *http.Request, d *Data) {
	render.JSON(w, r, ReturnPoints(d.Returns, r.URL.Query()["ticker"]))
}

func (s *Server) getPreview(w http.ResponseWriter, r *http.Request, d *Data) {
	preview, ok := BuildPreview(d, chi.URLParam(r, "name"), s.config.Server.PreviewRows)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "unknown preview: " + chi.URLParam(r, "name")})
		return
	}
	render.JSON(w, r, preview)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
