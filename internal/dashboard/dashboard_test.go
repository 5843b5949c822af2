package dashboard

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabarim/stockdash/internal/aggregate"
	"github.com/sabarim/stockdash/internal/config"
	"github.com/sabarim/stockdash/internal/errs"
	"github.com/sabarim/stockdash/internal/snapshot"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func obs(ticker, sector string, d int, closePrice float64, volume int64) snapshot.Cleaned {
	return snapshot.Cleaned{
		Ticker:     snapshot.Ptr(ticker),
		Sector:     snapshot.Ptr(sector),
		TradeDate:  snapshot.Ptr(snapshot.DayNumber(time.Date(2024, 2, d, 0, 0, 0, 0, time.UTC))),
		ClosePrice: snapshot.Ptr(closePrice),
		Volume:     snapshot.Ptr(volume),
	}
}

// fixtureRows spans four sectors and seven tickers
func fixtureRows() []snapshot.Cleaned {
	var rows []snapshot.Cleaned
	tickers := map[string][]string{
		"energy":     {"xom", "cvx"},
		"finance":    {"jpm"},
		"technology": {"aapl", "msft", "nvda"},
		"utilities":  {"nee"},
	}
	i := 0
	for sector, names := range tickers {
		for _, name := range names {
			i++
			for d := 1; d <= 3; d++ {
				rows = append(rows, obs(name, sector, d, float64(10*i+d), int64(100*i)))
			}
		}
	}
	rows = append(rows, snapshot.Cleaned{Ticker: snapshot.Ptr("orphan"), Volume: snapshot.Ptr(int64(1))})
	return rows
}

func writeFixture(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()

	rows := fixtureRows()
	require.NoError(t, snapshot.Write(cfg.Output.CleanedPath(), rows))
	require.NoError(t, snapshot.Write(cfg.Output.DailyClosePath(), aggregate.DailyAverageClose(rows)))
	require.NoError(t, snapshot.Write(cfg.Output.VolumePath(), aggregate.AverageVolumeBySector(rows)))
	require.NoError(t, snapshot.Write(cfg.Output.ReturnPath(), aggregate.SimpleDailyReturn(rows)))
	return &cfg
}

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	srv, err := NewServer(cfg, testLogger())
	require.NoError(t, err)
	return srv.Routes()
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func loadFixture(t *testing.T, cfg *config.Config) *Data {
	t.Helper()
	d, err := LoadData(NewCache(testLogger()), cfg.Output)
	require.NoError(t, err)
	return d
}

func TestSelect_Defaults(t *testing.T) {
	d := loadFixture(t, writeFixture(t))

	sel := Select(d, url.Values{})
	assert.Equal(t, []string{"energy", "finance", "technology", "utilities"}, sel.SectorOptions)
	assert.Equal(t, []string{"energy", "finance", "technology"}, sel.Sectors)
	assert.Equal(t, []string{"aapl", "cvx", "jpm", "msft", "nvda", "xom"}, sel.TickerOptions)
	assert.Equal(t, []string{"aapl", "cvx", "jpm", "msft", "nvda"}, sel.Tickers)
}

func TestSelect_Submitted(t *testing.T) {
	d := loadFixture(t, writeFixture(t))

	sel := Select(d, url.Values{
		"submitted": {"1"},
		"sector":    {"utilities", "bogus"},
		"ticker":    {"nee", "aapl"},
	})
	assert.Equal(t, []string{"utilities"}, sel.Sectors)
	assert.Equal(t, []string{"nee"}, sel.TickerOptions)
	assert.Equal(t, []string{"nee"}, sel.Tickers, "tickers outside the sectors are dropped")
}

func TestSelect_NoSectorFallsBackToAllTickers(t *testing.T) {
	d := loadFixture(t, writeFixture(t))

	sel := Select(d, url.Values{"submitted": {"1"}})
	assert.Empty(t, sel.Sectors)
	assert.Equal(t, []string{"aapl", "cvx", "jpm", "msft", "nee", "nvda", "orphan", "xom"}, sel.TickerOptions)
	assert.Empty(t, sel.Tickers)
}

func TestBuildPreview(t *testing.T) {
	d := loadFixture(t, writeFixture(t))

	p, ok := BuildPreview(d, "returns", 2)
	require.True(t, ok)
	assert.Equal(t, []string{"ticker", "trade_date", "simple_daily_return"}, p.Columns)
	assert.Len(t, p.Rows, 2)
	assert.Len(t, p.Rows[0], 3)

	p, ok = BuildPreview(d, "daily-close", 100)
	require.True(t, ok)
	assert.Len(t, p.Rows, len(d.DailyClose))

	_, ok = BuildPreview(d, "nope", 10)
	assert.False(t, ok)
}

func TestCache_ReloadsOnModification(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/volume.parquet"
	cache := NewCache(testLogger())

	require.NoError(t, snapshot.Write(path, []snapshot.SectorVolume{{Sector: snapshot.Ptr("a"), AvgVolume: snapshot.Ptr(int64(1))}}))
	first, err := Load[snapshot.SectorVolume](cache, path)
	require.NoError(t, err)
	require.Len(t, first, 1)

	again, err := Load[snapshot.SectorVolume](cache, path)
	require.NoError(t, err)
	assert.Same(t, &first[0], &again[0], "unchanged file is served from cache")

	require.NoError(t, snapshot.Write(path, []snapshot.SectorVolume{
		{Sector: snapshot.Ptr("b"), AvgVolume: snapshot.Ptr(int64(2))},
		{Sector: snapshot.Ptr("c"), AvgVolume: snapshot.Ptr(int64(3))},
	}))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	reloaded, err := Load[snapshot.SectorVolume](cache, path)
	require.NoError(t, err)
	require.Len(t, reloaded, 2)
	assert.Equal(t, "b", *reloaded[0].Sector)
}

func TestCache_MissingFile(t *testing.T) {
	_, err := Load[snapshot.Cleaned](NewCache(testLogger()), t.TempDir()+"/absent.parquet")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrSnapshot)
}

func TestIndex_RendersCharts(t *testing.T) {
	h := newTestServer(t, writeFixture(t))

	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `vegaEmbed("#trend-chart"`)
	assert.Contains(t, body, `vegaEmbed("#volume-chart"`)
	assert.Contains(t, body, `vegaEmbed("#returns-chart"`)
	assert.Contains(t, body, `<option value="energy" selected>`)
	assert.Contains(t, body, `<option value="utilities">`)
	assert.NotContains(t, body, `id="preview-`)
}

func TestIndex_EmptySelectionShowsInfo(t *testing.T) {
	h := newTestServer(t, writeFixture(t))

	rec := get(h, "/?submitted=1&show=volume")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "vegaEmbed(")
	assert.Contains(t, body, "Please select at least one Ticker")
	assert.Contains(t, body, "No volume data to display")
	assert.Contains(t, body, `id="preview-volume"`)
	assert.NotContains(t, body, `id="preview-returns"`)
}

func TestIndex_MissingSnapshotHalts(t *testing.T) {
	cfg := writeFixture(t)
	require.NoError(t, os.Remove(cfg.Output.ReturnPath()))
	h := newTestServer(t, cfg)

	rec := get(h, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="load-error"`)
	assert.Contains(t, body, "agg3_simple_daily_return.parquet")
	assert.NotContains(t, body, "vegaEmbed(")
}

func TestAPI_Sectors(t *testing.T) {
	h := newTestServer(t, writeFixture(t))

	rec := get(h, "/api/sectors")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var resp OptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Options, 4)
	assert.Equal(t, []string{"energy", "finance", "technology"}, resp.Default)
}

func TestAPI_TickersAndSeries(t *testing.T) {
	h := newTestServer(t, writeFixture(t))

	rec := get(h, "/api/tickers?sector=energy")
	require.Equal(t, http.StatusOK, rec.Code)
	var tickers OptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tickers))
	assert.Equal(t, []string{"cvx", "xom"}, tickers.Options)

	rec = get(h, "/api/daily-close?ticker=cvx")
	require.Equal(t, http.StatusOK, rec.Code)
	var points []DailyClosePoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 3)
	assert.Equal(t, "2024-02-01", *points[0].TradeDate)

	rec = get(h, "/api/returns?ticker=cvx&ticker=xom")
	require.Equal(t, http.StatusOK, rec.Code)
	var returns []ReturnPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &returns))
	assert.Len(t, returns, 4)

	rec = get(h, "/api/volume")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestAPI_Preview(t *testing.T) {
	h := newTestServer(t, writeFixture(t))

	rec := get(h, "/api/preview/volume")
	require.Equal(t, http.StatusOK, rec.Code)
	var preview Preview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
	assert.Equal(t, []string{"sector", "avg_volume"}, preview.Columns)

	rec = get(h, "/api/preview/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_MissingSnapshot(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	h := newTestServer(t, &cfg)

	rec := get(h, "/api/sectors")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "snapshot unavailable")
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, writeFixture(t))
	rec := get(h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestIndex_TemplateFailureWritesNoPartialPage(t *testing.T) {
	srv, err := NewServer(writeFixture(t), testLogger())
	require.NoError(t, err)
	srv.page = template.Must(template.New("index.html").Parse(`<p>rendered-prefix</p>{{template "missing"}}`))

	rec := get(srv.Routes(), "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "rendered-prefix")
}
