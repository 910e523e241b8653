package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqarna-listings/internal/catalog"
	"aqarna-listings/internal/common/config"
	apperrors "aqarna-listings/internal/common/errors"
	"aqarna-listings/internal/common/logger"
	"aqarna-listings/internal/geo"
	"aqarna-listings/internal/geodata"
	"aqarna-listings/internal/i18n"
	"aqarna-listings/internal/lead"
	"aqarna-listings/internal/listings/page"
	"aqarna-listings/internal/listings/selection"
	"aqarna-listings/internal/listings/session"
)

// ===== Test Helper Functions =====

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Environment = "development"
	cfg.Session.CookieName = "aqarna_sid"
	cfg.Session.TTL = 3600
	cfg.I18n.CookieName = "aqarna_lang"
	cfg.I18n.DefaultLanguage = "en"
	cfg.Leads.Provider = config.ProviderLog
	cfg.Leads.FromEmail = config.DefaultFromEmail
	cfg.Observability.MetricsPath = "/metrics"
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	return cfg
}

type testClient struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T, health func(context.Context) error) *testClient {
	t.Helper()
	cfg := testConfig()
	log := logger.NewTestLogger(t)

	cat, err := catalog.Default()
	require.NoError(t, err)
	idx := geodata.Default()
	deps := page.Dependencies{Catalog: cat, Geo: idx, Validator: geo.NewValidator(logger.NewNoOpLogger()), Diag: logger.NewNoOpLogger()}

	leadService := lead.NewService(lead.ServiceDependencies{Govs: idx, Logger: log}, cfg.Leads, false)

	router := NewRouter(Dependencies{
		Config:      cfg,
		Logger:      log,
		Catalog:     cat,
		Geo:         idx,
		Sessions:    session.NewManager(session.NewMemoryStore(time.Hour), deps, log),
		Preferences: i18n.NewMemoryPreferences(time.Hour),
		Leads:       lead.NewHandler(leadService, apperrors.NewErrorHandler(log)),
		Health:      health,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{t: t, srv: srv, client: &http.Client{Jar: jar}}
}

func (c *testClient) do(method, path, body string, headers ...string) *http.Response {
	c.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.srv.URL+path, rd)
	require.NoError(c.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (c *testClient) view(method, path, body string, headers ...string) page.View {
	c.t.Helper()
	resp := c.do(method, path, body, headers...)
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	var v page.View
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func cardIDs(v page.View) []string {
	out := make([]string, 0, len(v.Properties))
	for _, c := range v.Properties {
		out = append(out, c.ID)
	}
	return out
}

// ===== Listings flow =====

func TestListings_URLInitAndCascade(t *testing.T) {
	c := newTestServer(t, nil)

	v := c.view(http.MethodPost, "/api/listings/load?type=rent&propertyType=villa_floor", "")
	assert.Equal(t, []string{"11", "13"}, cardIDs(v))
	assert.Equal(t, catalog.Rent, v.Filter.TransactionType)

	v = c.view(http.MethodPatch, "/api/listings/filters", `{"propertyType":null}`)
	assert.Equal(t, 7, v.Count)

	v = c.view(http.MethodPost, "/api/listings/governorates/capital/toggle", "")
	assert.Equal(t, []string{"13", "14", "15"}, cardIDs(v))
	require.Len(t, v.AvailableAreas, 4)

	v = c.view(http.MethodPost, "/api/listings/areas/dasma/toggle", "")
	assert.Equal(t, []string{"15"}, cardIDs(v))
	assert.Equal(t, 2, v.ActiveFilterCount)

	v = c.view(http.MethodPost, "/api/listings/governorates/capital/toggle", "")
	assert.Empty(t, v.Filter.AreaIDs, "deselecting a governorate drops its areas")
	assert.Empty(t, v.AvailableAreas)
	assert.Equal(t, 7, v.Count)

	v = c.view(http.MethodPost, "/api/listings/load?type=buy", "")
	assert.Equal(t, 9, v.Count, "a new page lifetime applies the URL again")
}

func TestListings_Filters(t *testing.T) {
	c := newTestServer(t, nil)
	c.view(http.MethodPost, "/api/listings/load", "")

	v := c.view(http.MethodPost, "/api/listings/transaction-type", `{"type":"rent"}`)
	assert.Equal(t, 7, v.Count)

	v = c.view(http.MethodPatch, "/api/listings/filters", `{"maxPrice":700,"query":"apartment"}`)
	assert.Equal(t, []string{"9", "12", "14"}, cardIDs(v))

	v = c.view(http.MethodPatch, "/api/listings/filters", `{"maxPrice":null}`)
	assert.Nil(t, v.Filter.MaxPrice)
	assert.Equal(t, "apartment", v.Filter.Query)

	v = c.view(http.MethodPatch, "/api/listings/filters", `{"query":"zzz"}`)
	assert.True(t, v.SuggestBuy)

	v = c.view(http.MethodPost, "/api/listings/clear?scope=buy", "")
	assert.Equal(t, catalog.Buy, v.Filter.TransactionType)

	v = c.view(http.MethodPost, "/api/listings/clear?scope=all", "")
	assert.Equal(t, 9, v.Count)
	assert.Empty(t, v.Filter.Query)
}

func TestListings_Rejections(t *testing.T) {
	c := newTestServer(t, nil)
	c.view(http.MethodPost, "/api/listings/load", "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"bad transaction type", http.MethodPost, "/api/listings/transaction-type", `{"type":"lease"}`, http.StatusBadRequest},
		{"bad scope", http.MethodPost, "/api/listings/clear?scope=everything", "", http.StatusBadRequest},
		{"bad view", http.MethodPost, "/api/listings/view", `{"view":"grid"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPatch, "/api/listings/filters", `{`, http.StatusBadRequest},
		{"fractional beds", http.MethodPatch, "/api/listings/filters", `{"bedsMin":1.5}`, http.StatusBadRequest},
		{"huge beds", http.MethodPatch, "/api/listings/filters", `{"bedsMin":1e20}`, http.StatusBadRequest},
		{"huge negative baths", http.MethodPatch, "/api/listings/filters", `{"bathsMin":-1e20}`, http.StatusBadRequest},
		{"bad precision", http.MethodGet, "/api/listings/map?precision=12", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decodeMap(t, resp)
			assert.Equal(t, false, body["ok"])
		})
	}

	v := c.view(http.MethodGet, "/api/listings", "")
	assert.Equal(t, catalog.Buy, v.Filter.TransactionType, "rejected events leave the page untouched")
	assert.Nil(t, v.Filter.BedsMin)
	assert.Nil(t, v.Filter.BathsMin)
}

func TestListings_SelectionAndETag(t *testing.T) {
	c := newTestServer(t, nil)
	c.view(http.MethodPost, "/api/listings/load", "", "X-Interaction-Mode", "touch")

	v := c.view(http.MethodPost, "/api/listings/view", `{"view":"map"}`)
	assert.Equal(t, selection.TouchPrimary, v.Mode)

	v = c.view(http.MethodPost, "/api/listings/select", `{"propertyId":"2"}`)
	assert.Equal(t, []page.Effect{{Action: page.ActionRailSync, PropertyID: "2"}}, v.Effects)
	require.NotNil(t, v.Focus)

	v = c.view(http.MethodPost, "/api/listings/hover", `{"propertyId":"3"}`)
	assert.Empty(t, v.Selection.HoveredID, "touch pages ignore hover")

	resp := c.do(http.MethodGet, "/api/listings", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tag := resp.Header.Get("ETag")
	require.NotEmpty(t, tag)

	resp = c.do(http.MethodGet, "/api/listings", "", "If-None-Match", tag)
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	c.view(http.MethodPost, "/api/listings/select", `{"propertyId":"8"}`)
	resp = c.do(http.MethodGet, "/api/listings", "", "If-None-Match", tag)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after page.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&after))
	assert.Nil(t, after.Focus, "invalid coordinates are never focused")

	v = c.view(http.MethodPost, "/api/listings/select", `{}`)
	assert.Empty(t, v.Selection.SelectedID)
}

func TestListings_MapView(t *testing.T) {
	c := newTestServer(t, nil)
	c.view(http.MethodPost, "/api/listings/load", "")

	resp := c.do(http.MethodGet, "/api/listings/map?precision=5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mv page.MapView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&mv))
	assert.Len(t, mv.Markers, 7)
	assert.Equal(t, geo.DefaultZoom, mv.Zoom)
	assert.NotEmpty(t, mv.Clusters)

	resp = c.do(http.MethodGet, "/api/listings/map?precision=5", "", "If-None-Match", resp.Header.Get("ETag"))
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
}

// ===== Language =====

func TestLanguage_NegotiationAndCookie(t *testing.T) {
	c := newTestServer(t, nil)

	v := c.view(http.MethodPost, "/api/listings/load", "", "Accept-Language", "ar-KW,ar;q=0.9,en;q=0.5")
	assert.Equal(t, i18n.Arabic, v.Language)
	assert.Equal(t, "rtl", v.Dir)

	resp := c.do(http.MethodPost, "/api/language", `{"lang":"en"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var langCookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "aqarna_lang" {
			langCookie = ck
		}
	}
	require.NotNil(t, langCookie)
	assert.Equal(t, "en", langCookie.Value)
	assert.Equal(t, 31536000, langCookie.MaxAge)

	v = c.view(http.MethodGet, "/api/listings", "", "Accept-Language", "ar")
	assert.Equal(t, i18n.English, v.Language, "the cookie wins over Accept-Language")

	resp = c.do(http.MethodPost, "/api/language", `{"lang":"fr"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLanguageMiddleware_PreferencesExpire(t *testing.T) {
	prefs := i18n.NewMemoryPreferences(20 * time.Millisecond)
	handler := SessionMiddleware(session.Cookie{Name: "aqarna_sid"})(
		LanguageMiddleware(i18n.NewCookieStore("aqarna_lang"), prefs, i18n.English)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }),
		),
	)

	for i := 0; i < 500; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	require.Equal(t, 500, prefs.Len(), "each cookieless request is a new session")

	assert.Eventually(t, func() bool {
		prefs.Sweep()
		return prefs.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestDictionary(t *testing.T) {
	c := newTestServer(t, nil)

	resp := c.do(http.MethodGet, "/api/i18n/ar", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, "rtl", body["dir"])
	strs := body["strings"].(map[string]interface{})
	assert.Equal(t, "/شهر", strs["month"])

	resp = c.do(http.MethodGet, "/api/i18n/de", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ===== Reference data =====

func TestGovernorates(t *testing.T) {
	c := newTestServer(t, nil)
	resp := c.do(http.MethodGet, "/api/geo/governorates", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var govs []governorateDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&govs))
	require.Len(t, govs, 6)
	assert.Equal(t, "capital", govs[0].ID)
	assert.Equal(t, "kuwaitCity", govs[0].Areas[0].ID)
}

func TestPropertyDetail(t *testing.T) {
	c := newTestServer(t, nil)

	resp := c.do(http.MethodGet, "/api/properties/10", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var d propertyDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.Equal(t, "KWD 2,200 /month", d.PriceLabel)
	assert.True(t, d.Mappable)
	assert.NotEmpty(t, d.AreaName)
	require.NotNil(t, d.DistanceKm)
	assert.Less(t, *d.DistanceKm, 100.0)

	resp = c.do(http.MethodGet, "/api/properties/8", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d = propertyDetail{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.False(t, d.Mappable)
	assert.Nil(t, d.Coordinates)
	assert.Nil(t, d.DistanceKm)
	assert.Equal(t, i18n.T("locationNotAvailable", i18n.English), d.LocationLabel)

	resp = c.do(http.MethodGet, "/api/properties/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Property not found", decodeMap(t, resp)["error"])
}

// ===== Leads and health =====

func TestListProperty_DevelopmentMode(t *testing.T) {
	c := newTestServer(t, nil)
	body := `{"fullName":"Sara","phone":"55551234","purpose":"rent","propertyType":"apartment",
		"governorate":"hawalli","area":"Salmiya","price":650,"lat":29.3365,"lng":48.075}`

	resp := c.do(http.MethodPost, "/api/list-property", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeMap(t, resp)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "log", out["mode"])

	resp = c.do(http.MethodPost, "/api/list-property", `{"fullName":"Sara"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Phone is required", decodeMap(t, resp)["error"])
}

func TestHealthz(t *testing.T) {
	c := newTestServer(t, nil)
	resp := c.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	c = newTestServer(t, func(context.Context) error { return errors.New("redis down") })
	resp = c.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	c := newTestServer(t, nil)
	c.view(http.MethodPost, "/api/listings/load", "")

	resp := c.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "aqarna_http_requests_total")
}

// ===== Interaction mode =====

func TestInteractionMode(t *testing.T) {
	tests := []struct {
		name   string
		header string
		ua     string
		want   selection.InteractionMode
	}{
		{"header wins", "pointer", "Mozilla/5.0 (iPhone)", selection.PointerHover},
		{"touch header", "Touch", "", selection.TouchPrimary},
		{"mobile user agent", "", "Mozilla/5.0 (Linux; Android 14) Mobile", selection.TouchPrimary},
		{"desktop", "", "Mozilla/5.0 (X11; Linux x86_64)", selection.PointerHover},
		{"invalid header falls back", "stylus", "", selection.PointerHover},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("X-Interaction-Mode", tt.header)
			r.Header.Set("User-Agent", tt.ua)
			assert.Equal(t, tt.want, InteractionMode(r))
		})
	}
}
