package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/jonwraymond/docsearch/discovery"
	"github.com/jonwraymond/docsearch/internal/metrics"
	"github.com/jonwraymond/docsearch/symboldoc"
)

const fixtureDir = "../searchdata/testdata/search"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDiscovery(t *testing.T, dir string, load bool) *discovery.Discovery {
	t.Helper()
	disc, err := discovery.New(discovery.Options{
		Dir:     dir,
		BaseURL: "https://docs.example.com/html",
		Logger:  quietLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = disc.Close() })
	if load {
		require.NoError(t, disc.Load(context.Background()))
	}
	return disc
}

func setupTestRouter(disc *discovery.Discovery, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Options{
		Discovery: disc,
		Metrics:   m,
		MaxLimit:  50,
		Logger:    quietLogger(),
	})
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthHandler(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	w := get(t, router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string           `json:"status"`
		Index  discovery.Status `json:"index"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.Index.Enabled)
	assert.Equal(t, 34, body.Index.Entries)
	assert.NotEmpty(t, body.Index.Fingerprint)
}

func TestHealthHandler_Disabled(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, t.TempDir(), false), nil)

	w := get(t, router, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"disabled"`)
}

func TestLookupHandler(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	tests := []struct {
		name       string
		query      string
		wantLabels []string
	}{
		{
			name:       "substring",
			query:      "q=member",
			wantLabels: []string{"getboolmember", "getintmember", "getmember", "getmembernames", "getstringmember"},
		},
		{
			name:       "prefix",
			query:      "q=getm&mode=prefix",
			wantLabels: []string{"getmediafile", "getmediaitembyjsonfile", "getmediaservicebyname", "getmember", "getmembernames"},
		},
		{
			name:       "encoded operator",
			query:      "mode=id&q=" + url.QueryEscape("operator="),
			wantLabels: []string{"operator_3d"},
		},
		{
			name:       "operator text is not a label substring",
			query:      "q=" + url.QueryEscape("operator="),
			wantLabels: []string{},
		},
		{
			name:       "no match",
			query:      "q=nothinglikethis",
			wantLabels: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, router, "/v1/lookup?"+tt.query)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp LookupResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			labels := make([]string, len(resp.Symbols))
			for i, e := range resp.Symbols {
				labels[i] = e.Label
			}
			assert.Equal(t, tt.wantLabels, labels)
			assert.Empty(t, resp.NextCursor)
		})
	}
}

func TestLookupHandler_Paging(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	var labels []string
	target := "/v1/lookup?q=member&limit=2"
	for pages := 0; pages < 10; pages++ {
		w := get(t, router, target)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp LookupResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.LessOrEqual(t, len(resp.Symbols), 2)
		for _, e := range resp.Symbols {
			labels = append(labels, e.Label)
		}
		if resp.NextCursor == "" {
			break
		}
		target = "/v1/lookup?q=member&limit=2&cursor=" + url.QueryEscape(resp.NextCursor)
	}
	assert.Equal(t, []string{"getboolmember", "getintmember", "getmember", "getmembernames", "getstringmember"}, labels)
}

func TestLookupHandler_BadRequests(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	tests := []struct {
		name     string
		target   string
		wantCode ErrorCode
	}{
		{"bad limit", "/v1/lookup?q=get&limit=abc", ErrorCodeInvalidQuery},
		{"negative limit", "/v1/lookup?q=get&limit=-1", ErrorCodeInvalidQuery},
		{"bad mode", "/v1/lookup?q=get&mode=fuzzy", ErrorCodeInvalidQuery},
		{"bad cursor", "/v1/lookup?q=get&cursor=not-a-cursor", ErrorCodeInvalidCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, router, tt.target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestLookupHandler_Disabled(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, t.TempDir(), false), nil)

	w := get(t, router, "/v1/lookup?q=get")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, ErrorCodeSearchDisabled, body.Code)
	assert.NotEmpty(t, body.RequestID)
}

func TestParseLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := NewAPI(Options{DefaultLimit: 10, MaxLimit: 50})
	require.NotNil(t, api.log)

	tests := map[string]int{"": 10, "0": 10, "5": 5, "50": 50, "500": 50}
	for raw, want := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/v1/lookup?limit="+raw, nil)
		got, ok := api.parseLimit(c)
		require.True(t, ok, "limit=%q", raw)
		assert.Equal(t, want, got, "limit=%q", raw)
	}
}

func TestRankHandler(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	w := get(t, router, "/v1/rank?q=getName&limit=5")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RankResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.LessOrEqual(t, len(resp.Results), 5)
	assert.Equal(t, "getname", resp.Results[0].Entry.Label)
	assert.Equal(t, 1, resp.Results[0].Rank)
	assert.Equal(t, discovery.MatchRanked, resp.Results[0].MatchType)
}

func TestRankHandler_Scope(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	w := get(t, router, "/v1/rank?q=get&limit=50&scope="+url.QueryEscape("Json::Value"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RankResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, r := range resp.Results {
		assert.NotEqual(t, "getname", r.Entry.Label, "getName is not declared in Json::Value")
	}
}

func TestRankHandler_ScopeAppliesBeforeLimit(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)
	scope := "Json::Value"

	w := get(t, router, "/v1/rank?q=getName&limit=50")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var full RankResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &full))
	require.NotEmpty(t, full.Results)
	require.Empty(t, full.Results[:1].FilterByScope(scope), "top result must lie outside the scope")
	inScope := full.Results.FilterByScope(scope)
	require.NotEmpty(t, inScope)

	w = get(t, router, "/v1/rank?q=getName&limit=1&scope="+url.QueryEscape(scope))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp RankResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, inScope[0].Entry.Label, resp.Results[0].Entry.Label)
}

func TestDescribeHandler(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	w := get(t, router, "/v1/symbols/getmember")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc symboldoc.SymbolDoc
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "getMember", doc.Name)
	assert.Equal(t, symboldoc.DetailFull, doc.Level)
	assert.Equal(t, 2, doc.Overloads)
	assert.Equal(t, []string{"AWE::MediaItem"}, doc.Scopes)
	require.Len(t, doc.URLs, 2)
	assert.True(t, strings.HasPrefix(doc.URLs[0], "https://docs.example.com/html/class_a_w_e_1_1_media_item.html#"))
}

func TestDescribeHandler_Summary(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	w := get(t, router, "/v1/symbols/getname?detail=summary")
	require.Equal(t, http.StatusOK, w.Code)

	var doc symboldoc.SymbolDoc
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, symboldoc.DetailSummary, doc.Level)
	assert.Empty(t, doc.Targets)
	assert.Empty(t, doc.URLs)
}

func TestDescribeHandler_Errors(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	w := get(t, router, "/v1/symbols/getname?detail=everything")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorCodeInvalidDetail, decodeError(t, w).Code)

	w = get(t, router, "/v1/symbols/nosuchsymbol")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorCodeSymbolNotFound, decodeError(t, w).Code)
}

func TestTargetsHandler(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	w := get(t, router, "/v1/symbols/getname/targets")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp TargetsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "getname", resp.Label)
	require.Len(t, resp.Targets, 5)
	require.Len(t, resp.URLs, 5)
	assert.Equal(t, "AWE::MediaItem::getName()", resp.Targets[0].Display)
	assert.Equal(t, "https://docs.example.com/html/class_a_w_e_1_1_media_item.html#a20a3275880777c9c5338957ee5d2d1e1", resp.URLs[0])

	w = get(t, router, "/v1/symbols/unknown/targets")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchPageHandler(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	w := get(t, router, "/search?q=getmember")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, `id="SR_getmember"`)
	assert.Contains(t, body, `id="SR_getmembernames"`)
	assert.Contains(t, body, `target="_parent"`)

	w = get(t, router, "/search?q=nothinglikethis")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No Matches")
}

func TestSearchPageHandler_Disabled(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, t.TempDir(), false), nil)

	w := get(t, router, "/search?q=get")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Search unavailable")
}

func TestReloadHandler(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/reload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"changed":false`)
}

func TestReloadHandler_Failure(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, t.TempDir(), false), nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/reload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, ErrorCodeReloadFailed, decodeError(t, w).Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/symbols/unknown", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-123", decodeError(t, w).RequestID)

	w = get(t, router, "/health")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New(nil)
	router := setupTestRouter(setupTestDiscovery(t, fixtureDir, true), m)

	get(t, router, "/v1/symbols/getname")
	get(t, router, "/v1/symbols/unknown")
	get(t, router, "/v1/lookup?q=nothinglikethis")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/v1/symbols/:label", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/v1/symbols/:label", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues(opDescribe, metrics.ResultHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues(opDescribe, metrics.ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues(opLookup, metrics.ResultZero)))

	w := get(t, router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "docsearch_http_requests_total")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(Options{
		Discovery:   setupTestDiscovery(t, fixtureDir, true),
		RateLimiter: rate.NewLimiter(rate.Limit(0.001), 2),
		Logger:      quietLogger(),
	})

	assert.Equal(t, http.StatusOK, get(t, router, "/v1/symbols/getname").Code)
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/symbols/getname").Code)

	w := get(t, router, "/v1/symbols/getname")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, ErrorCodeRateLimited, decodeError(t, w).Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get(t, router, "/health").Code)
}

func TestMCPMount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	called := false
	router := NewRouter(Options{
		Discovery: setupTestDiscovery(t, fixtureDir, true),
		MCPHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusAccepted)
		}),
		MCPPath: "mcp/",
		Logger:  quietLogger(),
	})

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.True(t, called)
	assert.Equal(t, http.StatusAccepted, w.Code)
}
