package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonwraymond/docsearch/discovery"
	"github.com/jonwraymond/docsearch/index"
	"github.com/jonwraymond/docsearch/render"
	"github.com/jonwraymond/docsearch/symboldoc"
)

// LookupResponse is one page of lookup results.
type LookupResponse struct {
	Query      string         `json:"query"`
	Mode       discovery.Mode `json:"mode"`
	Symbols    []index.Entry  `json:"symbols"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// RankResponse holds ranked results.
type RankResponse struct {
	Query   string            `json:"query"`
	Results discovery.Results `json:"results"`
}

// TargetsResponse lists the targets of one label.
type TargetsResponse struct {
	Label   string         `json:"label"`
	Targets []index.Target `json:"targets"`
	URLs    []string       `json:"urls"`
}

// parseLimit reads the limit query parameter and clamps it.
func (api *API) parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return api.limits.ClampLimit(0), true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		SendInvalidQueryError(c, "limit must be a non-negative integer")
		return 0, false
	}
	return api.limits.ClampLimit(n), true
}

// LookupHandler returns entries whose label matches q, one page at a time.
func (api *API) LookupHandler(c *gin.Context) {
	mode, err := discovery.ParseMode(c.Query("mode"))
	if err != nil {
		SendInvalidQueryError(c, err.Error())
		return
	}
	limit, ok := api.parseLimit(c)
	if !ok {
		return
	}

	q := c.Query("q")
	entries, next, err := api.disc.LookupPage(q, mode, limit, c.Query("cursor"))
	api.observe(opLookup, len(entries), err)
	if err != nil {
		SendDiscoveryError(c, err)
		return
	}
	c.JSON(http.StatusOK, LookupResponse{
		Query:      q,
		Mode:       mode,
		Symbols:    entries,
		NextCursor: next,
	})
}

// RankHandler returns entries ordered by relevance, optionally restricted to
// one scope.
func (api *API) RankHandler(c *gin.Context) {
	limit, ok := api.parseLimit(c)
	if !ok {
		return
	}

	q := c.Query("q")
	results, err := api.disc.RankInScope(q, c.Query("scope"), limit)
	api.observe(opRank, len(results), err)
	if err != nil {
		SendDiscoveryError(c, err)
		return
	}
	if results == nil {
		results = discovery.Results{}
	}
	c.JSON(http.StatusOK, RankResponse{Query: q, Results: results})
}

// DescribeHandler documents one label. The detail parameter defaults to
// full.
func (api *API) DescribeHandler(c *gin.Context) {
	detail := c.DefaultQuery("detail", string(symboldoc.DetailFull))
	level, err := symboldoc.ParseDetailLevel(detail)
	if err != nil {
		SendDiscoveryError(c, err)
		return
	}

	doc, err := api.disc.Describe(c.Param("label"), level)
	api.observe(opDescribe, doc.Overloads, err)
	if err != nil {
		SendDiscoveryError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// TargetsHandler lists the targets of one label with resolved URLs.
func (api *API) TargetsHandler(c *gin.Context) {
	label := c.Param("label")
	e, err := api.disc.Get(label)
	api.observe(opTargets, len(e.Targets), err)
	if err != nil {
		SendDiscoveryError(c, err)
		return
	}
	urls, err := symboldoc.ResolveURLs(api.disc.BaseURL(), e.Targets)
	if err != nil {
		SendDiscoveryError(c, err)
		return
	}
	c.JSON(http.StatusOK, TargetsResponse{Label: label, Targets: e.Targets, URLs: urls})
}

// SearchPageHandler renders the result rows for q as HTML.
func (api *API) SearchPageHandler(c *gin.Context) {
	q := c.Query("q")
	var buf bytes.Buffer

	entries, err := api.disc.Lookup(q)
	api.observe(opHTML, len(entries), err)
	if err != nil {
		if err := render.Disabled(&buf, q); err != nil {
			SendDiscoveryError(c, err)
			return
		}
		c.Data(http.StatusServiceUnavailable, "text/html; charset=utf-8", buf.Bytes())
		return
	}

	rows, err := render.Rows(entries, api.disc.BaseURL())
	if err == nil {
		err = render.HTML(&buf, q, rows)
	}
	if err != nil {
		SendDiscoveryError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
