package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/docsearch/discovery"
	"github.com/jonwraymond/docsearch/symboldoc"
)

const fixtureDir = "../searchdata/testdata/search"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDiscovery(t *testing.T, dir string, load bool) *discovery.Discovery {
	t.Helper()
	disc, err := discovery.New(discovery.Options{
		Dir:     dir,
		BaseURL: "https://docs.example.com/html",
		Logger:  quietLogger(),
	})
	if err != nil {
		t.Fatalf("discovery.New failed: %v", err)
	}
	t.Cleanup(func() { _ = disc.Close() })
	if load {
		if err := disc.Load(context.Background()); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	return disc
}

type recordingObserver struct {
	mu    sync.Mutex
	calls map[string]int
	fails map[string]int
}

func (o *recordingObserver) ObserveToolCall(tool string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = map[string]int{}
		o.fails = map[string]int{}
	}
	o.calls[tool]++
	if err != nil {
		o.fails[tool]++
	}
}

// connect starts s on an in-memory transport and returns a client session.
func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := s.MCP().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s) failed: %v", name, err)
	}
	return res
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool returned error: %s", errorText(res))
	}
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}

func errorText(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func labelsOf(symbols []SymbolSummary) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = s.Label
	}
	return out
}

func TestListTools(t *testing.T) {
	session := connect(t, New(newDiscovery(t, fixtureDir, true), Config{Logger: quietLogger()}))

	res, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		if tool.InputSchema == nil {
			t.Errorf("tool %s has no input schema", tool.Name)
		}
	}
	slices.Sort(names)
	want := []string{ToolDescribeSymbol, ToolLookupSymbols, ToolSearchSymbols, ToolSymbolTargets}
	if !slices.Equal(names, want) {
		t.Errorf("tools = %v, want %v", names, want)
	}
}

func TestLookupSymbols(t *testing.T) {
	session := connect(t, New(newDiscovery(t, fixtureDir, true), Config{Logger: quietLogger()}))

	out := decode[LookupResult](t, callTool(t, session, ToolLookupSymbols, map[string]any{"query": "getname"}))
	if !slices.Equal(labelsOf(out.Symbols), []string{"getname"}) {
		t.Fatalf("symbols = %v", labelsOf(out.Symbols))
	}
	if out.Symbols[0].Name != "getName" || out.Symbols[0].Overloads != 5 {
		t.Errorf("unexpected summary %+v", out.Symbols[0])
	}
	if out.NextCursor != "" {
		t.Errorf("unexpected cursor %q", out.NextCursor)
	}
}

func TestLookupSymbols_Paging(t *testing.T) {
	disc := newDiscovery(t, fixtureDir, true)
	session := connect(t, New(disc, Config{Logger: quietLogger()}))

	want, _ := disc.Lookup("get")
	var got []string
	cursor := ""
	for {
		args := map[string]any{"query": "get", "limit": 8}
		if cursor != "" {
			args["cursor"] = cursor
		}
		out := decode[LookupResult](t, callTool(t, session, ToolLookupSymbols, args))
		got = append(got, labelsOf(out.Symbols)...)
		if out.NextCursor == "" {
			break
		}
		cursor = out.NextCursor
	}
	if len(got) != len(want) {
		t.Errorf("paged %d symbols, want %d", len(got), len(want))
	}
}

func TestLookupSymbols_IDMode(t *testing.T) {
	session := connect(t, New(newDiscovery(t, fixtureDir, true), Config{Logger: quietLogger()}))

	out := decode[LookupResult](t, callTool(t, session, ToolLookupSymbols, map[string]any{"query": "operator="}))
	if len(out.Symbols) != 0 {
		t.Errorf("substring mode symbols = %v, want none", labelsOf(out.Symbols))
	}

	out = decode[LookupResult](t, callTool(t, session, ToolLookupSymbols, map[string]any{"query": "operator=", "mode": "id"}))
	if !slices.Equal(labelsOf(out.Symbols), []string{"operator_3d"}) {
		t.Errorf("id mode symbols = %v", labelsOf(out.Symbols))
	}
}

func TestLookupSymbols_PrefixMode(t *testing.T) {
	session := connect(t, New(newDiscovery(t, fixtureDir, true), Config{Logger: quietLogger()}))

	out := decode[LookupResult](t, callTool(t, session, ToolLookupSymbols, map[string]any{"query": "operator", "mode": "prefix"}))
	if !slices.Equal(labelsOf(out.Symbols), []string{"operator_3d", "operator_3c"}) {
		t.Errorf("symbols = %v", labelsOf(out.Symbols))
	}

	res := callTool(t, session, ToolLookupSymbols, map[string]any{"query": "get", "mode": "fuzzy"})
	if !res.IsError || !strings.Contains(errorText(res), "invalid arguments") {
		t.Errorf("expected invalid mode error, got %+v", res)
	}
}

func TestSymbolTargets(t *testing.T) {
	session := connect(t, New(newDiscovery(t, fixtureDir, true), Config{Logger: quietLogger()}))

	out := decode[TargetsResult](t, callTool(t, session, ToolSymbolTargets, map[string]any{"label": "getname"}))
	if len(out.Targets) != 5 || len(out.URLs) != 5 {
		t.Fatalf("unexpected result %+v", out)
	}
	if out.Targets[1].Display != "AWE::JSONPlayer::getName()" {
		t.Errorf("targets out of order: %+v", out.Targets)
	}
	if !strings.HasPrefix(out.URLs[0], "https://docs.example.com/html/class_a_w_e_1_1_media_item.html#") {
		t.Errorf("URLs[0] = %q", out.URLs[0])
	}

	res := callTool(t, session, ToolSymbolTargets, map[string]any{"label": "nosuchsymbol"})
	if !res.IsError || !strings.Contains(errorText(res), "symbol not found") {
		t.Errorf("expected not found error, got %+v", res)
	}
}

func TestSearchSymbols(t *testing.T) {
	session := connect(t, New(newDiscovery(t, fixtureDir, true), Config{Logger: quietLogger()}))

	out := decode[SearchResult](t, callTool(t, session, ToolSearchSymbols, map[string]any{"query": "getName", "limit": 3}))
	if len(out.Symbols) == 0 || out.Symbols[0].Label != "getname" || out.Symbols[0].Rank != 1 {
		t.Errorf("unexpected results %+v", out.Symbols)
	}
	if len(out.Symbols) > 3 {
		t.Errorf("limit not applied: %d results", len(out.Symbols))
	}
}

func TestDescribeSymbol(t *testing.T) {
	session := connect(t, New(newDiscovery(t, fixtureDir, true), Config{Logger: quietLogger()}))

	summary := decode[symboldoc.SymbolDoc](t, callTool(t, session, ToolDescribeSymbol, map[string]any{"label": "getname"}))
	if summary.Level != symboldoc.DetailSummary || summary.Overloads != 5 || summary.Targets != nil {
		t.Errorf("unexpected summary %+v", summary)
	}

	full := decode[symboldoc.SymbolDoc](t, callTool(t, session, ToolDescribeSymbol, map[string]any{"label": "getmember", "detail": "full"}))
	if len(full.Signatures) != 2 || full.Signatures[0].Member != "getMember" || full.Signatures[0].Qualifiers != "const" {
		t.Errorf("unexpected signatures %+v", full.Signatures)
	}

	res := callTool(t, session, ToolDescribeSymbol, map[string]any{"label": "getname", "detail": "schema"})
	if !res.IsError || !strings.Contains(errorText(res), "invalid detail level") {
		t.Errorf("expected invalid detail error, got %+v", res)
	}
}

func TestTools_DisabledIndex(t *testing.T) {
	obs := &recordingObserver{}
	disc := newDiscovery(t, filepath.Join(t.TempDir(), "missing"), false)
	_ = disc.Load(context.Background())
	session := connect(t, New(disc, Config{Logger: quietLogger(), Observer: obs}))

	for _, tc := range []struct {
		tool string
		args map[string]any
	}{
		{ToolLookupSymbols, map[string]any{"query": "get"}},
		{ToolSymbolTargets, map[string]any{"label": "getname"}},
		{ToolSearchSymbols, map[string]any{"query": "get"}},
		{ToolDescribeSymbol, map[string]any{"label": "getname"}},
	} {
		res := callTool(t, session, tc.tool, tc.args)
		if !res.IsError || !strings.Contains(errorText(res), "search is disabled") {
			t.Errorf("%s: expected disabled error, got %+v", tc.tool, res)
		}
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()
	for _, tool := range []string{ToolLookupSymbols, ToolSymbolTargets, ToolSearchSymbols, ToolDescribeSymbol} {
		if obs.calls[tool] != 1 || obs.fails[tool] != 1 {
			t.Errorf("%s: calls=%d fails=%d", tool, obs.calls[tool], obs.fails[tool])
		}
	}
}

func TestHTTPHandler(t *testing.T) {
	s := New(newDiscovery(t, fixtureDir, true), Config{Logger: quietLogger()})
	srv := httptest.NewServer(s.HTTPHandler())
	defer srv.Close()

	ctx := context.Background()
	client := mcp.NewClient(&mcp.Implementation{Name: "http-client"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: srv.URL}, nil)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer session.Close()

	out := decode[LookupResult](t, callTool(t, session, ToolLookupSymbols, map[string]any{"query": "globalsettings"}))
	if !slices.Equal(labelsOf(out.Symbols), []string{"globalsettings"}) {
		t.Errorf("symbols = %v", labelsOf(out.Symbols))
	}
}

func TestClampLimit(t *testing.T) {
	s := New(newDiscovery(t, fixtureDir, false), Config{DefaultLimit: 10, MaxLimit: 50, Logger: quietLogger()})
	tests := map[int]int{0: 10, -1: 10, 5: 5, 50: 50, 500: 50}
	for in, want := range tests {
		if got := s.clampLimit(in); got != want {
			t.Errorf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
