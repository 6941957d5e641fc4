package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/docsearch/discovery"
	"github.com/jonwraymond/docsearch/index"
	"github.com/jonwraymond/docsearch/symboldoc"
)

// Tool names.
const (
	ToolLookupSymbols  = "lookup_symbols"
	ToolSymbolTargets  = "symbol_targets"
	ToolSearchSymbols  = "search_symbols"
	ToolDescribeSymbol = "describe_symbol"
)

// SymbolSummary is the compact form of an entry returned by list tools.
type SymbolSummary struct {
	Label     string `json:"label"`
	Name      string `json:"name"`
	Overloads int    `json:"overloads"`
	Rank      int    `json:"rank,omitempty"`
}

func summarize(e index.Entry) SymbolSummary {
	return SymbolSummary{Label: e.Label, Name: e.Name, Overloads: len(e.Targets)}
}

// LookupArgs are the lookup_symbols arguments.
type LookupArgs struct {
	Query  string `json:"query" jsonschema:"label fragment to look up, case-insensitive"`
	Mode   string `json:"mode,omitempty" jsonschema:"substring (default), prefix, or id to match an encoded symbol name such as operator="`
	Limit  int    `json:"limit,omitempty" jsonschema:"page size"`
	Cursor string `json:"cursor,omitempty" jsonschema:"next_cursor from a previous call"`
}

// LookupResult is the lookup_symbols result.
type LookupResult struct {
	Symbols    []SymbolSummary `json:"symbols"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// TargetsArgs are the symbol_targets arguments.
type TargetsArgs struct {
	Label string `json:"label" jsonschema:"symbol label as returned by lookup_symbols"`
}

// TargetsResult is the symbol_targets result.
type TargetsResult struct {
	Label   string         `json:"label"`
	Targets []index.Target `json:"targets"`
	URLs    []string       `json:"urls"`
}

// SearchArgs are the search_symbols arguments.
type SearchArgs struct {
	Query string `json:"query" jsonschema:"free text, e.g. a method name or words from it"`
	Scope string `json:"scope,omitempty" jsonschema:"keep only symbols declared in this scope, e.g. AWE::MediaItem"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

// SearchResult is the search_symbols result.
type SearchResult struct {
	Symbols []SymbolSummary `json:"symbols"`
}

// DescribeArgs are the describe_symbol arguments.
type DescribeArgs struct {
	Label  string `json:"label" jsonschema:"symbol label"`
	Detail string `json:"detail,omitempty" jsonschema:"summary (default), targets or full"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolLookupSymbols,
		Description: "Find documented symbols whose label contains (or starts with) the query. Results are in index order and paged with a cursor.",
	}, observed(s, ToolLookupSymbols, s.lookupSymbols))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSymbolTargets,
		Description: "List every documentation link for a symbol label in generation order, one per overload or definition.",
	}, observed(s, ToolSymbolTargets, s.symbolTargets))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSearchSymbols,
		Description: "Relevance-ranked search over symbol labels, names, camelCase words and qualified scopes.",
	}, observed(s, ToolSearchSymbols, s.searchSymbols))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolDescribeSymbol,
		Description: "Describe a symbol at summary, targets or full detail. Full detail adds parsed signatures and absolute URLs.",
	}, observed(s, ToolDescribeSymbol, s.describeSymbol))
}

// observed wraps a tool handler with metrics and logging.
func observed[In, Out any](s *Server, tool string, h mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		res, out, err := h(ctx, req, in)
		if s.observer != nil {
			s.observer.ObserveToolCall(tool, err)
		}
		if err != nil {
			s.log.Debug("tool call failed", "tool", tool, "error", err)
		}
		return res, out, err
	}
}

func (s *Server) lookupSymbols(_ context.Context, _ *mcp.CallToolRequest, args LookupArgs) (*mcp.CallToolResult, LookupResult, error) {
	mode, err := discovery.ParseMode(args.Mode)
	if err != nil {
		return nil, LookupResult{}, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	entries, next, err := s.disc.LookupPage(args.Query, mode, s.clampLimit(args.Limit), args.Cursor)
	if err != nil {
		return nil, LookupResult{}, err
	}
	out := LookupResult{Symbols: make([]SymbolSummary, len(entries)), NextCursor: next}
	for i, e := range entries {
		out.Symbols[i] = summarize(e)
	}
	return nil, out, nil
}

func (s *Server) symbolTargets(_ context.Context, _ *mcp.CallToolRequest, args TargetsArgs) (*mcp.CallToolResult, TargetsResult, error) {
	if strings.TrimSpace(args.Label) == "" {
		return nil, TargetsResult{}, fmt.Errorf("%w: label is required", ErrInvalidArguments)
	}
	e, err := s.disc.Get(args.Label)
	if err != nil {
		return nil, TargetsResult{}, err
	}
	urls, err := symboldoc.ResolveURLs(s.disc.BaseURL(), e.Targets)
	if err != nil {
		return nil, TargetsResult{}, err
	}
	return nil, TargetsResult{Label: e.Label, Targets: e.Targets, URLs: urls}, nil
}

func (s *Server) searchSymbols(_ context.Context, _ *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, SearchResult, error) {
	results, err := s.disc.RankInScope(args.Query, args.Scope, s.clampLimit(args.Limit))
	if err != nil {
		return nil, SearchResult{}, err
	}
	out := SearchResult{Symbols: make([]SymbolSummary, len(results))}
	for i, r := range results {
		out.Symbols[i] = summarize(r.Entry)
		out.Symbols[i].Rank = r.Rank
	}
	return nil, out, nil
}

func (s *Server) describeSymbol(_ context.Context, _ *mcp.CallToolRequest, args DescribeArgs) (*mcp.CallToolResult, symboldoc.SymbolDoc, error) {
	if strings.TrimSpace(args.Label) == "" {
		return nil, symboldoc.SymbolDoc{}, fmt.Errorf("%w: label is required", ErrInvalidArguments)
	}
	level, err := symboldoc.ParseDetailLevel(args.Detail)
	if err != nil {
		return nil, symboldoc.SymbolDoc{}, err
	}
	doc, err := s.disc.Describe(args.Label, level)
	if err != nil {
		return nil, symboldoc.SymbolDoc{}, err
	}
	return nil, doc, nil
}
