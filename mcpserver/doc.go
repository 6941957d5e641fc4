// Package mcpserver exposes a discovery.Discovery as MCP tools.
//
// Tools:
//   - lookup_symbols: substring or prefix lookup with cursor paging
//   - symbol_targets: the ordered link targets of one symbol
//   - search_symbols: relevance-ranked search
//   - describe_symbol: progressive documentation (summary, targets, full)
//
// The server runs over stdio with ServeStdio or over the streamable HTTP
// transport with HTTPHandler. Tool failures, including a disabled index,
// are reported as tool errors rather than protocol errors.
package mcpserver
