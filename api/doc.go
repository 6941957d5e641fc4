// Package api exposes a Discovery over HTTP with gin.
//
// Routes:
//
//	GET  /health                       index status, 503 while disabled
//	GET  /search?q=                    HTML result rows
//	GET  /v1/lookup?q=&mode=substring|prefix|id&limit=&cursor=
//	GET  /v1/rank?q=&limit=&scope=
//	GET  /v1/symbols/:label?detail=
//	GET  /v1/symbols/:label/targets
//	POST /v1/reload
//
// Errors use the envelope {"error":{"code","message","request_id"}}.
package api
