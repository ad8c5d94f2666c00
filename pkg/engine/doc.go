// Package engine provides the pokedex HTTP engine.
//
// Handler is the request dispatcher. It matches the fixed route table,
// enforces per-route methods, decodes request bodies and maps catalog
// results onto status codes. Server wraps a Handler in the request id,
// access log and metrics middleware and manages the listener lifecycle.
//
// # Routes
//
//	GET|HEAD  /pokemon               filtered collection (?type=, ?weakness=)
//	GET|HEAD  /pokemon/{id}          single record
//	GET|HEAD  /pokemon/types         distinct types
//	GET|HEAD  /pokemon/weaknesses    distinct weaknesses
//	POST      /addPokemon            append a record
//	POST|PUT  /editPokemon           replace a record by id
//	GET|HEAD  /openapi.json          API description
//	GET|HEAD  /metrics               Prometheus exposition
//	GET|HEAD  /healthz               liveness probe
//	GET|HEAD  /, /client.html, /style.css, /client.js, /docs.html
//
// Known paths answer other methods with 405 and an Allow header. Unknown
// paths get a 404 whose body format follows the Accept header.
package engine
