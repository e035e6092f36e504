// Package inspect serves read-only views of the current engine over HTTP.
//
//	GET /values/{type}/{name}?mode=first_set,exclude_extra
//	GET /types
//	GET /healthz
//
// Values are rendered as JSON with map order kept. NewModule runs the handler
// on its own listener inside an fx application.
package inspect
