// Package middleware groups the HTTP middleware used by the report server.
//
// Each middleware lives in its own subpackage:
//
//   - rayid: assigns a unique ray ID to every request for tracing.
//   - auth: guards the API with a shared key from the server configuration.
package middleware
