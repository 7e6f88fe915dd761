// Package report exposes the latest built snapshot over HTTP.
//
// The endpoints are read-only: a summary with table counts and the
// data-quality report, and the five dimension tables by name. Both read
// from the snapshot store's latest marker, so the server never triggers a
// build itself.
package report
