// Package database handles connections to the import target stores.
//
// Three targets are supported, one connector each:
//   - Connect: MySQL via GORM, used by the relational batch importer
//   - ConnectPostgres: PostgreSQL via pgx, used for COPY-based bulk loads
//   - ConnectMongo: MongoDB via the official driver
//
// All connectors verify the connection with a bounded ping before
// returning, so importers can assume a live target.
package database
