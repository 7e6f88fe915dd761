// Package importer loads a built snapshot into the target database engines.
//
// One adapter exists per engine: MySQL (GORM batch inserts), PostgreSQL
// (pgx CopyFrom bulk loads) and MongoDB (InsertMany per collection). Every
// adapter implements the Importer interface and produces a timed Result so
// runs can be compared across engines.
//
// Because every engine receives the same snapshot, the deterministic
// dimension IDs are identical everywhere. VerifyDimensionIDs exploits that:
// it fetches the first developers by ID from each configured engine and
// fails when any engine disagrees.
package importer
