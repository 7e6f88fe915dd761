// Package models defines the row types shared by the catalog loader, the
// normalization engine, and the per-engine importers.
//
// Three groups of types exist:
//   - Raw records (RawGame, RawReview, RawCompletionRecord): the three
//     datasets after parsing, before normalization. Embedded list/map
//     fields from the source CSVs are kept as Go slices and maps and
//     serialized as JSON columns on relational targets.
//   - Normalized entities: dimension tables (Developer, Publisher, Genre,
//     Category, Tag) and association tables (GameDeveloper, GamePublisher,
//     GameGenre, GameCategory, GameTag). Dimension IDs are deterministic
//     surrogate keys assigned by the normalize package.
//   - Derived entities: pre-computed aggregates (UserProfile,
//     GameReviewSummary, DeveloperStats) and the simulated
//     PriceHistoryPoint time series.
//
// Every struct carries gorm, json, and bson tags so the same value can be
// bulk-loaded into MySQL/PostgreSQL, serialized into the snapshot cache,
// and inserted into MongoDB without conversion layers.
package models
