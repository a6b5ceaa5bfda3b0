// Package catalog persists the local read-only snapshot of the game
// catalog in SQLite and exposes the query primitives the resolution
// pipeline consumes: lexicographic range queries over a normalized name
// projection, a bounded unindexed scan, and id lookup.
package catalog
