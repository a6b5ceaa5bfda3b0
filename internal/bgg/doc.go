// Package bgg provides a minimal BoardGameGeek XML API2 client used to
// enrich matched catalog entries with display details.
package bgg
