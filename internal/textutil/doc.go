// Package textutil provides query and title normalization helpers shared by
// the catalog store, the ranker, and the resolution pipeline.
package textutil
