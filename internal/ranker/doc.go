// Package ranker merges catalog query results into a single ordered
// candidate list using a four-tier match classification: exact,
// starts-with, contains, then fuzzy edit-distance matches.
package ranker
