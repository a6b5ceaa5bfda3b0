// Package resolve turns raw game titles into resolved catalog entries.
// It contains the catalog query strategy (prefix widening with a
// bounded-scan fallback), the serialized session manager with
// stamp-and-check cancellation, the per-candidate state machine, and
// the correction flow for no-match and error outcomes.
package resolve
