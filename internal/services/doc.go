// Package services defines the error taxonomy shared by the catalog store,
// the enrichment client, and the resolution pipeline. Failures are tagged
// with a sentinel marker so the job boundary can classify them into candidate
// state without inspecting message text.
package services
