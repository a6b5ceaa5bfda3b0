// Package recognizer defines the inbound contract for vision-model
// output: raw game titles with optional display metadata. The pipeline
// treats these as untrusted free text.
package recognizer

import "strings"

// RecognizedTitle is one raw title reported by the recognizer.
type RecognizedTitle struct {
	Title           string `json:"title"`
	ConfidenceLabel string `json:"confidence"`
	Notes           string `json:"notes"`
}

// CleanBatch trims titles, drops blanks, and removes duplicates while
// preserving the recognizer's reported order.
func CleanBatch(titles []RecognizedTitle) []RecognizedTitle {
	seen := make(map[string]struct{}, len(titles))
	out := make([]RecognizedTitle, 0, len(titles))
	for _, rt := range titles {
		rt.Title = strings.TrimSpace(rt.Title)
		if rt.Title == "" {
			continue
		}
		key := strings.ToLower(rt.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rt)
	}
	return out
}
