package textutil

import "strings"

// PrefixUpperBound is appended to a normalized prefix to form the exclusive
// upper bound of a lexicographic range query. U+F8FF sorts after every string
// that shares the prefix in the store's ordering.
const PrefixUpperBound = "\uf8ff"

// NormalizeName lowercases a title, trims it, and collapses internal runs of
// whitespace to single spaces. This is the projection stored in the catalog's
// name_normalized column and the form all matching operates on.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// StripWhitespace removes all whitespace from an already-normalized string so
// that "small world" and "smallworld" compare equal.
func StripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// FirstWord returns the first whitespace-delimited word of a normalized
// query, or the empty string when there is none.
func FirstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// WordCount reports the number of whitespace-delimited words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
