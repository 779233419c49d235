package ports

// PatternMatcher finds keywords in content using multi-pattern matching (Aho-Corasick).
// A single pass over the content finds all matching keywords simultaneously,
// regardless of how many keywords are in the set. This is O(n + m + z) where
// n=content length, m=total pattern length, z=number of matches.
//
// The matcher must be rebuilt when the keyword set changes (e.g., after a
// dictionary reload). Rebuild is expected to be infrequent.
type PatternMatcher interface {
	// Match returns the distinct keywords found in content, in order of first
	// occurrence. Overlapping and nested keywords are all reported. Returns
	// nil if no keywords match.
	Match(content string) []string

	// Rebuild replaces the entire keyword set.
	// Previous keywords are discarded. Returns an error if the keyword set
	// is invalid (e.g., empty keyword string).
	Rebuild(keywords []string) error
}
