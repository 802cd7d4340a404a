package models

import "strings"

// listSeparator joins ordered string sequences into a single storage blob.
// Provider data never contains it, and it survives round-trips unambiguously.
const listSeparator = "|"

// JoinList flattens an ordered sequence into the storage form.
// Empty entries are dropped; order is preserved.
func JoinList(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		cleaned = append(cleaned, v)
	}
	return strings.Join(cleaned, listSeparator)
}

// SplitList restores the ordered sequence from the storage form.
func SplitList(blob string) []string {
	if blob == "" {
		return nil
	}
	parts := strings.Split(blob, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
