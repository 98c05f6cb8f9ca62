package domain

import "strings"

// NormalizeMemberIDs trims ids, drops empty ones and collapses duplicates,
// keeping the first occurrence of each id.
func NormalizeMemberIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// AppendMissing appends every id from incoming that is not already present
// in existing. The result never contains duplicates if existing had none.
func AppendMissing(existing, incoming []string) []string {
	present := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, id := range existing {
		present[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range incoming {
		if _, ok := present[id]; ok {
			continue
		}
		present[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
