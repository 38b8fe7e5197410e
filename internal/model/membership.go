package model

// UnionIDs returns existing followed by every candidate not already present, without
// duplicates. The order of first appearance is kept.
func UnionIDs(existing, candidates []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	out := make([]string, 0, len(existing)+len(candidates))
	for _, list := range [][]string{existing, candidates} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// RemoveID returns ids without any occurrence of id.
func RemoveID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ContainsID reports whether id is in ids.
func ContainsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// DistinctIDs returns the ids with duplicates removed, in order of first appearance.
func DistinctIDs(ids []string) []string {
	return UnionIDs(nil, ids)
}
