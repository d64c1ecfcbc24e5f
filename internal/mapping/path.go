package mapping

import "strings"

// Get walks tree along the dot-separated path and returns the value at the
// final segment. The second return is false when the path is blank, any
// intermediate node is not a map, or any segment is missing — that is a
// valid "absent" outcome, not an error.
func Get(tree map[string]any, path string) (any, bool) {
	if tree == nil || strings.TrimSpace(path) == "" {
		return nil, false
	}
	segs := strings.Split(path, ".")
	cur := tree
	for i, seg := range segs {
		v, ok := cur[seg]
		if !ok {
			return nil, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// Set writes value at the dot-separated path, creating intermediate maps as
// needed. An intermediate key holding a non-map value is overwritten with a
// fresh map; provider payloads are always objects at intermediate levels,
// so the loss is intentional. A blank path is a no-op.
func Set(tree map[string]any, path string, value any) {
	if tree == nil || strings.TrimSpace(path) == "" {
		return
	}
	segs := strings.Split(path, ".")
	cur := tree
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = value
}
