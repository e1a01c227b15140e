package form

import "strings"

// Dotted field names address nested values ("contact.whatsapp"). All path
// resolution lives here; Value and SetValue both go through these walkers so
// the two sides can never disagree about path semantics.

func splitPath(name string) []string {
	return strings.Split(name, ".")
}

// Lookup resolves a field name against a value bag from either shape: a flat
// key that happens to contain dots, or a nested bag addressed dot by dot. The
// flat key wins when both are present. Renderers use this so prefilled values
// reach dotted fields no matter how the caller built the bag.
func Lookup(values map[string]any, name string) (any, bool) {
	if value, ok := values[name]; ok {
		return value, true
	}
	return getPath(values, splitPath(name))
}

// getPath walks the bag segment by segment. Any absent or non-map segment
// along the way means the value is simply not there.
func getPath(bag map[string]any, segments []string) (any, bool) {
	current := bag
	for i, segment := range segments {
		value, ok := current[segment]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		next, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// setPath sets the leaf, lazily creating intermediate maps. An intermediate
// that exists with a non-map value is replaced; the leaf write wins.
func setPath(bag map[string]any, segments []string, value any) {
	current := bag
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

// deletePath removes the leaf if the full path resolves.
func deletePath(bag map[string]any, segments []string) {
	current := bag
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			return
		}
		current = next
	}
	delete(current, segments[len(segments)-1])
}
