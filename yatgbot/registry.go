package yatgbot

// registry resolves the handler for a routing key of one kind.
type registry interface {
	add(pattern Pattern, handler Handler)
	resolve(key string) (Handler, bool)
}

type patternEntry struct {
	pattern Pattern
	handler Handler
}

// patternRegistry resolves exact keys first, then prefixes and regexes in
// insertion order, then "abc*" star keys in insertion order, then the wildcard.
type patternRegistry struct {
	exact    map[string]Handler
	patterns []patternEntry
	stars    []patternEntry
	wildcard Handler
}

func newPatternRegistry() *patternRegistry {
	return &patternRegistry{exact: make(map[string]Handler)}
}

func (r *patternRegistry) add(pattern Pattern, handler Handler) {
	switch pattern.kind {
	case patternExact:
		r.exact[pattern.value] = handler
	case patternWildcard:
		r.wildcard = handler
	case patternStar:
		r.stars = upsert(r.stars, pattern, handler)
	default:
		r.patterns = upsert(r.patterns, pattern, handler)
	}
}

// upsert replaces the handler of an identical pattern in place or appends a new entry.
func upsert(entries []patternEntry, pattern Pattern, handler Handler) []patternEntry {
	for i := range entries {
		if entries[i].pattern.same(pattern) {
			entries[i].handler = handler

			return entries
		}
	}

	return append(entries, patternEntry{pattern: pattern, handler: handler})
}

func (r *patternRegistry) resolve(key string) (Handler, bool) {
	if handler, ok := r.exact[key]; ok {
		return handler, true
	}

	for _, entries := range [][]patternEntry{r.patterns, r.stars} {
		for _, entry := range entries {
			if entry.pattern.Match(key) {
				return entry.handler, true
			}
		}
	}

	if r.wildcard != nil {
		return r.wildcard, true
	}

	return nil, false
}

// simpleRegistry holds the single handler of an unkeyed kind; last registration wins.
type simpleRegistry struct {
	handler Handler
}

func (r *simpleRegistry) add(_ Pattern, handler Handler) {
	r.handler = handler
}

func (r *simpleRegistry) resolve(string) (Handler, bool) {
	return r.handler, r.handler != nil
}
