// Package filter implements the spaceport allow-list matching.
package filter

import "strings"

// Location is the launch site of a record as reported upstream.
// A nil ID means the provider did not report one.
type Location struct {
	ID   *int
	Name string
}

// Spaceports is an allow-list of launch sites, matched by ID or by keyword.
type Spaceports struct {
	ids      map[int]struct{}
	keywords []string
}

// NewSpaceports builds an allow-list. Keywords are matched case-insensitively;
// blank keywords are ignored.
func NewSpaceports(ids []int, keywords []string) Spaceports {
	s := Spaceports{ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		s.keywords = append(s.keywords, k)
	}
	return s
}

// Match checks whether a location is on the allow-list.
// A nil location never matches.
// An allow-listed ID matches regardless of name; otherwise any keyword
// contained in the location name matches.
func (s Spaceports) Match(loc *Location) bool {
	if loc == nil {
		return false
	}
	if loc.ID != nil {
		if _, ok := s.ids[*loc.ID]; ok {
			return true
		}
	}
	name := strings.ToLower(loc.Name)
	for _, k := range s.keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}
