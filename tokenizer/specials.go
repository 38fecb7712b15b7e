package tokenizer

import (
	"fmt"
	"sort"
	"strings"
)

// Special is a reserved string with a fixed id outside the learned vocabulary.
type Special struct {
	Text string
	ID   Rank
}

// SpecialRegistry is a bijection between special strings and ids. Ids must
// not collide with vocabulary ids; that is the caller's responsibility.
type SpecialRegistry struct {
	enc     map[string]Rank
	dec     map[Rank]string
	entries []Special // sorted by id
}

// NewSpecialRegistry copies m into a registry. Every string must be
// storable (see ValidateSpecial) and no two strings may share an id.
func NewSpecialRegistry(m map[string]Rank) (*SpecialRegistry, error) {
	r := &SpecialRegistry{
		enc: make(map[string]Rank, len(m)),
		dec: make(map[Rank]string, len(m)),
	}
	for s, id := range m {
		if err := ValidateSpecial(s); err != nil {
			return nil, err
		}
		r.enc[s] = id
		r.entries = append(r.entries, Special{Text: s, ID: id})
	}
	sort.Slice(r.entries, func(i, j int) bool {
		if r.entries[i].ID == r.entries[j].ID {
			return r.entries[i].Text < r.entries[j].Text
		}
		return r.entries[i].ID < r.entries[j].ID
	})
	for i, e := range r.entries {
		if i > 0 && r.entries[i-1].ID == e.ID {
			return nil, fmt.Errorf("%w: %q and %q share id %d", ErrInvalidSpecial, r.entries[i-1].Text, e.Text, e.ID)
		}
		r.dec[e.ID] = e.Text
	}
	return r, nil
}

// ValidateSpecial reports whether s can be registered and written to a
// model file: it must be non-empty and fit on one line.
func ValidateSpecial(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSpecial)
	}
	if strings.ContainsAny(s, "\r\n") {
		return fmt.Errorf("%w: %q contains a line break", ErrInvalidSpecial, s)
	}
	return nil
}

// ID returns the id registered for s.
func (r *SpecialRegistry) ID(s string) (Rank, bool) {
	id, ok := r.enc[s]
	return id, ok
}

// Text returns the string registered for id.
func (r *SpecialRegistry) Text(id Rank) (string, bool) {
	s, ok := r.dec[id]
	return s, ok
}

// Len is the number of registered specials.
func (r *SpecialRegistry) Len() int { return len(r.entries) }

// Entries returns the registered specials ordered by id.
func (r *SpecialRegistry) Entries() []Special {
	out := make([]Special, len(r.entries))
	copy(out, r.entries)
	return out
}

// Map returns a copy of the string -> id mapping.
func (r *SpecialRegistry) Map() map[string]Rank {
	out := make(map[string]Rank, len(r.enc))
	for s, id := range r.enc {
		out[s] = id
	}
	return out
}

// ReservedSpecials assigns consecutive ids to names starting at start, e.g.
// directly after a learned vocabulary so the ranges stay disjoint.
func ReservedSpecials(names []string, start Rank) map[string]Rank {
	m := make(map[string]Rank, len(names))
	for _, n := range names {
		if _, ok := m[n]; ok {
			continue
		}
		m[n] = start
		start++
	}
	return m
}

// matchSpecialAt returns the id and length of the longest allowed special
// starting at s[i:], or length 0.
func (r *SpecialRegistry) matchSpecialAt(s string, i int, allowed map[string]struct{}) (Rank, int) {
	maxLen := 0
	var id Rank
	for lit := range allowed {
		if len(lit) == 0 || len(lit) <= maxLen || len(lit) > len(s)-i {
			continue
		}
		tok, ok := r.enc[lit]
		if !ok {
			continue
		}
		if s[i:i+len(lit)] == lit {
			maxLen = len(lit)
			id = tok
		}
	}
	return id, maxLen
}
