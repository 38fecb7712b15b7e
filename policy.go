package tinybpe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/euforicio/tinybpe-go/tokenizer"
)

type policyKind uint8

const (
	policyInvalid policyKind = iota
	policyAll
	policyNone
	policyNoneRaise
	policyOnly
)

// SpecialPolicy selects which registered special tokens Encode recognizes.
// The zero value is invalid; use one of the constructors.
type SpecialPolicy struct {
	kind policyKind
	only []string
}

// AllowAll recognizes every registered special token.
func AllowAll() SpecialPolicy { return SpecialPolicy{kind: policyAll} }

// AllowNone encodes special token strings as ordinary text.
func AllowNone() SpecialPolicy { return SpecialPolicy{kind: policyNone} }

// AllowNoneRaise is AllowNone, but fails with ErrDisallowedSpecial when any
// registered special token occurs in the input.
func AllowNoneRaise() SpecialPolicy { return SpecialPolicy{kind: policyNoneRaise} }

// AllowOnly recognizes exactly the named special tokens. Every name must be
// registered.
func AllowOnly(names ...string) SpecialPolicy {
	return SpecialPolicy{kind: policyOnly, only: append([]string(nil), names...)}
}

// ParsePolicy reads the textual form used on the command line: "all",
// "none", "none_raise" (any case) or a comma-separated list of tokens.
func ParsePolicy(s string) (SpecialPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return AllowAll(), nil
	case "none":
		return AllowNone(), nil
	case "none_raise":
		return AllowNoneRaise(), nil
	case "":
		return SpecialPolicy{}, fmt.Errorf("%w: empty", ErrInvalidPolicy)
	}
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return AllowOnly(names...), nil
}

func (p SpecialPolicy) String() string {
	switch p.kind {
	case policyAll:
		return "all"
	case policyNone:
		return "none"
	case policyNoneRaise:
		return "none_raise"
	case policyOnly:
		return strings.Join(p.only, ",")
	default:
		return "invalid"
	}
}

// allowed resolves p against the registry into the set of special strings
// Encode may emit.
func (p SpecialPolicy) allowed(reg *tokenizer.SpecialRegistry, text string) (map[string]struct{}, error) {
	switch p.kind {
	case policyAll:
		set := make(map[string]struct{}, reg.Len())
		for _, s := range reg.Entries() {
			set[s.Text] = struct{}{}
		}
		return set, nil
	case policyNone:
		return nil, nil
	case policyNoneRaise:
		var found []string
		for _, s := range reg.Entries() {
			if strings.Contains(text, s.Text) {
				found = append(found, s.Text)
			}
		}
		if len(found) > 0 {
			sort.Strings(found)
			return nil, fmt.Errorf("%w: %s", ErrDisallowedSpecial, strings.Join(found, ", "))
		}
		return nil, nil
	case policyOnly:
		set := make(map[string]struct{}, len(p.only))
		for _, n := range p.only {
			if _, ok := reg.ID(n); !ok {
				return nil, fmt.Errorf("%w: %q is not a registered special token", ErrInvalidPolicy, n)
			}
			set[n] = struct{}{}
		}
		return set, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidPolicy, p)
	}
}
