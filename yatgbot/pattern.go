package yatgbot

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

type patternKind uint8

const (
	patternExact patternKind = iota
	patternPrefix
	patternRegex
	patternStar
	patternWildcard
)

// Pattern selects the routing keys a keyed handler accepts.
type Pattern struct {
	kind  patternKind
	value string
	re    *regexp.Regexp
}

// Exact matches the key s only.
func Exact(s string) Pattern {
	return Pattern{kind: patternExact, value: s}
}

// Prefix matches every key starting with s.
func Prefix(s string) Pattern {
	return Pattern{kind: patternPrefix, value: s}
}

// Regex matches keys for which re finds a match at offset 0.
func Regex(re *regexp.Regexp) Pattern {
	return Pattern{kind: patternRegex, value: re.String(), re: re}
}

// MustRegex compiles expr and panics if it is invalid.
func MustRegex(expr string) Pattern {
	return Regex(regexp.MustCompile(expr))
}

// Wildcard matches any key.
func Wildcard() Pattern {
	return Pattern{kind: patternWildcard, value: "*"}
}

// ParsePattern maps a string key: "*" is a wildcard, anything else is exact
// unless it ends in "*". Such a star key matches like a prefix but is only
// tried after every exact key and compiled pattern of the registry.
//
// Example usage:
//
//	yatgbot.ParsePattern("buy:*") // any "buy:..." key nothing more specific took
func ParsePattern(s string) Pattern {
	switch {
	case s == "*":
		return Wildcard()
	case strings.HasSuffix(s, "*"):
		return Pattern{kind: patternStar, value: strings.TrimSuffix(s, "*")}
	default:
		return Exact(s)
	}
}

// Match reports whether key is accepted.
func (p Pattern) Match(key string) bool {
	switch p.kind {
	case patternExact:
		return key == p.value
	case patternPrefix, patternStar:
		return strings.HasPrefix(key, p.value)
	case patternRegex:
		loc := p.re.FindStringIndex(key)

		return loc != nil && loc[0] == 0
	case patternWildcard:
		return true
	default:
		return false
	}
}

func (p Pattern) String() string {
	switch p.kind {
	case patternPrefix, patternStar:
		return p.value + "*"
	case patternRegex:
		return "/" + p.value + "/"
	default:
		return p.value
	}
}

// same reports whether p and other are the same registration.
func (p Pattern) same(other Pattern) bool {
	return p.kind == other.kind && p.value == other.value
}

// toPattern accepts a string, *regexp.Regexp or Pattern.
func toPattern(key any) (Pattern, yaerrors.Error) {
	switch k := key.(type) {
	case Pattern:
		if k.kind == patternRegex && k.re == nil {
			break
		}

		return k, nil
	case string:
		return ParsePattern(k), nil
	case *regexp.Regexp:
		if k == nil {
			break
		}

		return Regex(k), nil
	}

	return Pattern{}, yaerrors.FromError(
		http.StatusBadRequest,
		ErrBadHandlerRegistration,
		fmt.Sprintf("[REGISTRY] unsupported key %T", key),
	)
}
