// Package volume resolves drive letter patterns and opens volumes for raw
// positioned reads.
package volume

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Pattern selects drive letters. "*" selects every available drive; anything
// else lists letters, optionally separated by spaces, commas or semicolons:
// "C", "CD" and "C,D;E F" are all valid.
type Pattern string

// All selects every available drive.
const All Pattern = "*"

var (
	ErrEmptyPattern = errors.New("empty drive letter pattern")
	ErrNoDrives     = errors.New("no drives found")
)

// Parse validates s as a Pattern.
func Parse(s string) (Pattern, error) {
	p := Pattern(strings.TrimSpace(s))
	if p == "" {
		return "", ErrEmptyPattern
	}
	if _, err := p.letters(); err != nil {
		return "", err
	}
	return p, nil
}

func (p Pattern) String() string { return string(p) }

// Letters resolves p to upper case drive letters, in pattern order and
// without duplicates. available is only consulted for the wildcard.
func (p Pattern) Letters(available []rune) ([]rune, error) {
	if strings.TrimSpace(string(p)) == string(All) {
		if len(available) == 0 {
			return nil, ErrNoDrives
		}
		return lo.Uniq(lo.Map(available, func(r rune, _ int) rune { return unicode.ToUpper(r) })), nil
	}
	return p.letters()
}

func (p Pattern) letters() ([]rune, error) {
	s := strings.TrimSpace(string(p))
	if s == string(All) {
		return nil, nil
	}
	var out []rune
	for i, r := range s {
		if unicode.IsSpace(r) || r == ',' || r == ';' {
			continue
		}
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return nil, fmt.Errorf("invalid drive letter character at position %d: %q", i, r)
		}
		out = append(out, unicode.ToUpper(r))
	}
	if len(out) == 0 {
		return nil, errors.Wrapf(ErrNoDrives, "pattern %q", s)
	}
	return lo.Uniq(out), nil
}

// Path returns the device path of the volume mounted at letter, e.g. `\\.\C:`.
func Path(letter rune) string {
	return fmt.Sprintf(`\\.\%c:`, unicode.ToUpper(letter))
}

// lettersFromMask decodes a GetLogicalDrives bitmask.
func lettersFromMask(mask uint32) []rune {
	return lo.FilterMap(lo.Range(26), func(i int, _ int) (rune, bool) {
		return rune('A' + i), mask&(1<<i) != 0
	})
}
