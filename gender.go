package itfaker

import (
	"fmt"
	"strings"

	"github.com/unkn0wn-root/itfaker/corpus"
)

// Gender selects which name catalog a name is drawn from. The numeric
// values match the coin-flip draw: 0 is Male, 1 is Female.
type Gender int

const (
	Male Gender = iota
	Female
)

// Genders lists every gender in draw order.
func Genders() []Gender { return []Gender{Male, Female} }

// GenderPtr returns &g, for building a Request inline.
func GenderPtr(g Gender) *Gender { return &g }

func (g Gender) String() string {
	switch g {
	case Male:
		return corpus.Male
	case Female:
		return corpus.Female
	default:
		return fmt.Sprintf("Gender(%d)", int(g))
	}
}

func (g Gender) valid() bool { return g == Male || g == Female }

// ParseGender accepts English and Italian spellings, case-insensitively.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "maschio", "maschile":
		return Male, nil
	case "female", "f", "femmina", "femminile":
		return Female, nil
	default:
		return 0, fmt.Errorf("%w: unknown gender %q", ErrInvalidArgument, s)
	}
}
