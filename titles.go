package itfaker

import "fmt"

// TitleCategory keys the title table. Titles are not weighted.
type TitleCategory string

const (
	TitleMale    TitleCategory = "male"
	TitleFemale  TitleCategory = "female"
	TitleNeutral TitleCategory = "neutral"
)

// TitleTable maps a category to the professional titles drawn for it.
type TitleTable map[TitleCategory][]string

var defaultTitles = TitleTable{
	TitleMale:    {"Dott.", "Ing.", "Avv.", "Prof.", "Arch.", "Rag."},
	TitleFemale:  {"Dott.ssa", "Ing.", "Avv.", "Prof.ssa", "Arch.", "Rag."},
	TitleNeutral: {"Ing.", "Avv.", "Arch.", "Rag.", "Geom."},
}

// DefaultTitles returns a copy of the built-in title table.
func DefaultTitles() TitleTable { return defaultTitles.clone() }

func (t TitleTable) clone() TitleTable {
	out := make(TitleTable, len(t))
	for k, v := range t {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (t TitleTable) validate() error {
	for _, k := range []TitleCategory{TitleMale, TitleFemale, TitleNeutral} {
		if _, ok := t[k]; !ok {
			return fmt.Errorf("itfaker: title table has no %q entry", k)
		}
	}
	return nil
}

func titleCategory(g *Gender) TitleCategory {
	switch {
	case g == nil:
		return TitleNeutral
	case *g == Male:
		return TitleMale
	default:
		return TitleFemale
	}
}
