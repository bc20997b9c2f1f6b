package roster

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

var yearR = regexp.MustCompile(`^\d{4}$`)

// TermTable maps the catalog's two digit term codes to their season names
type TermTable map[string]string

func DefaultTermTable() TermTable {
	return TermTable{"01": "Fall", "02": "Winter", "03": "Spring", "04": "Summer"}
}

// Seasons lists the season names ordered by term code.
func (t TermTable) Seasons() []string {
	codes := t.codes()
	seasons := make([]string, 0, len(codes))
	for _, code := range codes {
		seasons = append(seasons, t[code])
	}
	return seasons
}

func (t TermTable) codes() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

type Term struct {
	Year   string
	Code   string
	Season string
}

// Key is the source database id the catalog uses for the term (e.g: 202303)
func (t Term) Key() string {
	return t.Year + t.Code
}

// Label is the human readable term written to the roster (e.g: Spring 2023)
func (t Term) Label() string {
	return t.Season + " " + t.Year
}

// ParseTerm takes a year like "2023" and a season like "Spring" and resolves
// the season to its term code through the table. Labels are matched in term
// code order, so the lowest code wins if two labels match.
func ParseTerm(year, season string, table TermTable) (Term, error) {
	year = strings.TrimSpace(year)
	season = strings.TrimSpace(season)
	if !yearR.MatchString(year) {
		return Term{}, errors.New(year + " is not a valid year")
	}
	for _, code := range table.codes() {
		label := table[code]
		if strings.EqualFold(label, season) {
			return Term{Year: year, Code: code, Season: label}, nil
		}
	}
	return Term{}, errors.New(season + " is not a valid term")
}
