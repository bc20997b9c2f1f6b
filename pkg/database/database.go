package database

import (
	"io"
	"strconv"

	"github.com/openswoop/syllabank/pkg/roster"
)

type Database interface {
	io.Closer
	SaveRoster(term roster.Term, rows []roster.Row) error
}

// instructorKeys identifies every row of a term's roster by instructor name.
// Rows without a name, or sharing one, are told apart by the order they
// appear in: the second "Doe, Jane" becomes "Doe, Jane #2".
func instructorKeys(rows []roster.Row) []string {
	keys := make([]string, len(rows))
	seen := make(map[string]int)
	for i, r := range rows {
		key := r.LastName + ", " + r.FirstName
		seen[key]++
		if n := seen[key]; n > 1 {
			key += " #" + strconv.Itoa(n)
		}
		keys[i] = key
	}
	return keys
}
