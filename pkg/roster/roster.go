package roster

import (
	"strings"

	"cloud.google.com/go/bigquery"
)

type CourseRecord struct {
	Term       string
	Crn        string
	Course     string
	Instructor string
}

// InstructorRecord is every course an instructor teaches in the term, keyed
// by a representative section for later lookups.
type InstructorRecord struct {
	Instructor string
	Term       string
	Crn        string
	Courses    []string
}

type Name struct {
	First string
	Last  string
}

// Complete reports whether both parts of the name are known.
func (n Name) Complete() bool {
	return n.First != "" && n.Last != ""
}

type EnrichedRecord struct {
	Name
	Term    string
	Crn     string
	Courses []string
}

type ContactRecord struct {
	EnrichedRecord
	Email bigquery.NullString
}

// Row is a single line of the published roster. An Email that is not Valid
// means the directory had no match for the instructor.
type Row struct {
	LastName  string
	FirstName string
	Term      string
	Course    string
	Email     bigquery.NullString
}

// Assemble reshapes the resolved records into the publication column order.
func Assemble(records []ContactRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			LastName:  r.Last,
			FirstName: r.First,
			Term:      r.Term,
			Course:    strings.Join(r.Courses, ", "),
			Email:     r.Email,
		})
	}
	return rows
}
