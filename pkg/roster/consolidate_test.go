package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsolidate(t *testing.T) {
	records := []CourseRecord{
		{Term: "Fall 2023", Crn: "10", Course: "BA 101", Instructor: "Jane Doe"},
		{Term: "Fall 2023", Crn: "20", Course: "MGMT 364", Instructor: "Rick Roe"},
		{Term: "Fall 2023", Crn: "30", Course: "BA 302", Instructor: "Jane Doe"},
		{Term: "Fall 2023", Crn: "40", Course: "BA 101", Instructor: "Rick Roe"},
	}

	got := Consolidate(records)

	assert.Equal(t, []InstructorRecord{
		{Instructor: "Jane Doe", Term: "Fall 2023", Crn: "10", Courses: []string{"BA 101", "BA 302"}},
		{Instructor: "Rick Roe", Term: "Fall 2023", Crn: "20", Courses: []string{"MGMT 364", "BA 101"}},
	}, got)
}

func TestConsolidate_OneRecordPerInstructor(t *testing.T) {
	records := []CourseRecord{
		{Crn: "1", Course: "BA 101", Instructor: "A"},
		{Crn: "2", Course: "BA 102", Instructor: "B"},
		{Crn: "3", Course: "BA 103", Instructor: "a"},
		{Crn: "4", Course: "BA 104", Instructor: "A"},
		{Crn: "5", Course: "BA 104", Instructor: "A"},
	}

	got := Consolidate(records)

	// Matching is exact, so "a" and "A" are different instructors
	assert.Len(t, got, 3)
	assert.LessOrEqual(t, len(got), len(records))
	instructors := make(map[string]int)
	for _, r := range got {
		instructors[r.Instructor]++
		assert.NotEmpty(t, r.Courses)
	}
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "a": 1}, instructors)
	assert.Equal(t, []string{"BA 101", "BA 104"}, got[0].Courses)
}

func TestAssemble(t *testing.T) {
	contacts := []ContactRecord{
		{
			EnrichedRecord: EnrichedRecord{
				Name:    Name{First: "Jane", Last: "Doe"},
				Term:    "Spring 2023",
				Crn:     "12345",
				Courses: []string{"BA 101", "BA 302"},
			},
			Email: nullString("doej@oregonstate.edu"),
		},
		{
			EnrichedRecord: EnrichedRecord{Term: "Spring 2023", Crn: "2", Courses: []string{"FIN 300"}},
		},
	}

	rows := Assemble(contacts)

	assert.Equal(t, []Row{
		{LastName: "Doe", FirstName: "Jane", Term: "Spring 2023", Course: "BA 101, BA 302", Email: nullString("doej@oregonstate.edu")},
		{Term: "Spring 2023", Course: "FIN 300"},
	}, rows)
	assert.False(t, rows[1].Email.Valid)
}
