package roster

import (
	"fmt"

	"cloud.google.com/go/bigquery"
)

// SectionSource lists the non-cancelled sections offered for each subject.
type SectionSource interface {
	Sections(term Term, subjects []string) ([]CourseRecord, error)
}

// NameResolver looks up the full name of the instructor teaching a section.
// A section without a parsable name yields an empty Name and no error.
type NameResolver interface {
	InstructorName(term Term, crn string) (Name, error)
}

// EmailLookup finds an instructor's institutional email. A lookup miss is
// reported as an invalid NullString, not an error.
type EmailLookup interface {
	Email(name Name) (bigquery.NullString, error)
}

// Directory opens a session that is reused for every email lookup of a run.
type Directory interface {
	Open() (Session, error)
}

type Session interface {
	EmailLookup
	Close() error
}

func ResolveNames(resolver NameResolver, term Term, records []InstructorRecord) ([]EnrichedRecord, error) {
	enriched := make([]EnrichedRecord, 0, len(records))
	for _, r := range records {
		name, err := resolver.InstructorName(term, r.Crn)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve name of %s (crn %s): %w", r.Instructor, r.Crn, err)
		}
		enriched = append(enriched, EnrichedRecord{
			Name:    name,
			Term:    r.Term,
			Crn:     r.Crn,
			Courses: r.Courses,
		})
	}
	return enriched, nil
}

func ResolveEmails(lookup EmailLookup, records []EnrichedRecord) ([]ContactRecord, error) {
	contacts := make([]ContactRecord, 0, len(records))
	for _, r := range records {
		email, err := lookup.Email(r.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve email of %s %s: %w", r.First, r.Last, err)
		}
		contacts = append(contacts, ContactRecord{EnrichedRecord: r, Email: email})
	}
	return contacts, nil
}
