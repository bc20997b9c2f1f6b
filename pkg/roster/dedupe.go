package roster

import "strings"

// HybridMarker is appended to the course code of hybrid sections
const HybridMarker = "H"

type courseKey struct {
	course     string
	instructor string
}

// NormalizeCourse strips the hybrid marker from a course code so that hybrid
// and regular sections of a course compare equal. A code with nothing but
// markers is left alone.
func NormalizeCourse(code string) string {
	if trimmed := strings.TrimRight(code, HybridMarker); trimmed != "" {
		return trimmed
	}
	return code
}

// Dedupe drops every record whose course and instructor were already seen.
// An instructor teaching the same course at different times (or as a hybrid
// section) uses the same syllabus, so one record is enough.
func Dedupe(records []CourseRecord) []CourseRecord {
	records = unique(records)

	normalized := make([]CourseRecord, len(records))
	for i, r := range records {
		r.Course = NormalizeCourse(r.Course)
		normalized[i] = r
	}

	// Stripping the marker can create new collisions
	return unique(normalized)
}

func unique(records []CourseRecord) []CourseRecord {
	seen := make(map[courseKey]bool)
	out := make([]CourseRecord, 0, len(records))
	for _, r := range records {
		key := courseKey{r.Course, r.Instructor}
		if _, found := seen[key]; !found {
			out = append(out, r)
			seen[key] = true
		}
	}
	return out
}
