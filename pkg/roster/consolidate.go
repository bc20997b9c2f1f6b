package roster

import "slices"

// Consolidate merges all of an instructor's courses into one record. The term
// and CRN of the instructor's first record are kept as the representative.
func Consolidate(records []CourseRecord) []InstructorRecord {
	index := make(map[string]int)
	var merged []InstructorRecord

	for _, r := range records {
		i, found := index[r.Instructor]
		if !found {
			index[r.Instructor] = len(merged)
			merged = append(merged, InstructorRecord{
				Instructor: r.Instructor,
				Term:       r.Term,
				Crn:        r.Crn,
				Courses:    []string{r.Course},
			})
			continue
		}
		if !slices.Contains(merged[i].Courses, r.Course) {
			merged[i].Courses = append(merged[i].Courses, r.Course)
		}
	}

	return merged
}
