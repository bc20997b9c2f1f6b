package catalog

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/openswoop/syllabank/pkg/roster"
)

// ParseInstructorName extracts the instructor's name from the details HTML,
// e.g: <div class="instructor-detail">Jane Doe</div>. Everything after the
// first name is kept as the last name. A fragment without the element gives
// an empty name.
func ParseInstructorName(fragment string) (roster.Name, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return roster.Name{}, err
	}

	detail := doc.Find("div.instructor-detail").First()
	if detail.Size() == 0 {
		return roster.Name{}, nil
	}
	return splitName(detail.Text()), nil
}

func splitName(fullName string) roster.Name {
	fullName = strings.TrimSpace(fullName)
	i := strings.IndexFunc(fullName, unicode.IsSpace)
	if i < 0 {
		return roster.Name{First: fullName}
	}
	return roster.Name{
		First: fullName[:i],
		Last:  strings.TrimSpace(fullName[i:]),
	}
}
