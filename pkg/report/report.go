package report

import (
	"io"
	"os"

	"cloud.google.com/go/bigquery"
	"github.com/gocarina/gocsv"
	"github.com/openswoop/syllabank/pkg/roster"
)

// rosterView is the column layout expected by the survey import
type rosterView struct {
	LastName  string `csv:"Last_Name"`
	FirstName string `csv:"First_Name"`
	Term      string `csv:"Term"`
	Course    string `csv:"Course"`
	Email     string `csv:"Email"`
}

func toRosterView(r roster.Row) rosterView {
	return rosterView{
		LastName:  r.LastName,
		FirstName: r.FirstName,
		Term:      r.Term,
		Course:    r.Course,
		Email:     parseNullString(r.Email),
	}
}

func MarshalRoster(rows []roster.Row, w io.Writer) error {
	views := make([]rosterView, 0, len(rows))
	for _, r := range rows {
		views = append(views, toRosterView(r))
	}
	return gocsv.Marshal(views, w)
}

func WriteRoster(fileName string, rows []roster.Row) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err := MarshalRoster(rows, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func parseNullString(n bigquery.NullString) string {
	if !n.Valid {
		return ""
	}
	return n.StringVal
}
