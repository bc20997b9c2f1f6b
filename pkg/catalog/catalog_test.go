package catalog

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gocolly/colly/v2"
	"github.com/openswoop/syllabank/pkg/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fall2023 = roster.Term{Year: "2023", Code: "01", Season: "Fall"}

// newTestCatalog serves the search and details routes from the handlers
func newTestCatalog(t *testing.T, search, details http.HandlerFunc) *Catalog {
	t.Helper()
	mux := http.NewServeMux()
	if search != nil {
		mux.HandleFunc("/search", search)
	}
	if details != nil {
		mux.HandleFunc("/details", details)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return New(colly.NewCollector(), server.URL+"/search", server.URL+"/details", zaptest.NewLogger(t))
}

// decodeBody runs on the server goroutine, so it must not stop the test
func decodeBody(t *testing.T, r *http.Request, v interface{}) {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	if assert.NoError(t, err) {
		assert.NoError(t, json.Unmarshal(body, v))
	}
}

func TestCatalog_Sections(t *testing.T) {
	responses := map[string]string{
		"BA": `{"results": [
			{"crn": "11111", "code": "BA 101", "title": "Business Fundamentals", "instr": "J. Doe", "isCancelled": ""},
			{"crn": "22222", "code": "BA 101H", "title": "Business Fundamentals", "instr": "J. Doe", "isCancelled": "1"},
			{"crn": "33333", "code": "BA 302", "title": "Ethics", "instr": "R. Roe"}
		]}`,
		"FIN": `{"results": [
			{"crn": "44444", "code": "FIN 340", "title": "Finance", "instr": "R. Roe", "isCancelled": 1}
		]}`,
	}

	var queries []searchQuery
	search := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var q searchQuery
		decodeBody(t, r, &q)
		queries = append(queries, q)
		if len(q.Criteria) == 1 {
			_, _ = w.Write([]byte(responses[q.Criteria[0].Value]))
		}
	}

	cat := newTestCatalog(t, search, nil)
	records, err := cat.Sections(fall2023, []string{"BA", "FIN"})
	require.NoError(t, err)

	assert.Equal(t, []roster.CourseRecord{
		{Term: "Fall 2023", Crn: "11111", Course: "BA 101", Instructor: "J. Doe"},
		{Term: "Fall 2023", Crn: "33333", Course: "BA 302", Instructor: "R. Roe"},
		{Term: "Fall 2023", Crn: "44444", Course: "FIN 340", Instructor: "R. Roe"},
	}, records)

	require.Len(t, queries, 2)
	assert.Equal(t, "202301", queries[0].Other.Srcdb)
	assert.Equal(t, criterion{Field: "subject", Value: "BA"}, queries[0].Criteria[0])
	assert.Equal(t, criterion{Field: "subject", Value: "FIN"}, queries[1].Criteria[0])
}

func TestCatalog_Sections_Failures(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		want       string
	}{
		{"server error", http.StatusInternalServerError, `{}`, "subject MGMT"},
		{"not json", http.StatusOK, `<html>maintenance</html>`, "invalid response"},
		{"missing results", http.StatusOK, `{"fatal": "bad srcdb"}`, "no results"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			search := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}

			cat := newTestCatalog(t, search, nil)
			records, err := cat.Sections(fall2023, []string{"MGMT"})

			assert.Nil(t, records)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCatalog_InstructorName(t *testing.T) {
	var query detailsQuery
	details := func(w http.ResponseWriter, r *http.Request) {
		decodeBody(t, r, &query)
		_, _ = w.Write([]byte(`{"instructordetail_html": "<h3>Instructor</h3><div class=\"instructor-detail\">Jane Doe</div>"}`))
	}

	cat := newTestCatalog(t, nil, details)
	name, err := cat.InstructorName(fall2023, "12345")
	require.NoError(t, err)

	assert.Equal(t, roster.Name{First: "Jane", Last: "Doe"}, name)
	assert.Equal(t, detailsQuery{Srcdb: "202301", Key: "crn:12345"}, query)
}

func TestCatalog_InstructorName_Failures(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"server error", http.StatusBadGateway, ``},
		{"not json", http.StatusOK, `not json`},
		{"missing detail", http.StatusOK, `{"crn": "12345"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}

			cat := newTestCatalog(t, nil, details)
			_, err := cat.InstructorName(fall2023, "12345")

			assert.Error(t, err)
		})
	}
}

func TestCatalog_RepeatedQueries(t *testing.T) {
	var calls int
	details := func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"instructordetail_html": ""}`))
	}

	cat := newTestCatalog(t, nil, details)
	for i := 0; i < 3; i++ {
		name, err := cat.InstructorName(fall2023, "12345")
		require.NoError(t, err)
		assert.Equal(t, roster.Name{}, name)
	}
	assert.Equal(t, 3, calls)
}
