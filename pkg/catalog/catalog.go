package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gocolly/colly/v2"
	"github.com/openswoop/syllabank/pkg/roster"
	"go.uber.org/zap"
)

const (
	SearchUrl  = "https://classes.oregonstate.edu/api/?page=fose&route=search"
	DetailsUrl = "https://classes.oregonstate.edu/api/?page=fose&route=details"
)

// Catalog talks to the course catalog's JSON API. Every query is a POST to the
// same endpoint, so the collector must allow revisits.
type Catalog struct {
	c          *colly.Collector
	searchUrl  string
	detailsUrl string
	log        *zap.Logger
}

func New(c *colly.Collector, searchUrl, detailsUrl string, log *zap.Logger) *Catalog {
	c = c.Clone() // same collector but without old callbacks
	c.AllowURLRevisit = true
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{c, searchUrl, detailsUrl, log}
}

type criterion struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type searchQuery struct {
	Other struct {
		Srcdb string `json:"srcdb"`
	} `json:"other"`
	Criteria []criterion `json:"criteria"`
}

type searchResponse struct {
	Results *[]section `json:"results"`
}

type section struct {
	Crn         string          `json:"crn"`
	Code        string          `json:"code"`
	Title       string          `json:"title"`
	Instructor  string          `json:"instr"`
	IsCancelled json.RawMessage `json:"isCancelled"`
}

// Only the string "1" marks a cancelled section
func (s section) cancelled() bool {
	return string(s.IsCancelled) == `"1"`
}

type detailsQuery struct {
	Srcdb string `json:"srcdb"`
	Key   string `json:"key"`
}

type detailsResponse struct {
	InstructorDetail *string `json:"instructordetail_html"`
}

// Sections returns every section offered for the subjects in the term,
// subject by subject in the order the catalog lists them.
func (cat *Catalog) Sections(term roster.Term, subjects []string) ([]roster.CourseRecord, error) {
	var records []roster.CourseRecord
	for _, subject := range subjects {
		query := searchQuery{Criteria: []criterion{{Field: "subject", Value: subject}}}
		query.Other.Srcdb = term.Key()

		var res searchResponse
		if err := cat.post(cat.searchUrl, query, &res); err != nil {
			return nil, fmt.Errorf("failed to search subject %s: %w", subject, err)
		}
		if res.Results == nil {
			return nil, fmt.Errorf("failed to search subject %s: no results in response", subject)
		}

		// Filter out cancelled courses
		var kept int
		for _, s := range *res.Results {
			if s.cancelled() {
				continue
			}
			records = append(records, roster.CourseRecord{
				Term:       term.Label(),
				Crn:        s.Crn,
				Course:     s.Code,
				Instructor: s.Instructor,
			})
			kept++
		}
		cat.log.Debug("Fetched subject", zap.String("subject", subject), zap.Int("sections", kept))
	}
	return records, nil
}

// InstructorName looks up the full name of the section's instructor on the
// course details page.
func (cat *Catalog) InstructorName(term roster.Term, crn string) (roster.Name, error) {
	query := detailsQuery{Srcdb: term.Key(), Key: "crn:" + crn}

	var res detailsResponse
	if err := cat.post(cat.detailsUrl, query, &res); err != nil {
		return roster.Name{}, err
	}
	if res.InstructorDetail == nil {
		return roster.Name{}, errors.New("no instructordetail_html in response")
	}
	return ParseInstructorName(*res.InstructorDetail)
}

func (cat *Catalog) post(url string, query interface{}, v interface{}) error {
	body, err := json.Marshal(query)
	if err != nil {
		return err
	}

	var e error
	var received bool
	c := cat.c.Clone()
	c.OnResponse(func(res *colly.Response) {
		received = true
		if err := json.Unmarshal(res.Body, v); err != nil {
			e = fmt.Errorf("invalid response: %w", err)
		}
	})

	if err := c.PostRaw(url, body); err != nil {
		return err
	}
	if !received {
		return errors.New("no response from " + url)
	}
	return e
}
