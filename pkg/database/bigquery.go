package database

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/openswoop/syllabank/pkg/roster"
	"google.golang.org/api/googleapi"
)

const rosterTable = "rosters"

type rosterRecord struct {
	TermKey       string              `bigquery:"term_key"`
	InstructorKey string              `bigquery:"instructor_key"`
	Term          string              `bigquery:"term"`
	LastName      string              `bigquery:"last_name"`
	FirstName     string              `bigquery:"first_name"`
	Course        string              `bigquery:"course"`
	Email         bigquery.NullString `bigquery:"email"`
	FetchedOn     civil.Date          `bigquery:"fetched_on"`
}

func toRosterRecords(term roster.Term, rows []roster.Row, fetchedOn civil.Date) []rosterRecord {
	keys := instructorKeys(rows)
	records := make([]rosterRecord, 0, len(rows))
	for i, r := range rows {
		records = append(records, rosterRecord{
			TermKey:       term.Key(),
			InstructorKey: keys[i],
			Term:          r.Term,
			LastName:      r.LastName,
			FirstName:     r.FirstName,
			Course:        r.Course,
			Email:         r.Email,
			FetchedOn:     fetchedOn,
		})
	}
	return records
}

type BigQuery struct {
	ctx     context.Context
	client  *bigquery.Client
	dataset *bigquery.Dataset
}

func NewBigQuery(ctx context.Context, projectID, datasetID string) (BigQuery, error) {
	var bq BigQuery

	// Set up BigQuery
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return bq, fmt.Errorf("failed to create client: %w", err)
	}

	dataset := client.Dataset(datasetID)
	if err := dataset.Create(ctx, nil); err != nil {
		if !isDuplicateError(err) {
			_ = client.Close()
			return bq, fmt.Errorf("failed to create dataset: %w", err)
		}
	}

	bq = BigQuery{ctx, client, dataset}
	return bq, nil
}

// SaveRoster merges the term's roster into the table. Instructors already on
// file for the term get their courses and email refreshed.
func (bq BigQuery) SaveRoster(term roster.Term, rows []roster.Row) error {
	schema, err := bigquery.InferSchema(rosterRecord{})
	if err != nil {
		return fmt.Errorf("failed to infer schema: %w", err)
	}
	if err := bq.createTable(bq.dataset.Table(rosterTable), &bigquery.TableMetadata{Schema: schema}); err != nil {
		return err
	}

	staged, err := bq.stage(schema, toRosterRecords(term, rows, civil.DateOf(time.Now())))
	if err != nil {
		return err
	}
	return bq.run(mergeQuery(bq.dataset.DatasetID, rosterTable, staged))
}

// createTable is a no-op for tables that already exist
func (bq BigQuery) createTable(table *bigquery.Table, metadata *bigquery.TableMetadata) error {
	if err := table.Create(bq.ctx, metadata); err != nil && !isDuplicateError(err) {
		return fmt.Errorf("failed to create table %s: %w", table.TableID, err)
	}
	return nil
}

// stage uploads the records to a fresh table that expires after a day, long
// enough to audit what a sync sent.
func (bq BigQuery) stage(schema bigquery.Schema, records []rosterRecord) (string, error) {
	name := rosterTable + "_" + strconv.FormatInt(time.Now().Unix(), 10)
	table := bq.dataset.Table(name)
	metadata := &bigquery.TableMetadata{Schema: schema, ExpirationTime: time.Now().Add(24 * time.Hour)}
	if err := bq.createTable(table, metadata); err != nil {
		return "", err
	}
	if err := table.Inserter().Put(bq.ctx, records); err != nil {
		return "", fmt.Errorf("failed to upload rows: %w", err)
	}
	return name, nil
}

// mergeQuery upserts the staged rows. Every row of a term has its own
// instructor key, so each target row matches at most one staged row.
func mergeQuery(dataset, target, staged string) string {
	return fmt.Sprintf(`
		MERGE %[1]s.%[2]s t
		USING %[1]s.%[3]s s
		ON t.term_key = s.term_key AND t.instructor_key = s.instructor_key
		WHEN MATCHED THEN
		  UPDATE SET last_name = s.last_name,
		             first_name = s.first_name,
		             course = s.course,
		             email = s.email,
		             fetched_on = s.fetched_on
		WHEN NOT MATCHED THEN
		  INSERT ROW`, dataset, target, staged)
}

func (bq BigQuery) run(sql string) error {
	job, err := bq.client.Query(sql).Run(bq.ctx)
	if err != nil {
		return fmt.Errorf("failed to start merge: %w", err)
	}
	status, err := job.Wait(bq.ctx)
	if err != nil {
		return fmt.Errorf("failed to wait for merge: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}
	return nil
}

func (bq BigQuery) Close() error {
	return bq.client.Close()
}

func isDuplicateError(err error) bool {
	var e *googleapi.Error
	return errors.As(err, &e) && e.Code == http.StatusConflict
}
