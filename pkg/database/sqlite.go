package database

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/go-gorp/gorp/v3"
	"github.com/mattn/go-sqlite3"
	"github.com/openswoop/syllabank/pkg/roster"
)

type RosterEntity struct {
	ID            int64          `db:"id, primarykey, autoincrement"`
	TermKey       string         `db:"term_key"`
	InstructorKey string         `db:"instructor_key"`
	Term          string         `db:"term"`
	LastName      string         `db:"last_name"`
	FirstName     string         `db:"first_name"`
	Course        string         `db:"course"`
	Email         sql.NullString `db:"email"`
}

func toRosterEntity(term roster.Term, instructorKey string, r roster.Row) *RosterEntity {
	return &RosterEntity{
		TermKey:       term.Key(),
		InstructorKey: instructorKey,
		Term:          r.Term,
		LastName:      r.LastName,
		FirstName:     r.FirstName,
		Course:        r.Course,
		Email:         sql.NullString{String: r.Email.StringVal, Valid: r.Email.Valid},
	}
}

type Sqlite struct {
	db    *sql.DB
	dbmap *gorp.DbMap
}

func NewSqlite(file string) (Sqlite, error) {
	sqlite := Sqlite{}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return sqlite, err
	}

	// Initialize the database connection
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return sqlite, err
	}
	sqlite.db = db

	// Initialize the database mapping, creating the tables if it's our first run
	dbmap := &gorp.DbMap{Db: db, Dialect: gorp.SqliteDialect{}}
	dbmap.AddTableWithName(RosterEntity{}, "rosters").SetUniqueTogether("term_key", "instructor_key", "course")
	if err := dbmap.CreateTablesIfNotExists(); err != nil {
		_ = db.Close()
		return sqlite, err
	}
	sqlite.dbmap = dbmap

	return sqlite, nil
}

func (s Sqlite) SaveRoster(term roster.Term, rows []roster.Row) error {
	keys := instructorKeys(rows)
	insertData := make([]interface{}, 0, len(rows))
	for i, r := range rows {
		insertData = append(insertData, toRosterEntity(term, keys[i], r))
	}
	return s.save(insertData)
}

// Rosters lists the rows saved for a term in insertion order.
func (s Sqlite) Rosters(term roster.Term) ([]RosterEntity, error) {
	var entities []RosterEntity
	_, err := s.dbmap.Select(&entities, "SELECT * FROM rosters WHERE term_key = ? ORDER BY id", term.Key())
	return entities, err
}

func (s Sqlite) save(rows []interface{}) error {
	tx, err := s.dbmap.Begin()
	if err != nil {
		return err
	}
	for _, row := range rows {
		err := tx.Insert(row)
		var sqliteError sqlite3.Error
		if errors.As(err, &sqliteError) && sqliteError.ExtendedCode == sqlite3.ErrConstraintUnique {
			continue // silently ignore duplicates
		}
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s Sqlite) Close() error {
	return s.db.Close()
}
