package roster

import (
	"fmt"

	"go.uber.org/zap"
)

// Pipeline builds a term's instructor roster. Every stage consumes its whole
// input before the next one starts since the dedupe and merge tie-breaks
// depend on encounter order.
type Pipeline struct {
	Sections  SectionSource
	Names     NameResolver
	Directory Directory
	Subjects  []string
	Logger    *zap.Logger
}

func (p Pipeline) Run(term Term) ([]Row, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("term", term.Label()))

	sections, err := p.Sections.Sections(term, p.Subjects)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}
	log.Info("Courses retrieved", zap.Int("sections", len(sections)))

	deduped := Dedupe(sections)
	log.Info("Duplicates removed", zap.Int("remaining", len(deduped)))

	merged := Consolidate(deduped)
	log.Info("Courses merged", zap.Int("instructors", len(merged)))

	enriched, err := ResolveNames(p.Names, term, merged)
	if err != nil {
		return nil, err
	}
	for _, r := range enriched {
		if r.First == "" && r.Last == "" {
			log.Debug("No instructor name found", zap.String("crn", r.Crn))
		}
	}
	log.Info("Instructor names resolved")

	contacts, err := p.resolveEmails(log, enriched)
	if err != nil {
		return nil, err
	}
	log.Info("Emails resolved")

	return Assemble(contacts), nil
}

func (p Pipeline) resolveEmails(log *zap.Logger, records []EnrichedRecord) ([]ContactRecord, error) {
	session, err := p.Directory.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open directory session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("Failed to close directory session", zap.Error(err))
		}
	}()

	contacts, err := ResolveEmails(session, records)
	if err != nil {
		return nil, err
	}
	for _, c := range contacts {
		if !c.Email.Valid {
			log.Debug("No email found", zap.String("first", c.First), zap.String("last", c.Last))
		}
	}
	return contacts, nil
}
