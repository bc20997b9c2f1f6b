package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/openswoop/syllabank/pkg/roster"
)

type prompter struct {
	in      io.Reader
	out     io.Writer
	scanner *bufio.Scanner
}

func (p *prompter) ask(question string) (string, error) {
	if p.scanner == nil {
		p.scanner = bufio.NewScanner(p.in)
	}
	_, _ = fmt.Fprint(p.out, question)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no input for " + strings.TrimSpace(question))
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// term asks for the year and term name unless they were already given
func (p *prompter) term(year, season string, table roster.TermTable) (roster.Term, error) {
	var err error
	if year == "" {
		if year, err = p.ask("Year (e.g. 2023): "); err != nil {
			return roster.Term{}, err
		}
	}
	if season == "" {
		question := fmt.Sprintf("Term (%s): ", strings.Join(table.Seasons(), ", "))
		if season, err = p.ask(question); err != nil {
			return roster.Term{}, err
		}
	}
	return roster.ParseTerm(year, season, table)
}
