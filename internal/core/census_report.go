package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/familytree/internal/census"
	"github.com/JonMunkholm/familytree/internal/genealogy"
)

// CensusHeading is one column heading of a census report.
type CensusHeading struct {
	Abbreviation string
	Title        string
}

// CensusRow is one household member with a cell per column.
type CensusRow struct {
	Xref  string
	Name  string
	Cells []string
}

// CensusReport is a census form filled in for one household.
type CensusReport struct {
	Key      string
	Title    string
	Place    string
	Date     time.Time
	HeadXref string
	Headings []CensusHeading
	Rows     []CensusRow
}

// CensusReport fills in the census censusKey for the household headed by
// headXref in tree.
//
// The household is the head, then each spouse and the children of every
// spouse family of the head. Members born after the census or dead before
// it are left out; the head is always included.
func (s *Service) CensusReport(ctx context.Context, tree Tree, censusKey, headXref string) (*CensusReport, error) {
	c, ok := census.Get(censusKey)
	if !ok {
		return nil, fmt.Errorf("census %q: %w", censusKey, ErrCensusNotFound)
	}

	loader := s.NewLoader(ctx, tree)
	head, err := loader.Individual(headXref)
	if err != nil {
		return nil, err
	}

	members := household(head, c.Date().Year())
	if err := loader.Err(); err != nil {
		return nil, fmt.Errorf("load household of %s: %w", headXref, err)
	}

	columns := c.Columns()
	report := &CensusReport{
		Key:      c.Key(),
		Title:    c.Title(),
		Place:    c.Place(),
		Date:     c.Date(),
		HeadXref: head.Xref(),
		Headings: make([]CensusHeading, len(columns)),
		Rows:     make([]CensusRow, 0, len(members)),
	}
	for i, col := range columns {
		report.Headings[i] = CensusHeading{Abbreviation: col.Abbreviation(), Title: col.Title()}
	}

	for _, member := range members {
		row := CensusRow{
			Xref:  member.Xref(),
			Name:  member.FullName(),
			Cells: make([]string, len(columns)),
		}
		for i, col := range columns {
			row.Cells[i] = col.Generate(member, head)
		}
		report.Rows = append(report.Rows, row)
	}

	// Columns resolve parents lazily, so errors may surface only now.
	if err := loader.Err(); err != nil {
		return nil, fmt.Errorf("generate census %s: %w", censusKey, err)
	}

	if s.metrics != nil {
		s.metrics.CensusRows.WithLabelValues(c.Key()).Add(float64(len(report.Rows)))
	}
	return report, nil
}

// household lists the head followed by spouses and children alive in year.
func household(head genealogy.Individual, year int) []genealogy.Individual {
	members := []genealogy.Individual{head}
	seen := map[string]bool{head.Xref(): true}

	add := func(ind genealogy.Individual) {
		if seen[ind.Xref()] || !aliveIn(ind, year) {
			return
		}
		seen[ind.Xref()] = true
		members = append(members, ind)
	}

	for _, fam := range head.SpouseFamilies() {
		if spouse, ok := genealogy.Spouse(fam, head); ok {
			add(spouse)
		}
		for _, child := range fam.Children() {
			add(child)
		}
	}
	return members
}

// aliveIn reports whether ind may have been alive during year. Unknown
// dates count as alive.
func aliveIn(ind genealogy.Individual, year int) bool {
	if birth := ind.BirthYear(); birth > 0 && birth > year {
		return false
	}
	if death := ind.DeathYear(); death > 0 && death < year {
		return false
	}
	return true
}
