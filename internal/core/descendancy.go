package core

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/familytree/internal/database"
	"github.com/JonMunkholm/familytree/internal/genealogy"
)

// ModuleDescendancy is the sidebar listing an individual's descendants.
const ModuleDescendancy = "descendancy"

const (
	// MinSearchLength is the shortest query the sidebar searches for.
	MinSearchLength = 2

	// SearchLimit caps the number of search results.
	SearchLimit = 50

	// MaxDescendancyGenerations caps how deep one request expands.
	MaxDescendancyGenerations = 4

	// PrivateName replaces the name of a hidden individual.
	PrivateName = "Private"
)

func init() {
	RegisterModule(ModuleInfo{
		Name:          ModuleDescendancy,
		Title:         "Descendants",
		Description:   "A sidebar showing the descendants of an individual.",
		Component:     ComponentSidebar,
		DefaultAccess: PrivPrivate,
	})
}

// DescendancyPerson is one individual in the sidebar. Families is set only
// when the person is expanded.
type DescendancyPerson struct {
	Xref     string
	Name     string
	Sex      genealogy.Sex
	Lifespan string
	Visible  bool
	Expanded bool
	Families []DescendancyFamily
}

// DescendancyFamily is one spouse family and its children. Spouse is nil for
// a single parent; an empty Children slice renders as "No children".
type DescendancyFamily struct {
	Xref         string
	Spouse       *DescendancyPerson
	MarriageYear int
	Children     []DescendancyPerson
}

// SearchDescendancy finds individuals whose names contain query. Queries
// shorter than MinSearchLength return nothing.
func (s *Service) SearchDescendancy(ctx context.Context, tree Tree, viewer Viewer, query string) ([]DescendancyPerson, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchLength {
		return nil, nil
	}

	rows, err := s.q.SearchIndividuals(ctx, database.SearchIndividualsParams{
		TreeID:  tree.ID,
		Pattern: "%" + escapeLike(query) + "%",
		Limit:   SearchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("search individuals: %w", err)
	}

	loader := s.NewLoader(ctx, tree)
	now := s.now()
	var people []DescendancyPerson
	for _, row := range rows {
		ind := loader.addIndividual(row)
		if !CanShow(ind, viewer, now) {
			continue
		}
		people = append(people, s.person(ind, viewer, 0))
	}
	return people, nil
}

// DescendancySidebar returns xref expanded by one generation.
func (s *Service) DescendancySidebar(ctx context.Context, tree Tree, viewer Viewer, xref string) (*DescendancyPerson, error) {
	loader := s.NewLoader(ctx, tree)
	ind, err := s.visibleIndividual(loader, viewer, xref)
	if err != nil {
		return nil, err
	}

	p := s.person(ind, viewer, 1)
	if err := loader.Err(); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BlockRenders.WithLabelValues(ModuleDescendancy).Inc()
	}
	return &p, nil
}

// Descendants returns the spouse families of xref with their children,
// expanding generations levels. Unknown and hidden individuals yield
// ErrIndividualNotFound.
func (s *Service) Descendants(ctx context.Context, tree Tree, viewer Viewer, xref string, generations int) ([]DescendancyFamily, error) {
	loader := s.NewLoader(ctx, tree)
	ind, err := s.visibleIndividual(loader, viewer, xref)
	if err != nil {
		return nil, err
	}

	families := s.families(ind, viewer, clampGenerations(generations))
	if err := loader.Err(); err != nil {
		return nil, err
	}
	return families, nil
}

func (s *Service) visibleIndividual(loader *Loader, viewer Viewer, xref string) (*Individual, error) {
	ind, err := loader.Individual(xref)
	if err != nil {
		return nil, err
	}
	if !CanShow(ind, viewer, s.now()) {
		return nil, fmt.Errorf("individual %s: %w", xref, ErrIndividualNotFound)
	}
	return ind, nil
}

func clampGenerations(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxDescendancyGenerations:
		return MaxDescendancyGenerations
	default:
		return n
	}
}

// person describes ind, expanding its families when generations > 0.
func (s *Service) person(ind genealogy.Individual, viewer Viewer, generations int) DescendancyPerson {
	if !CanShow(ind, viewer, s.now()) {
		return DescendancyPerson{Xref: ind.Xref(), Name: PrivateName, Sex: genealogy.SexUnknown}
	}

	p := DescendancyPerson{
		Xref:     ind.Xref(),
		Name:     ind.FullName(),
		Sex:      ind.Sex(),
		Lifespan: genealogy.Lifespan(ind),
		Visible:  true,
	}
	if generations > 0 {
		p.Expanded = true
		p.Families = s.families(ind, viewer, generations)
	}
	return p
}

// families lists the spouse families of ind. Children are expanded while
// more than one generation remains.
func (s *Service) families(ind genealogy.Individual, viewer Viewer, generations int) []DescendancyFamily {
	var out []DescendancyFamily
	for _, fam := range ind.SpouseFamilies() {
		df := DescendancyFamily{
			Xref:         fam.Xref(),
			MarriageYear: fam.MarriageYear(),
			Children:     []DescendancyPerson{},
		}
		if spouse, ok := genealogy.Spouse(fam, ind); ok {
			sp := s.person(spouse, viewer, 0)
			df.Spouse = &sp
		}
		for _, child := range fam.Children() {
			df.Children = append(df.Children, s.person(child, viewer, generations-1))
		}
		out = append(out, df)
	}
	return out
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
