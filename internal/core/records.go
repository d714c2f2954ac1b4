package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/familytree/internal/database"
	"github.com/JonMunkholm/familytree/internal/genealogy"
)

// Loader reads individuals and families of one tree on demand and memoizes
// them, so that walking relationships never reads a record twice.
//
// Relationship accessors cannot return errors. The first database error
// they hit is kept and reported by Err; callers check it once the walk is
// done.
type Loader struct {
	ctx  context.Context
	q    database.Querier
	tree Tree

	individuals map[string]*Individual
	families    map[string]*Family
	err         error
}

// NewLoader creates a Loader for tree bound to ctx.
func (s *Service) NewLoader(ctx context.Context, tree Tree) *Loader {
	return &Loader{
		ctx:         ctx,
		q:           s.q,
		tree:        tree,
		individuals: make(map[string]*Individual),
		families:    make(map[string]*Family),
	}
}

// Err returns the first error encountered while resolving relationships.
func (l *Loader) Err() error {
	return l.err
}

func (l *Loader) fail(err error) {
	if l.err == nil {
		l.err = err
	}
}

// Individual loads an individual by xref.
func (l *Loader) Individual(xref string) (*Individual, error) {
	if ind, ok := l.individuals[xref]; ok {
		if ind == nil {
			return nil, fmt.Errorf("individual %s: %w", xref, ErrIndividualNotFound)
		}
		return ind, nil
	}

	row, err := l.q.GetIndividual(l.ctx, database.GetIndividualParams{TreeID: l.tree.ID, Xref: xref})
	if errors.Is(err, pgx.ErrNoRows) {
		l.individuals[xref] = nil
		return nil, fmt.Errorf("individual %s: %w", xref, ErrIndividualNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get individual %s: %w", xref, err)
	}
	return l.addIndividual(row), nil
}

// Family loads a family by xref.
func (l *Loader) Family(xref string) (*Family, error) {
	if fam, ok := l.families[xref]; ok {
		if fam == nil {
			return nil, fmt.Errorf("family %s: %w", xref, ErrFamilyNotFound)
		}
		return fam, nil
	}

	row, err := l.q.GetFamily(l.ctx, database.GetFamilyParams{TreeID: l.tree.ID, Xref: xref})
	if errors.Is(err, pgx.ErrNoRows) {
		l.families[xref] = nil
		return nil, fmt.Errorf("family %s: %w", xref, ErrFamilyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get family %s: %w", xref, err)
	}
	return l.addFamily(row), nil
}

func (l *Loader) addIndividual(row database.Individual) *Individual {
	if ind, ok := l.individuals[row.Xref]; ok && ind != nil {
		return ind
	}
	ind := &Individual{l: l, row: row}
	l.individuals[row.Xref] = ind
	return ind
}

func (l *Loader) addFamily(row database.Family) *Family {
	if fam, ok := l.families[row.Xref]; ok && fam != nil {
		return fam
	}
	fam := &Family{l: l, row: row}
	l.families[row.Xref] = fam
	return fam
}

// optionalIndividual resolves a nullable xref column.
func (l *Loader) optionalIndividual(xref pgtype.Text) (*Individual, bool) {
	if !xref.Valid || xref.String == "" {
		return nil, false
	}
	ind, err := l.Individual(xref.String)
	if err != nil {
		if !errors.Is(err, ErrIndividualNotFound) {
			l.fail(err)
		}
		return nil, false
	}
	return ind, true
}

// Individual is a database-backed genealogy.Individual.
type Individual struct {
	l   *Loader
	row database.Individual

	childFamilies  []*Family
	spouseFamilies []*Family
	childLoaded    bool
	spouseLoaded   bool
}

var _ genealogy.Individual = (*Individual)(nil)

func (i *Individual) Xref() string { return i.row.Xref }
func (i *Individual) GivenName() string { return i.row.GivenName }
func (i *Individual) Surname() string { return i.row.Surname }
func (i *Individual) Sex() genealogy.Sex { return genealogy.ParseSex(i.row.Sex) }
func (i *Individual) BirthYear() int { return int(i.row.BirthYear) }
func (i *Individual) DeathYear() int { return int(i.row.DeathYear) }
func (i *Individual) BirthPlace() string { return i.row.BirthPlace }

// FullName joins the given names and surname.
func (i *Individual) FullName() string {
	name := strings.TrimSpace(i.row.GivenName + " " + i.row.Surname)
	if name == "" {
		return "@N.N."
	}
	return name
}

// ChildFamilies returns the families the individual is a child of, birth
// family first.
func (i *Individual) ChildFamilies() []*Family {
	if !i.childLoaded {
		rows, err := i.l.q.ListChildFamilies(i.l.ctx, database.ListChildFamiliesParams{
			TreeID:    i.l.tree.ID,
			ChildXref: i.row.Xref,
		})
		if err != nil {
			i.l.fail(fmt.Errorf("child families of %s: %w", i.row.Xref, err))
			return nil
		}
		for _, row := range rows {
			i.childFamilies = append(i.childFamilies, i.l.addFamily(row))
		}
		i.childLoaded = true
	}
	return i.childFamilies
}

// PrimaryChildFamily returns the birth family.
func (i *Individual) PrimaryChildFamily() (genealogy.Family, bool) {
	families := i.ChildFamilies()
	if len(families) == 0 {
		return nil, false
	}
	return families[0], true
}

// SpouseFamilyRecords returns the families the individual is a partner in,
// ordered by marriage year.
func (i *Individual) SpouseFamilyRecords() []*Family {
	if !i.spouseLoaded {
		rows, err := i.l.q.ListSpouseFamilies(i.l.ctx, database.ListSpouseFamiliesParams{
			TreeID: i.l.tree.ID,
			Xref:   i.row.Xref,
		})
		if err != nil {
			i.l.fail(fmt.Errorf("spouse families of %s: %w", i.row.Xref, err))
			return nil
		}
		for _, row := range rows {
			i.spouseFamilies = append(i.spouseFamilies, i.l.addFamily(row))
		}
		i.spouseLoaded = true
	}
	return i.spouseFamilies
}

// SpouseFamilies implements genealogy.Individual.
func (i *Individual) SpouseFamilies() []genealogy.Family {
	records := i.SpouseFamilyRecords()
	families := make([]genealogy.Family, len(records))
	for n, f := range records {
		families[n] = f
	}
	return families
}

// Family is a database-backed genealogy.Family.
type Family struct {
	l   *Loader
	row database.Family

	children       []*Individual
	childrenLoaded bool
}

var _ genealogy.Family = (*Family)(nil)

func (f *Family) Xref() string { return f.row.Xref }
func (f *Family) MarriageYear() int { return int(f.row.MarriageYear) }

// Husband implements genealogy.Family.
func (f *Family) Husband() (genealogy.Individual, bool) {
	ind, ok := f.l.optionalIndividual(f.row.HusbandXref)
	if !ok {
		return nil, false
	}
	return ind, true
}

// Wife implements genealogy.Family.
func (f *Family) Wife() (genealogy.Individual, bool) {
	ind, ok := f.l.optionalIndividual(f.row.WifeXref)
	if !ok {
		return nil, false
	}
	return ind, true
}

// ChildRecords returns the children in birth order.
func (f *Family) ChildRecords() []*Individual {
	if !f.childrenLoaded {
		rows, err := f.l.q.ListFamilyChildren(f.l.ctx, database.ListFamilyChildrenParams{
			TreeID:     f.l.tree.ID,
			FamilyXref: f.row.Xref,
		})
		if err != nil {
			f.l.fail(fmt.Errorf("children of %s: %w", f.row.Xref, err))
			return nil
		}
		for _, row := range rows {
			f.children = append(f.children, f.l.addIndividual(row))
		}
		f.childrenLoaded = true
	}
	return f.children
}

// Children implements genealogy.Family.
func (f *Family) Children() []genealogy.Individual {
	records := f.ChildRecords()
	children := make([]genealogy.Individual, len(records))
	for n, c := range records {
		children[n] = c
	}
	return children
}
