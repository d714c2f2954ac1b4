// Package genealogytest provides in-memory genealogy records for tests.
package genealogytest

import (
	"strings"

	"github.com/JonMunkholm/familytree/internal/genealogy"
)

// Person is an in-memory genealogy.Individual.
type Person struct {
	ID         string
	Given      string
	Family     string
	Gender     genealogy.Sex
	Born       int
	Died       int
	Birthplace string

	ChildOf  *Family
	SpouseIn []*Family
}

// NewPerson returns a person with the given xref and birthplace.
func NewPerson(xref, birthPlace string) *Person {
	return &Person{ID: xref, Birthplace: birthPlace, Gender: genealogy.SexUnknown}
}

func (p *Person) Xref() string { return p.ID }
func (p *Person) GivenName() string { return p.Given }
func (p *Person) Surname() string { return p.Family }
func (p *Person) Sex() genealogy.Sex { return p.Gender }
func (p *Person) BirthYear() int { return p.Born }
func (p *Person) DeathYear() int { return p.Died }
func (p *Person) BirthPlace() string { return p.Birthplace }

func (p *Person) FullName() string {
	return strings.TrimSpace(p.Given + " " + p.Family)
}

func (p *Person) PrimaryChildFamily() (genealogy.Family, bool) {
	if p.ChildOf == nil {
		return nil, false
	}
	return p.ChildOf, true
}

func (p *Person) SpouseFamilies() []genealogy.Family {
	out := make([]genealogy.Family, len(p.SpouseIn))
	for i, f := range p.SpouseIn {
		out[i] = f
	}
	return out
}

// Family is an in-memory genealogy.Family.
type Family struct {
	ID       string
	Husb     *Person
	Wif      *Person
	Kids     []*Person
	Marriage int
}

// NewFamily links husband, wife and children into a family.
// Either parent may be nil.
func NewFamily(xref string, husband, wife *Person, children ...*Person) *Family {
	f := &Family{ID: xref, Husb: husband, Wif: wife, Kids: children}
	if husband != nil {
		husband.SpouseIn = append(husband.SpouseIn, f)
	}
	if wife != nil {
		wife.SpouseIn = append(wife.SpouseIn, f)
	}
	for _, child := range children {
		if child.ChildOf == nil {
			child.ChildOf = f
		}
	}
	return f
}

func (f *Family) Xref() string      { return f.ID }
func (f *Family) MarriageYear() int { return f.Marriage }

func (f *Family) Husband() (genealogy.Individual, bool) {
	if f.Husb == nil {
		return nil, false
	}
	return f.Husb, true
}

func (f *Family) Wife() (genealogy.Individual, bool) {
	if f.Wif == nil {
		return nil, false
	}
	return f.Wif, true
}

func (f *Family) Children() []genealogy.Individual {
	out := make([]genealogy.Individual, len(f.Kids))
	for i, c := range f.Kids {
		out[i] = c
	}
	return out
}
