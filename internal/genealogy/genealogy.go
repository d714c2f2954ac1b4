// Package genealogy defines the record contracts shared by the census
// columns, the dashboard modules and the web views.
//
// The contracts are capability interfaces rather than concrete types so that
// database-backed records (see package core) and lightweight test doubles
// (see package genealogytest) are interchangeable.
package genealogy

import (
	"strconv"
	"strings"
	"time"
)

// Sex is the GEDCOM sex code of an individual.
type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "U"
)

// ParseSex normalizes a stored sex code. Anything other than M or F is unknown.
func ParseSex(s string) Sex {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return SexMale
	case "F":
		return SexFemale
	default:
		return SexUnknown
	}
}

// Individual is a person in a family tree.
//
// Absent values are reported as zero values: an empty birthplace, a zero
// year, or false from the relationship accessors.
type Individual interface {
	Xref() string
	GivenName() string
	Surname() string
	FullName() string
	Sex() Sex
	BirthYear() int
	DeathYear() int
	BirthPlace() string
	PrimaryChildFamily() (Family, bool)
	SpouseFamilies() []Family
}

// Family is a couple and their children.
type Family interface {
	Xref() string
	Husband() (Individual, bool)
	Wife() (Individual, bool)
	Children() []Individual
	MarriageYear() int
}

// ParentRole selects one parent of a family.
type ParentRole int

const (
	Mother ParentRole = iota
	Father
)

// String returns the role name.
func (r ParentRole) String() string {
	switch r {
	case Mother:
		return "mother"
	case Father:
		return "father"
	default:
		return "parent(" + strconv.Itoa(int(r)) + ")"
	}
}

// Parent returns the family member holding the given role.
func Parent(f Family, role ParentRole) (Individual, bool) {
	if f == nil {
		return nil, false
	}
	switch role {
	case Mother:
		return f.Wife()
	case Father:
		return f.Husband()
	default:
		return nil, false
	}
}

// Spouse returns the other partner of a family relative to ind.
func Spouse(f Family, ind Individual) (Individual, bool) {
	husband, hasHusband := f.Husband()
	wife, hasWife := f.Wife()

	switch {
	case hasHusband && husband.Xref() == ind.Xref():
		return wife, hasWife
	case hasWife && wife.Xref() == ind.Xref():
		return husband, hasHusband
	default:
		return nil, false
	}
}

// ParentFamilyOf reports whether ind is a child of f.
func ParentFamilyOf(f Family, ind Individual) bool {
	for _, child := range f.Children() {
		if child.Xref() == ind.Xref() {
			return true
		}
	}
	return false
}

// Lifespan formats the birth and death years as "1850-1910".
// Unknown years are left blank; both unknown yields an empty string.
func Lifespan(ind Individual) string {
	birth, death := ind.BirthYear(), ind.DeathYear()
	if birth == 0 && death == 0 {
		return ""
	}

	var b strings.Builder
	if birth > 0 {
		b.WriteString(strconv.Itoa(birth))
	}
	b.WriteString("-")
	if death > 0 {
		b.WriteString(strconv.Itoa(death))
	}
	return b.String()
}

// MaxAliveAge is the age beyond which an individual without a death record
// is presumed dead.
const MaxAliveAge = 110

// IsDead reports whether ind can be presumed dead at the given time.
func IsDead(ind Individual, now time.Time) bool {
	if ind.DeathYear() > 0 {
		return true
	}
	birth := ind.BirthYear()
	return birth > 0 && now.Year()-birth > MaxAliveAge
}
