package census

import (
	"strconv"

	"github.com/JonMunkholm/familytree/internal/genealogy"
)

// Column is one column of a census form.
type Column interface {
	// Abbreviation is the short column heading, e.g. "BP".
	Abbreviation() string

	// Title is the full column heading.
	Title() string

	// Generate returns the cell for individual in the household headed by
	// head. It never fails; missing data yields an empty string.
	Generate(individual, head genealogy.Individual) string
}

// column holds what every column shares.
type column struct {
	census *Census
	abbr   string
	title  string
}

func newColumn(c *Census, abbr, title string) column {
	return column{census: c, abbr: abbr, title: title}
}

func (c column) Abbreviation() string { return c.abbr }
func (c column) Title() string { return c.title }

// place returns the reference country of the census.
func (c column) place() string {
	if c.census == nil {
		return ""
	}
	return c.census.Place()
}

// BirthPlaceSimple reports the individual's birthplace as a state or
// province when born in the census country, otherwise as a country.
type BirthPlaceSimple struct {
	column
}

// NewBirthPlaceSimple creates a simple birthplace column for c.
func NewBirthPlaceSimple(c *Census, abbr, title string) *BirthPlaceSimple {
	return &BirthPlaceSimple{column: newColumn(c, abbr, title)}
}

// Generate implements Column.
func (col *BirthPlaceSimple) Generate(individual, _ genealogy.Individual) string {
	if individual == nil {
		return ""
	}
	return Subdivision(ParsePlace(individual.BirthPlace()), col.place())
}

// ParentBirthPlaceSimple reports a parent's birthplace the same way
// BirthPlaceSimple reports the individual's own.
type ParentBirthPlaceSimple struct {
	column
	role genealogy.ParentRole
}

// NewParentBirthPlaceSimple creates a simple birthplace column for the
// parent with the given role.
func NewParentBirthPlaceSimple(c *Census, role genealogy.ParentRole, abbr, title string) *ParentBirthPlaceSimple {
	return &ParentBirthPlaceSimple{column: newColumn(c, abbr, title), role: role}
}

// NewMotherBirthPlaceSimple creates a column for the mother's birthplace.
func NewMotherBirthPlaceSimple(c *Census, abbr, title string) *ParentBirthPlaceSimple {
	return NewParentBirthPlaceSimple(c, genealogy.Mother, abbr, title)
}

// NewFatherBirthPlaceSimple creates a column for the father's birthplace.
func NewFatherBirthPlaceSimple(c *Census, abbr, title string) *ParentBirthPlaceSimple {
	return NewParentBirthPlaceSimple(c, genealogy.Father, abbr, title)
}

// Role returns the parent this column reports on.
func (col *ParentBirthPlaceSimple) Role() genealogy.ParentRole { return col.role }

// Generate implements Column.
func (col *ParentBirthPlaceSimple) Generate(individual, _ genealogy.Individual) string {
	if individual == nil {
		return ""
	}

	family, ok := individual.PrimaryChildFamily()
	if !ok {
		return ""
	}

	parent, ok := genealogy.Parent(family, col.role)
	if !ok {
		return ""
	}

	return Subdivision(ParsePlace(parent.BirthPlace()), col.place())
}

// BirthPlace reports the full birthplace as recorded.
type BirthPlace struct {
	column
}

// NewBirthPlace creates a full birthplace column.
func NewBirthPlace(c *Census, abbr, title string) *BirthPlace {
	return &BirthPlace{column: newColumn(c, abbr, title)}
}

// Generate implements Column.
func (col *BirthPlace) Generate(individual, _ genealogy.Individual) string {
	if individual == nil {
		return ""
	}
	return individual.BirthPlace()
}

// FullName reports the individual's name.
type FullName struct {
	column
}

// NewFullName creates a name column.
func NewFullName(c *Census, abbr, title string) *FullName {
	return &FullName{column: newColumn(c, abbr, title)}
}

// Generate implements Column.
func (col *FullName) Generate(individual, _ genealogy.Individual) string {
	if individual == nil {
		return ""
	}
	return individual.FullName()
}

// SexMF reports "M" or "F"; unknown sex is blank.
type SexMF struct {
	column
}

// NewSexMF creates a sex column.
func NewSexMF(c *Census, abbr, title string) *SexMF {
	return &SexMF{column: newColumn(c, abbr, title)}
}

// Generate implements Column.
func (col *SexMF) Generate(individual, _ genealogy.Individual) string {
	if individual == nil {
		return ""
	}
	switch individual.Sex() {
	case genealogy.SexMale:
		return "M"
	case genealogy.SexFemale:
		return "F"
	default:
		return ""
	}
}

// Age reports the age in whole years on the census day, computed from the
// birth year. Unknown or later birth years are blank.
type Age struct {
	column
}

// NewAge creates an age column.
func NewAge(c *Census, abbr, title string) *Age {
	return &Age{column: newColumn(c, abbr, title)}
}

// Generate implements Column.
func (col *Age) Generate(individual, _ genealogy.Individual) string {
	if individual == nil || col.census == nil {
		return ""
	}
	born := individual.BirthYear()
	if born == 0 {
		return ""
	}
	age := col.census.Date().Year() - born
	if age < 0 {
		return ""
	}
	return strconv.Itoa(age)
}

// BirthYear reports the year of birth.
type BirthYear struct {
	column
}

// NewBirthYear creates a year-of-birth column.
func NewBirthYear(c *Census, abbr, title string) *BirthYear {
	return &BirthYear{column: newColumn(c, abbr, title)}
}

// Generate implements Column.
func (col *BirthYear) Generate(individual, _ genealogy.Individual) string {
	if individual == nil || individual.BirthYear() == 0 {
		return ""
	}
	return strconv.Itoa(individual.BirthYear())
}

// RelationToHead reports the relationship of the individual to the head of
// the household: Head, Wife, Husband, Son, Daughter or Child.
type RelationToHead struct {
	column
}

// NewRelationToHead creates a relationship column.
func NewRelationToHead(c *Census, abbr, title string) *RelationToHead {
	return &RelationToHead{column: newColumn(c, abbr, title)}
}

// Generate implements Column.
func (col *RelationToHead) Generate(individual, head genealogy.Individual) string {
	if individual == nil || head == nil {
		return ""
	}
	if individual.Xref() == head.Xref() {
		return "Head"
	}

	for _, family := range head.SpouseFamilies() {
		if spouse, ok := genealogy.Spouse(family, head); ok && spouse.Xref() == individual.Xref() {
			return bySex(individual.Sex(), "Husband", "Wife", "Spouse")
		}
		if genealogy.ParentFamilyOf(family, individual) {
			return bySex(individual.Sex(), "Son", "Daughter", "Child")
		}
	}
	return ""
}

// Null is a column the application does not fill in, such as occupation.
type Null struct {
	column
}

// NewNull creates an always-empty column.
func NewNull(c *Census, abbr, title string) *Null {
	return &Null{column: newColumn(c, abbr, title)}
}

// Generate implements Column.
func (col *Null) Generate(_, _ genealogy.Individual) string { return "" }

func bySex(sex genealogy.Sex, male, female, unknown string) string {
	switch sex {
	case genealogy.SexMale:
		return male
	case genealogy.SexFemale:
		return female
	default:
		return unknown
	}
}
