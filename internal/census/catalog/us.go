package catalog

import (
	"time"

	"github.com/JonMunkholm/familytree/internal/census"
)

// UnitedStates is the census place for every US census.
const UnitedStates = "United States"

func init() {
	census.Register(census.New("us-1850", UnitedStates, "US 1850", date(1850, time.June, 1), us1850))
	census.Register(census.New("us-1880", UnitedStates, "US 1880", date(1880, time.June, 1), us1880))
	census.Register(census.New("us-1900", UnitedStates, "US 1900", date(1900, time.June, 1), us1900))
	census.Register(census.New("us-1910", UnitedStates, "US 1910", date(1910, time.April, 15), us1910))
}

func us1850(c *census.Census) []census.Column {
	return []census.Column{
		census.NewFullName(c, "Name", "Name"),
		census.NewAge(c, "Age", "Age"),
		census.NewSexMF(c, "Sex", "Sex"),
		census.NewNull(c, "Occupation", "Profession, occupation, or trade"),
		census.NewBirthPlaceSimple(c, "BP", "Place of birth, naming the state, territory, or country"),
	}
}

func us1880(c *census.Census) []census.Column {
	return []census.Column{
		census.NewFullName(c, "Name", "Name"),
		census.NewSexMF(c, "Sex", "Sex"),
		census.NewAge(c, "Age", "Age at last birthday"),
		census.NewRelationToHead(c, "Relation", "Relationship to the head of the household"),
		census.NewNull(c, "Occupation", "Profession, occupation, or trade"),
		census.NewBirthPlaceSimple(c, "BP", "Place of birth, naming the state, territory, or country"),
		census.NewFatherBirthPlaceSimple(c, "FBP", "Place of birth of the father of this person"),
		census.NewMotherBirthPlaceSimple(c, "MBP", "Place of birth of the mother of this person"),
	}
}

func us1900(c *census.Census) []census.Column {
	return []census.Column{
		census.NewFullName(c, "Name", "Name"),
		census.NewRelationToHead(c, "Relation", "Relationship to the head of the family"),
		census.NewSexMF(c, "Sex", "Sex"),
		census.NewBirthYear(c, "Year", "Year of birth"),
		census.NewAge(c, "Age", "Age at last birthday"),
		census.NewBirthPlaceSimple(c, "BP", "Place of birth of this person"),
		census.NewFatherBirthPlaceSimple(c, "FBP", "Place of birth of father of this person"),
		census.NewMotherBirthPlaceSimple(c, "MBP", "Place of birth of mother of this person"),
		census.NewNull(c, "Occupation", "Occupation, trade, or profession"),
	}
}

func us1910(c *census.Census) []census.Column {
	return []census.Column{
		census.NewFullName(c, "Name", "Name"),
		census.NewRelationToHead(c, "Relation", "Relationship of this person to the head of the family"),
		census.NewSexMF(c, "Sex", "Sex"),
		census.NewAge(c, "Age", "Age at last birthday"),
		census.NewBirthPlaceSimple(c, "BP", "Place of birth of this person"),
		census.NewFatherBirthPlaceSimple(c, "FBP", "Place of birth of father of this person"),
		census.NewMotherBirthPlaceSimple(c, "MBP", "Place of birth of mother of this person"),
		census.NewNull(c, "Lang", "Whether able to speak English, or if not, give language spoken"),
		census.NewNull(c, "Occupation", "Trade or profession"),
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
