// Package catalog registers the known census forms.
//
// Import it for its side effects:
//
//	import _ "github.com/JonMunkholm/familytree/internal/census/catalog"
package catalog

import (
	"time"

	"github.com/JonMunkholm/familytree/internal/census"
)

// England is the census place for the censuses of England.
const England = "England"

// Canada is the census place for the censuses of Canada.
const Canada = "Canada"

func init() {
	census.Register(census.New("en-1881", England, "England 1881", date(1881, time.April, 3), en1881))
	census.Register(census.New("en-1911", England, "England 1911", date(1911, time.April, 2), en1911))
	census.Register(census.New("ca-1901", Canada, "Canada 1901", date(1901, time.March, 31), ca1901))
}

func en1881(c *census.Census) []census.Column {
	return []census.Column{
		census.NewFullName(c, "Name", "Name and surname"),
		census.NewRelationToHead(c, "Relation", "Relation to head of family"),
		census.NewAge(c, "Age", "Age last birthday"),
		census.NewSexMF(c, "Sex", "Sex"),
		census.NewNull(c, "Occupation", "Rank, profession or occupation"),
		census.NewBirthPlace(c, "Birthplace", "Where born"),
	}
}

func en1911(c *census.Census) []census.Column {
	return []census.Column{
		census.NewFullName(c, "Name", "Name and surname"),
		census.NewRelationToHead(c, "Relation", "Relationship to head of family"),
		census.NewAge(c, "Age", "Age last birthday"),
		census.NewSexMF(c, "Sex", "Sex"),
		census.NewNull(c, "Occupation", "Personal occupation"),
		census.NewBirthPlaceSimple(c, "BP", "Birthplace"),
	}
}

func ca1901(c *census.Census) []census.Column {
	return []census.Column{
		census.NewFullName(c, "Name", "Name"),
		census.NewSexMF(c, "Sex", "Sex"),
		census.NewRelationToHead(c, "Relation", "Relationship to head of family or household"),
		census.NewBirthYear(c, "Year", "Year of birth"),
		census.NewAge(c, "Age", "Age at last birthday"),
		census.NewBirthPlaceSimple(c, "BP", "Country or place of birth"),
	}
}
