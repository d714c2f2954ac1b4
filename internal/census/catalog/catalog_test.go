package catalog

import (
	"testing"

	"github.com/JonMunkholm/familytree/internal/census"
)

func TestCatalogRegistered(t *testing.T) {
	for _, key := range []string{"us-1850", "us-1880", "us-1900", "us-1910", "en-1881", "en-1911", "ca-1901"} {
		c, ok := census.Get(key)
		if !ok {
			t.Errorf("census %s not registered", key)
			continue
		}
		if len(c.Columns()) == 0 {
			t.Errorf("census %s has no columns", key)
		}
		for i, col := range c.Columns() {
			if col.Abbreviation() == "" || col.Title() == "" {
				t.Errorf("census %s column %d has empty heading", key, i)
			}
		}
	}
}

func TestUSCensusesUseUnitedStates(t *testing.T) {
	for _, c := range census.ByPlace(UnitedStates) {
		if c.Date().Year() < 1790 || c.Date().Year() > 1950 {
			t.Errorf("census %s has implausible date %v", c.Key(), c.Date())
		}
	}
	if n := len(census.ByPlace(UnitedStates)); n != 4 {
		t.Errorf("ByPlace(UnitedStates) = %d censuses, want 4", n)
	}
}
