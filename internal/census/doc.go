// Package census builds the columns of historical census transcriptions.
//
// A [Census] names the country it was taken in, the day it was taken, and
// the ordered columns of its form. Each [Column] turns one household member
// into the text of one cell:
//
//	c := census.Get("us-1880")
//	for _, col := range c.Columns() {
//	    cell := col.Generate(member, head)
//	}
//
// # Birthplace columns
//
// Many forms ask for a birthplace as "state or territory if born in the
// country, otherwise the foreign country". [BirthPlaceSimple] and
// [ParentBirthPlaceSimple] answer that question from a hierarchical place
// name such as "Miami, Florida, United States" using [Subdivision].
//
// Missing data is never an error: an unknown place, family or parent
// produces an empty cell.
//
// # Catalogue
//
// Censuses are registered at init time with [Register], normally from
// package census/catalog, and looked up with [Get], [All] or [ByPlace].
package census
