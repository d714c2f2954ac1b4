package census

import "time"

// ColumnsFunc builds the columns of a census form. It receives the census so
// that columns can read its place and date.
type ColumnsFunc func(c *Census) []Column

// Census is one historical census: where and when it was taken and the
// columns of its form.
type Census struct {
	key     string
	place   string
	title   string
	date    time.Time
	columns []Column
}

// New creates a census taken in place on date. The place is a country name
// in the same convention as the last part of a hierarchical place name.
func New(key, place, title string, date time.Time, columns ColumnsFunc) *Census {
	c := &Census{
		key:   key,
		place: place,
		title: title,
		date:  date,
	}
	if columns != nil {
		c.columns = columns(c)
	}
	return c
}

// Key returns the registry key, e.g. "us-1880".
func (c *Census) Key() string { return c.key }

// Place returns the country the census was taken in.
func (c *Census) Place() string { return c.place }

// Title returns a display title for the census.
func (c *Census) Title() string { return c.title }

// Date returns the official census day.
func (c *Census) Date() time.Time { return c.date }

// Columns returns the columns of the census form in order.
func (c *Census) Columns() []Column { return c.columns }
