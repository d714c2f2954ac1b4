package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const getTreeByName = `-- name: GetTreeByName :one
SELECT tree_id, name, title FROM tree WHERE name = $1
`

func (q *Queries) GetTreeByName(ctx context.Context, name string) (Tree, error) {
	row := q.db.QueryRow(ctx, getTreeByName, name)
	var i Tree
	err := row.Scan(&i.TreeID, &i.Name, &i.Title)
	return i, err
}

const listTrees = `-- name: ListTrees :many
SELECT tree_id, name, title FROM tree ORDER BY name
`

func (q *Queries) ListTrees(ctx context.Context) ([]Tree, error) {
	rows, err := q.db.Query(ctx, listTrees)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Tree
	for rows.Next() {
		var i Tree
		if err := rows.Scan(&i.TreeID, &i.Name, &i.Title); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getIndividual = `-- name: GetIndividual :one
SELECT tree_id, xref, given_name, surname, sex, birth_year, birth_place, death_year
FROM individual
WHERE tree_id = $1 AND xref = $2
`

type GetIndividualParams struct {
	TreeID int32
	Xref   string
}

func (q *Queries) GetIndividual(ctx context.Context, arg GetIndividualParams) (Individual, error) {
	row := q.db.QueryRow(ctx, getIndividual, arg.TreeID, arg.Xref)
	return scanIndividual(row)
}

const getFamily = `-- name: GetFamily :one
SELECT tree_id, xref, husband_xref, wife_xref, marriage_year
FROM family
WHERE tree_id = $1 AND xref = $2
`

type GetFamilyParams struct {
	TreeID int32
	Xref   string
}

func (q *Queries) GetFamily(ctx context.Context, arg GetFamilyParams) (Family, error) {
	row := q.db.QueryRow(ctx, getFamily, arg.TreeID, arg.Xref)
	var i Family
	err := row.Scan(&i.TreeID, &i.Xref, &i.HusbandXref, &i.WifeXref, &i.MarriageYear)
	return i, err
}

const listChildFamilies = `-- name: ListChildFamilies :many
SELECT f.tree_id, f.xref, f.husband_xref, f.wife_xref, f.marriage_year
FROM family f
JOIN family_child fc ON fc.tree_id = f.tree_id AND fc.family_xref = f.xref
WHERE fc.tree_id = $1 AND fc.child_xref = $2
ORDER BY (fc.pedigree <> 'birth'), f.xref
`

type ListChildFamiliesParams struct {
	TreeID    int32
	ChildXref string
}

// ListChildFamilies returns the families in which an individual is a child.
// Birth families sort first.
func (q *Queries) ListChildFamilies(ctx context.Context, arg ListChildFamiliesParams) ([]Family, error) {
	rows, err := q.db.Query(ctx, listChildFamilies, arg.TreeID, arg.ChildXref)
	if err != nil {
		return nil, err
	}
	return collectFamilies(rows)
}

const listSpouseFamilies = `-- name: ListSpouseFamilies :many
SELECT tree_id, xref, husband_xref, wife_xref, marriage_year
FROM family
WHERE tree_id = $1 AND (husband_xref = $2 OR wife_xref = $2)
ORDER BY marriage_year, xref
`

type ListSpouseFamiliesParams struct {
	TreeID int32
	Xref   string
}

func (q *Queries) ListSpouseFamilies(ctx context.Context, arg ListSpouseFamiliesParams) ([]Family, error) {
	rows, err := q.db.Query(ctx, listSpouseFamilies, arg.TreeID, arg.Xref)
	if err != nil {
		return nil, err
	}
	return collectFamilies(rows)
}

const listFamilyChildren = `-- name: ListFamilyChildren :many
SELECT i.tree_id, i.xref, i.given_name, i.surname, i.sex, i.birth_year, i.birth_place, i.death_year
FROM individual i
JOIN family_child fc ON fc.tree_id = i.tree_id AND fc.child_xref = i.xref
WHERE fc.tree_id = $1 AND fc.family_xref = $2
ORDER BY fc.position, i.birth_year, i.xref
`

type ListFamilyChildrenParams struct {
	TreeID     int32
	FamilyXref string
}

func (q *Queries) ListFamilyChildren(ctx context.Context, arg ListFamilyChildrenParams) ([]Individual, error) {
	rows, err := q.db.Query(ctx, listFamilyChildren, arg.TreeID, arg.FamilyXref)
	if err != nil {
		return nil, err
	}
	return collectIndividuals(rows)
}

const searchIndividuals = `-- name: SearchIndividuals :many
SELECT tree_id, xref, given_name, surname, sex, birth_year, birth_place, death_year
FROM individual
WHERE tree_id = $1
  AND (given_name ILIKE $2 OR surname ILIKE $2 OR (given_name || ' ' || surname) ILIKE $2)
ORDER BY surname, given_name, xref
LIMIT $3
`

type SearchIndividualsParams struct {
	TreeID  int32
	Pattern string
	Limit   int32
}

func (q *Queries) SearchIndividuals(ctx context.Context, arg SearchIndividualsParams) ([]Individual, error) {
	rows, err := q.db.Query(ctx, searchIndividuals, arg.TreeID, arg.Pattern, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectIndividuals(rows)
}

const topGivenNames = `-- name: TopGivenNames :many
SELECT split_part(given_name, ' ', 1) AS given_name, COUNT(*) AS total
FROM individual
WHERE tree_id = $1 AND sex = $2 AND given_name <> '' AND given_name <> '@N.N.'
GROUP BY 1
ORDER BY total DESC, 1
LIMIT $3
`

type TopGivenNamesParams struct {
	TreeID int32
	Sex    string
	Limit  int32
}

type TopGivenNamesRow struct {
	GivenName string
	Total     int64
}

func (q *Queries) TopGivenNames(ctx context.Context, arg TopGivenNamesParams) ([]TopGivenNamesRow, error) {
	rows, err := q.db.Query(ctx, topGivenNames, arg.TreeID, arg.Sex, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TopGivenNamesRow
	for rows.Next() {
		var i TopGivenNamesRow
		if err := rows.Scan(&i.GivenName, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanIndividual(row pgx.Row) (Individual, error) {
	var i Individual
	err := row.Scan(
		&i.TreeID,
		&i.Xref,
		&i.GivenName,
		&i.Surname,
		&i.Sex,
		&i.BirthYear,
		&i.BirthPlace,
		&i.DeathYear,
	)
	return i, err
}

func collectIndividuals(rows pgx.Rows) ([]Individual, error) {
	defer rows.Close()
	var items []Individual
	for rows.Next() {
		i, err := scanIndividual(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func collectFamilies(rows pgx.Rows) ([]Family, error) {
	defer rows.Close()
	var items []Family
	for rows.Next() {
		var i Family
		if err := rows.Scan(&i.TreeID, &i.Xref, &i.HusbandXref, &i.WifeXref, &i.MarriageYear); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
