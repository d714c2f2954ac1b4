package database

import (
	"context"
	"fmt"
	"strings"
)

// The user list joins one user_setting row per displayed preference, so its
// SQL is assembled at runtime rather than written as a fixed query.

// UserSortColumn is a sortable column of the user list.
type UserSortColumn string

const (
	SortUserName     UserSortColumn = "user_name"
	SortRealName     UserSortColumn = "real_name"
	SortEmail        UserSortColumn = "email"
	SortLanguage     UserSortColumn = "language"
	SortRegistered   UserSortColumn = "reg_timestamp"
	SortLastLogin    UserSortColumn = "sessiontime"
	SortVerified     UserSortColumn = "verified"
	SortAdminApprove UserSortColumn = "verified_by_admin"
)

// sortExpressions whitelists ORDER BY expressions; user input never reaches
// the SQL text.
var sortExpressions = map[UserSortColumn]string{
	SortUserName:     "u.user_name",
	SortRealName:     "u.real_name",
	SortEmail:        "u.email",
	SortLanguage:     "language",
	SortRegistered:   "reg_timestamp",
	SortLastLogin:    "sessiontime",
	SortVerified:     "verified",
	SortAdminApprove: "verified_by_admin",
}

// ValidUserSort reports whether c names a sortable column.
func ValidUserSort(c UserSortColumn) bool {
	_, ok := sortExpressions[c]
	return ok
}

const listUsersSelect = `SELECT
    u.user_id,
    u.user_name,
    u.real_name,
    u.email,
    COALESCE(us_language.setting_value, '') AS language,
    COALESCE(NULLIF(us_reg_timestamp.setting_value, ''), '0')::BIGINT AS reg_timestamp,
    COALESCE(NULLIF(us_sessiontime.setting_value, ''), '0')::BIGINT AS sessiontime,
    COALESCE(us_verified.setting_value, '') = '1' AS verified,
    COALESCE(us_verified_by_admin.setting_value, '') = '1' AS verified_by_admin,
    COALESCE(us_canadmin.setting_value, '') = '1' AS canadmin`

const listUsersFrom = `
FROM app_user u
LEFT JOIN user_setting us_language ON us_language.user_id = u.user_id AND us_language.setting_name = 'language'
LEFT JOIN user_setting us_reg_timestamp ON us_reg_timestamp.user_id = u.user_id AND us_reg_timestamp.setting_name = 'reg_timestamp'
LEFT JOIN user_setting us_sessiontime ON us_sessiontime.user_id = u.user_id AND us_sessiontime.setting_name = 'sessiontime'
LEFT JOIN user_setting us_verified ON us_verified.user_id = u.user_id AND us_verified.setting_name = 'verified'
LEFT JOIN user_setting us_verified_by_admin ON us_verified_by_admin.user_id = u.user_id AND us_verified_by_admin.setting_name = 'verified_by_admin'
LEFT JOIN user_setting us_canadmin ON us_canadmin.user_id = u.user_id AND us_canadmin.setting_name = 'canadmin'`

type ListUsersParams struct {
	Search  string
	OrderBy UserSortColumn
	Desc    bool
	// Limit of zero returns every matching user.
	Limit  int32
	Offset int32
}

type ListUsersRow struct {
	UserID          int32
	UserName        string
	RealName        string
	Email           string
	Language        string
	RegTimestamp    int64
	SessionTime     int64
	Verified        bool
	VerifiedByAdmin bool
	CanAdmin        bool
}

// buildListUsersQuery assembles the paged user list query.
func buildListUsersQuery(arg ListUsersParams) (string, []any) {
	var b strings.Builder
	var args []any

	b.WriteString(listUsersSelect)
	b.WriteString(listUsersFrom)
	where, args := userSearchClause(arg.Search, args)
	b.WriteString(where)

	expr, ok := sortExpressions[arg.OrderBy]
	if !ok {
		expr = sortExpressions[SortUserName]
	}
	dir := "ASC"
	if arg.Desc {
		dir = "DESC"
	}
	fmt.Fprintf(&b, "\nORDER BY %s %s, u.user_id", expr, dir)

	if arg.Limit > 0 {
		args = append(args, arg.Limit, arg.Offset)
		fmt.Fprintf(&b, "\nLIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return b.String(), args
}

// userSearchClause filters on user name, real name or email.
func userSearchClause(search string, args []any) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "\nWHERE u.user_id > 0", args
	}
	args = append(args, "%"+escapeLike(search)+"%")
	n := len(args)
	return fmt.Sprintf("\nWHERE u.user_id > 0 AND (u.user_name ILIKE $%d OR u.real_name ILIKE $%d OR u.email ILIKE $%d)", n, n, n), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]ListUsersRow, error) {
	query, args := buildListUsersQuery(arg)
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListUsersRow
	for rows.Next() {
		var i ListUsersRow
		if err := rows.Scan(
			&i.UserID,
			&i.UserName,
			&i.RealName,
			&i.Email,
			&i.Language,
			&i.RegTimestamp,
			&i.SessionTime,
			&i.Verified,
			&i.VerifiedByAdmin,
			&i.CanAdmin,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CountUsers counts the users matching search.
func (q *Queries) CountUsers(ctx context.Context, search string) (int64, error) {
	where, args := userSearchClause(search, nil)
	row := q.db.QueryRow(ctx, "SELECT COUNT(*) FROM app_user u"+where, args...)
	var count int64
	err := row.Scan(&count)
	return count, err
}
