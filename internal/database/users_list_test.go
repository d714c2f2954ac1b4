package database

import (
	"strings"
	"testing"
)

func TestBuildListUsersQuery(t *testing.T) {
	tests := []struct {
		name      string
		params    ListUsersParams
		wantParts []string
		wantArgs  int
	}{
		{
			name:      "defaults sort by user name without paging",
			params:    ListUsersParams{},
			wantParts: []string{"WHERE u.user_id > 0", "ORDER BY u.user_name ASC, u.user_id"},
			wantArgs:  0,
		},
		{
			name:      "search binds one pattern",
			params:    ListUsersParams{Search: "smith"},
			wantParts: []string{"u.user_name ILIKE $1", "u.email ILIKE $1"},
			wantArgs:  1,
		},
		{
			name:      "paging follows search arguments",
			params:    ListUsersParams{Search: "smith", Limit: 25, Offset: 50},
			wantParts: []string{"LIMIT $2 OFFSET $3"},
			wantArgs:  3,
		},
		{
			name:      "descending setting column",
			params:    ListUsersParams{OrderBy: SortLastLogin, Desc: true, Limit: 10},
			wantParts: []string{"ORDER BY sessiontime DESC", "LIMIT $1 OFFSET $2"},
			wantArgs:  2,
		},
		{
			name:      "unknown sort column falls back",
			params:    ListUsersParams{OrderBy: "password_hash; DROP TABLE app_user"},
			wantParts: []string{"ORDER BY u.user_name ASC"},
			wantArgs:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListUsersQuery(tt.params)
			for _, part := range tt.wantParts {
				if !strings.Contains(query, part) {
					t.Errorf("query missing %q:\n%s", part, query)
				}
			}
			if len(args) != tt.wantArgs {
				t.Errorf("got %d args, want %d", len(args), tt.wantArgs)
			}
			if strings.Contains(query, "DROP TABLE") {
				t.Error("sort column leaked into SQL")
			}
		})
	}
}

func TestUserSearchEscapesWildcards(t *testing.T) {
	_, args := userSearchClause("50%_off", nil)
	if len(args) != 1 {
		t.Fatalf("got %d args, want 1", len(args))
	}
	if got := args[0].(string); got != `%50\%\_off%` {
		t.Errorf("pattern = %q", got)
	}
}

func TestValidUserSort(t *testing.T) {
	if !ValidUserSort(SortEmail) {
		t.Error("email should be sortable")
	}
	if ValidUserSort("password_hash") {
		t.Error("password_hash should not be sortable")
	}
}
