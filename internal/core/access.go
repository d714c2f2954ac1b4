package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/familytree/internal/database"
)

// Privilege is an access level. Lower values are more privileged, and a
// component is visible when the viewer's level is at most the component's.
type Privilege int

const (
	PrivPrivate Privilege = 2  // everyone, including visitors
	PrivUser    Privilege = 1  // members and above
	PrivNone    Privilege = 0  // managers only
	PrivHide    Privilege = -1 // nobody
)

// String returns the level name.
func (p Privilege) String() string {
	switch p {
	case PrivPrivate:
		return "Show to visitors"
	case PrivUser:
		return "Show to members"
	case PrivNone:
		return "Show to managers"
	case PrivHide:
		return "Hide from everyone"
	default:
		return fmt.Sprintf("Privilege(%d)", int(p))
	}
}

// ParsePrivilege validates a stored access level.
func ParsePrivilege(n int) (Privilege, bool) {
	p := Privilege(n)
	switch p {
	case PrivPrivate, PrivUser, PrivNone, PrivHide:
		return p, true
	}
	return 0, false
}

// CanView reports whether a viewer at level may see a component restricted
// to required.
func CanView(level, required Privilege) bool {
	return level <= required
}

// Role is a user's role in one tree, as stored in the canedit preference.
type Role string

const (
	RoleNone      Role = "none"
	RoleMember    Role = "access"
	RoleEditor    Role = "edit"
	RoleModerator Role = "accept"
	RoleManager   Role = "admin"
)

// PrefCanEdit is the user tree preference holding the role.
const PrefCanEdit = "canedit"

// Roles lists the assignable roles from least to most privileged.
var Roles = []Role{RoleNone, RoleMember, RoleEditor, RoleModerator, RoleManager}

// ParseRole validates a role name. The empty string means no role.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleNone, nil
	}
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidRole)
}

// Title returns the display name of the role.
func (r Role) Title() string {
	switch r {
	case RoleMember:
		return "Member"
	case RoleEditor:
		return "Editor"
	case RoleModerator:
		return "Moderator"
	case RoleManager:
		return "Manager"
	default:
		return "Visitor"
	}
}

func (r Role) rank() int {
	for i, role := range Roles {
		if role == r {
			return i
		}
	}
	return 0
}

// IsManager reports whether the role administers the tree.
func (r Role) IsManager() bool { return r == RoleManager }

// IsModerator reports whether the role may accept changes.
func (r Role) IsModerator() bool { return r.rank() >= RoleModerator.rank() }

// IsEditor reports whether the role may edit records.
func (r Role) IsEditor() bool { return r.rank() >= RoleEditor.rank() }

// IsMember reports whether the role may see private data.
func (r Role) IsMember() bool { return r.rank() >= RoleMember.rank() }

// AccessLevel maps the role to a privilege level.
func (r Role) AccessLevel(loggedIn bool) Privilege {
	switch {
	case r.IsManager():
		return PrivNone
	case loggedIn && r.IsMember():
		return PrivUser
	default:
		return PrivPrivate
	}
}

// Role returns the role of user in tree. Site administrators manage every
// tree; visitors and users without a preference have no role.
func (s *Service) Role(ctx context.Context, user *User, tree Tree) (Role, error) {
	if user == nil {
		return RoleNone, nil
	}
	if user.SiteAdmin {
		return RoleManager, nil
	}

	value, err := s.q.GetUserTreeSetting(ctx, database.GetUserTreeSettingParams{
		UserID:      user.ID,
		TreeID:      tree.ID,
		SettingName: PrefCanEdit,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return RoleNone, nil
	}
	if err != nil {
		return RoleNone, fmt.Errorf("get role: %w", err)
	}

	role, err := ParseRole(value)
	if err != nil {
		return RoleNone, nil
	}
	return role, nil
}

// SetRole stores the role of a user in a tree.
func (s *Service) SetRole(ctx context.Context, userID int32, tree Tree, role Role) error {
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	err := s.q.UpsertUserTreeSetting(ctx, database.UpsertUserTreeSettingParams{
		UserID:       userID,
		TreeID:       tree.ID,
		SettingName:  PrefCanEdit,
		SettingValue: string(role),
	})
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}
