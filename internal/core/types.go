package core

import (
	"errors"
	"time"

	"github.com/JonMunkholm/familytree/internal/database"
)

var (
	ErrTreeNotFound       = errors.New("tree not found")
	ErrIndividualNotFound = errors.New("individual not found")
	ErrFamilyNotFound     = errors.New("family not found")
	ErrCensusNotFound     = errors.New("census not found")
	ErrBlockNotFound      = errors.New("block not found")
	ErrInvalidSetting     = errors.New("invalid setting")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotVerified    = errors.New("user not verified")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrRequiredField      = errors.New("required field")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSessionNotFound    = errors.New("session not found")
	ErrForbidden          = errors.New("permission denied")

	ErrPlaceNotFound      = errors.New("place not found")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Tree is a family tree hosted by the server.
type Tree struct {
	ID    int32
	Name  string
	Title string
}

func treeFromRow(row database.Tree) Tree {
	return Tree{ID: row.TreeID, Name: row.Name, Title: row.Title}
}

// User is an account with its site-wide preferences.
type User struct {
	ID              int32
	UserName        string
	RealName        string
	Email           string
	Language        string
	RegisteredAt    time.Time // zero if unknown
	LastLogin       time.Time // zero if never logged in
	Verified        bool
	VerifiedByAdmin bool
	SiteAdmin       bool
}

// Viewer is the user looking at a tree together with their role in it.
// A nil User is an anonymous visitor.
type Viewer struct {
	User *User
	Role Role
}

// LoggedIn reports whether the viewer is authenticated.
func (v Viewer) LoggedIn() bool {
	return v.User != nil
}

// AccessLevel is the viewer's privilege level for module visibility.
func (v Viewer) AccessLevel() Privilege {
	return v.Role.AccessLevel(v.LoggedIn())
}

// BlockLocation says where a dashboard block is shown.
type BlockLocation int

const (
	TreePage BlockLocation = iota
	UserPageLocation
)

// BlockContext is the page a block is rendered on.
type BlockContext struct {
	Tree     Tree
	Viewer   Viewer
	Location BlockLocation
}
