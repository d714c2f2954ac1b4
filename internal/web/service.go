package web

import (
	"context"

	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/database"
)

// Service is the part of core.Service the handlers use.
type Service interface {
	Ping(ctx context.Context) error

	Tree(ctx context.Context, name string) (core.Tree, error)
	Trees(ctx context.Context) ([]core.Tree, error)
	Viewer(ctx context.Context, user *core.User, tree core.Tree) (core.Viewer, error)
	Role(ctx context.Context, user *core.User, tree core.Tree) (core.Role, error)

	CensusReport(ctx context.Context, tree core.Tree, censusKey, headXref string) (*core.CensusReport, error)

	SearchDescendancy(ctx context.Context, tree core.Tree, viewer core.Viewer, query string) ([]core.DescendancyPerson, error)
	DescendancySidebar(ctx context.Context, tree core.Tree, viewer core.Viewer, xref string) (*core.DescendancyPerson, error)
	Descendants(ctx context.Context, tree core.Tree, viewer core.Viewer, xref string, generations int) ([]core.DescendancyFamily, error)

	Block(ctx context.Context, blockID int32) (database.Block, error)
	TreeBlocks(ctx context.Context, tree core.Tree) ([]database.Block, error)
	TopGivenNames(ctx context.Context, bctx core.BlockContext, blockID int32, overrides map[string]string) (*core.TopGivenNamesBlock, error)
	TopGivenNamesSettings(ctx context.Context, blockID int32) (core.TopGivenNamesConfig, error)
	SaveTopGivenNamesConfig(ctx context.Context, blockID int32, num, style string) (core.TopGivenNamesConfig, error)

	ModuleAccessLevel(ctx context.Context, tree core.Tree, module core.ModuleInfo) (core.Privilege, error)
	SetModuleAccessLevel(ctx context.Context, tree core.Tree, module core.ModuleInfo, level core.Privilege) error
	CanViewModule(ctx context.Context, tree core.Tree, viewer core.Viewer, module core.ModuleInfo) (bool, error)

	ListUsers(ctx context.Context, query core.UserQuery) (core.UserPage, error)
	User(ctx context.Context, userID int32) (*core.User, error)
	CreateUser(ctx context.Context, nu core.NewUser) (*core.User, error)
	UpdateUser(ctx context.Context, userID int32, upd core.UserUpdate) error
	DeleteUser(ctx context.Context, userID int32) error
	DeleteUsers(ctx context.Context, userIDs []int32) (int, error)
	CleanupCandidates(ctx context.Context, months int) (core.CleanupReport, error)

	Authenticate(ctx context.Context, userName, password string) (*core.User, error)
	StartSession(ctx context.Context, userID int32) (string, error)
	SessionUser(ctx context.Context, sessionID string) (*core.User, error)
	EndSession(ctx context.Context, sessionID string) error

	PlaceLocation(ctx context.Context, id int32) (*core.PlaceLocation, error)
	PlaceChildren(ctx context.Context, parentID int32) ([]core.PlaceLocation, error)
	SavePlaceLocation(ctx context.Context, edit core.PlaceEdit) (*core.PlaceLocation, error)
	DeletePlaceLocation(ctx context.Context, id int32) error

	MaybeHousekeeping() bool
}

var _ Service = (*core.Service)(nil)
