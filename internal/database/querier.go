package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type Querier interface {
	// Trees and records
	GetTreeByName(ctx context.Context, name string) (Tree, error)
	ListTrees(ctx context.Context) ([]Tree, error)
	GetIndividual(ctx context.Context, arg GetIndividualParams) (Individual, error)
	GetFamily(ctx context.Context, arg GetFamilyParams) (Family, error)
	ListChildFamilies(ctx context.Context, arg ListChildFamiliesParams) ([]Family, error)
	ListSpouseFamilies(ctx context.Context, arg ListSpouseFamiliesParams) ([]Family, error)
	ListFamilyChildren(ctx context.Context, arg ListFamilyChildrenParams) ([]Individual, error)
	SearchIndividuals(ctx context.Context, arg SearchIndividualsParams) ([]Individual, error)
	TopGivenNames(ctx context.Context, arg TopGivenNamesParams) ([]TopGivenNamesRow, error)

	// Blocks and modules
	GetBlock(ctx context.Context, blockID int32) (Block, error)
	ListTreeBlocks(ctx context.Context, treeID int32) ([]Block, error)
	ListBlockSettings(ctx context.Context, blockID int32) ([]BlockSetting, error)
	UpsertBlockSetting(ctx context.Context, arg UpsertBlockSettingParams) error
	DeleteBlockSetting(ctx context.Context, arg DeleteBlockSettingParams) error
	ListModuleSettings(ctx context.Context, moduleName string) ([]ModuleSetting, error)
	UpsertModuleSetting(ctx context.Context, arg UpsertModuleSettingParams) error
	GetModuleAccessLevel(ctx context.Context, arg GetModuleAccessLevelParams) (int32, error)
	UpsertModuleAccessLevel(ctx context.Context, arg UpsertModuleAccessLevelParams) error

	// Users
	GetUser(ctx context.Context, userID int32) (AppUser, error)
	GetUserByName(ctx context.Context, userName string) (AppUser, error)
	CountUsersByNameOrEmail(ctx context.Context, arg CountUsersByNameOrEmailParams) (int64, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (AppUser, error)
	UpdateUser(ctx context.Context, arg UpdateUserParams) error
	UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error
	DeleteUser(ctx context.Context, userID int32) (int64, error)
	ListUserSettings(ctx context.Context, userID int32) ([]UserSetting, error)
	UpsertUserSetting(ctx context.Context, arg UpsertUserSettingParams) error
	GetUserTreeSetting(ctx context.Context, arg GetUserTreeSettingParams) (string, error)
	UpsertUserTreeSetting(ctx context.Context, arg UpsertUserTreeSettingParams) error
	ListUsers(ctx context.Context, arg ListUsersParams) ([]ListUsersRow, error)
	CountUsers(ctx context.Context, search string) (int64, error)

	// Sessions and logs
	CreateSession(ctx context.Context, arg CreateSessionParams) error
	GetSession(ctx context.Context, sessionID string) (Session, error)
	TouchSession(ctx context.Context, sessionID string) error
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteSessionsBefore(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error)
	InsertLog(ctx context.Context, arg InsertLogParams) error
	DeleteLogsBefore(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error)

	// Places
	GetPlaceLocation(ctx context.Context, plID int32) (PlaceLocation, error)
	ListPlaceLocations(ctx context.Context, parentID pgtype.Int4) ([]PlaceLocation, error)
	CreatePlaceLocation(ctx context.Context, arg CreatePlaceLocationParams) (PlaceLocation, error)
	UpdatePlaceLocation(ctx context.Context, arg UpdatePlaceLocationParams) (int64, error)
	DeletePlaceLocation(ctx context.Context, plID int32) (int64, error)
}

var _ Querier = (*Queries)(nil)
