package database

import (
	"context"
)

const getUser = `-- name: GetUser :one
SELECT user_id, user_name, real_name, email, password_hash FROM app_user WHERE user_id = $1
`

func (q *Queries) GetUser(ctx context.Context, userID int32) (AppUser, error) {
	row := q.db.QueryRow(ctx, getUser, userID)
	var i AppUser
	err := row.Scan(&i.UserID, &i.UserName, &i.RealName, &i.Email, &i.PasswordHash)
	return i, err
}

const getUserByName = `-- name: GetUserByName :one
SELECT user_id, user_name, real_name, email, password_hash FROM app_user WHERE user_name = $1
`

func (q *Queries) GetUserByName(ctx context.Context, userName string) (AppUser, error) {
	row := q.db.QueryRow(ctx, getUserByName, userName)
	var i AppUser
	err := row.Scan(&i.UserID, &i.UserName, &i.RealName, &i.Email, &i.PasswordHash)
	return i, err
}

const countUsersByNameOrEmail = `-- name: CountUsersByNameOrEmail :one
SELECT COUNT(*) FROM app_user
WHERE (user_name = $1 OR email = $2) AND user_id <> $3
`

type CountUsersByNameOrEmailParams struct {
	UserName      string
	Email         string
	ExcludeUserID int32
}

// CountUsersByNameOrEmail counts other users holding the same name or email.
func (q *Queries) CountUsersByNameOrEmail(ctx context.Context, arg CountUsersByNameOrEmailParams) (int64, error) {
	row := q.db.QueryRow(ctx, countUsersByNameOrEmail, arg.UserName, arg.Email, arg.ExcludeUserID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO app_user (user_name, real_name, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING user_id, user_name, real_name, email, password_hash
`

type CreateUserParams struct {
	UserName     string
	RealName     string
	Email        string
	PasswordHash string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (AppUser, error) {
	row := q.db.QueryRow(ctx, createUser, arg.UserName, arg.RealName, arg.Email, arg.PasswordHash)
	var i AppUser
	err := row.Scan(&i.UserID, &i.UserName, &i.RealName, &i.Email, &i.PasswordHash)
	return i, err
}

const updateUser = `-- name: UpdateUser :exec
UPDATE app_user SET user_name = $2, real_name = $3, email = $4 WHERE user_id = $1
`

type UpdateUserParams struct {
	UserID   int32
	UserName string
	RealName string
	Email    string
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) error {
	_, err := q.db.Exec(ctx, updateUser, arg.UserID, arg.UserName, arg.RealName, arg.Email)
	return err
}

const updateUserPassword = `-- name: UpdateUserPassword :exec
UPDATE app_user SET password_hash = $2 WHERE user_id = $1
`

type UpdateUserPasswordParams struct {
	UserID       int32
	PasswordHash string
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.Exec(ctx, updateUserPassword, arg.UserID, arg.PasswordHash)
	return err
}

const deleteUser = `-- name: DeleteUser :execrows
DELETE FROM app_user WHERE user_id = $1
`

func (q *Queries) DeleteUser(ctx context.Context, userID int32) (int64, error) {
	result, err := q.db.Exec(ctx, deleteUser, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listUserSettings = `-- name: ListUserSettings :many
SELECT user_id, setting_name, setting_value FROM user_setting WHERE user_id = $1
`

func (q *Queries) ListUserSettings(ctx context.Context, userID int32) ([]UserSetting, error) {
	rows, err := q.db.Query(ctx, listUserSettings, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []UserSetting
	for rows.Next() {
		var i UserSetting
		if err := rows.Scan(&i.UserID, &i.SettingName, &i.SettingValue); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertUserSetting = `-- name: UpsertUserSetting :exec
INSERT INTO user_setting (user_id, setting_name, setting_value)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, setting_name) DO UPDATE SET setting_value = EXCLUDED.setting_value
`

type UpsertUserSettingParams struct {
	UserID       int32
	SettingName  string
	SettingValue string
}

func (q *Queries) UpsertUserSetting(ctx context.Context, arg UpsertUserSettingParams) error {
	_, err := q.db.Exec(ctx, upsertUserSetting, arg.UserID, arg.SettingName, arg.SettingValue)
	return err
}

const getUserTreeSetting = `-- name: GetUserTreeSetting :one
SELECT setting_value FROM user_tree_setting
WHERE user_id = $1 AND tree_id = $2 AND setting_name = $3
`

type GetUserTreeSettingParams struct {
	UserID      int32
	TreeID      int32
	SettingName string
}

func (q *Queries) GetUserTreeSetting(ctx context.Context, arg GetUserTreeSettingParams) (string, error) {
	row := q.db.QueryRow(ctx, getUserTreeSetting, arg.UserID, arg.TreeID, arg.SettingName)
	var setting_value string
	err := row.Scan(&setting_value)
	return setting_value, err
}

const upsertUserTreeSetting = `-- name: UpsertUserTreeSetting :exec
INSERT INTO user_tree_setting (user_id, tree_id, setting_name, setting_value)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, tree_id, setting_name) DO UPDATE SET setting_value = EXCLUDED.setting_value
`

type UpsertUserTreeSettingParams struct {
	UserID       int32
	TreeID       int32
	SettingName  string
	SettingValue string
}

func (q *Queries) UpsertUserTreeSetting(ctx context.Context, arg UpsertUserTreeSettingParams) error {
	_, err := q.db.Exec(ctx, upsertUserTreeSetting, arg.UserID, arg.TreeID, arg.SettingName, arg.SettingValue)
	return err
}
