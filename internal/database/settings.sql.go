package database

import (
	"context"
)

const getBlock = `-- name: GetBlock :one
SELECT block_id, tree_id, user_id, location, block_order, module_name
FROM block
WHERE block_id = $1
`

func (q *Queries) GetBlock(ctx context.Context, blockID int32) (Block, error) {
	row := q.db.QueryRow(ctx, getBlock, blockID)
	var i Block
	err := row.Scan(&i.BlockID, &i.TreeID, &i.UserID, &i.Location, &i.BlockOrder, &i.ModuleName)
	return i, err
}

const listTreeBlocks = `-- name: ListTreeBlocks :many
SELECT block_id, tree_id, user_id, location, block_order, module_name
FROM block
WHERE tree_id = $1
ORDER BY location, block_order, block_id
`

func (q *Queries) ListTreeBlocks(ctx context.Context, treeID int32) ([]Block, error) {
	rows, err := q.db.Query(ctx, listTreeBlocks, treeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Block
	for rows.Next() {
		var i Block
		if err := rows.Scan(&i.BlockID, &i.TreeID, &i.UserID, &i.Location, &i.BlockOrder, &i.ModuleName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listBlockSettings = `-- name: ListBlockSettings :many
SELECT block_id, setting_name, setting_value
FROM block_setting
WHERE block_id = $1
`

func (q *Queries) ListBlockSettings(ctx context.Context, blockID int32) ([]BlockSetting, error) {
	rows, err := q.db.Query(ctx, listBlockSettings, blockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BlockSetting
	for rows.Next() {
		var i BlockSetting
		if err := rows.Scan(&i.BlockID, &i.SettingName, &i.SettingValue); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertBlockSetting = `-- name: UpsertBlockSetting :exec
INSERT INTO block_setting (block_id, setting_name, setting_value)
VALUES ($1, $2, $3)
ON CONFLICT (block_id, setting_name) DO UPDATE SET setting_value = EXCLUDED.setting_value
`

type UpsertBlockSettingParams struct {
	BlockID      int32
	SettingName  string
	SettingValue string
}

func (q *Queries) UpsertBlockSetting(ctx context.Context, arg UpsertBlockSettingParams) error {
	_, err := q.db.Exec(ctx, upsertBlockSetting, arg.BlockID, arg.SettingName, arg.SettingValue)
	return err
}

const deleteBlockSetting = `-- name: DeleteBlockSetting :exec
DELETE FROM block_setting WHERE block_id = $1 AND setting_name = $2
`

type DeleteBlockSettingParams struct {
	BlockID     int32
	SettingName string
}

func (q *Queries) DeleteBlockSetting(ctx context.Context, arg DeleteBlockSettingParams) error {
	_, err := q.db.Exec(ctx, deleteBlockSetting, arg.BlockID, arg.SettingName)
	return err
}

const listModuleSettings = `-- name: ListModuleSettings :many
SELECT module_name, setting_name, setting_value
FROM module_setting
WHERE module_name = $1
`

func (q *Queries) ListModuleSettings(ctx context.Context, moduleName string) ([]ModuleSetting, error) {
	rows, err := q.db.Query(ctx, listModuleSettings, moduleName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ModuleSetting
	for rows.Next() {
		var i ModuleSetting
		if err := rows.Scan(&i.ModuleName, &i.SettingName, &i.SettingValue); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertModuleSetting = `-- name: UpsertModuleSetting :exec
INSERT INTO module_setting (module_name, setting_name, setting_value)
VALUES ($1, $2, $3)
ON CONFLICT (module_name, setting_name) DO UPDATE SET setting_value = EXCLUDED.setting_value
`

type UpsertModuleSettingParams struct {
	ModuleName   string
	SettingName  string
	SettingValue string
}

func (q *Queries) UpsertModuleSetting(ctx context.Context, arg UpsertModuleSettingParams) error {
	_, err := q.db.Exec(ctx, upsertModuleSetting, arg.ModuleName, arg.SettingName, arg.SettingValue)
	return err
}

const getModuleAccessLevel = `-- name: GetModuleAccessLevel :one
SELECT access_level
FROM module_privacy
WHERE tree_id = $1 AND module_name = $2 AND component = $3
`

type GetModuleAccessLevelParams struct {
	TreeID     int32
	ModuleName string
	Component  string
}

func (q *Queries) GetModuleAccessLevel(ctx context.Context, arg GetModuleAccessLevelParams) (int32, error) {
	row := q.db.QueryRow(ctx, getModuleAccessLevel, arg.TreeID, arg.ModuleName, arg.Component)
	var access_level int32
	err := row.Scan(&access_level)
	return access_level, err
}

const upsertModuleAccessLevel = `-- name: UpsertModuleAccessLevel :exec
INSERT INTO module_privacy (tree_id, module_name, component, access_level)
VALUES ($1, $2, $3, $4)
ON CONFLICT (tree_id, module_name, component) DO UPDATE SET access_level = EXCLUDED.access_level
`

type UpsertModuleAccessLevelParams struct {
	TreeID      int32
	ModuleName  string
	Component   string
	AccessLevel int32
}

func (q *Queries) UpsertModuleAccessLevel(ctx context.Context, arg UpsertModuleAccessLevelParams) error {
	_, err := q.db.Exec(ctx, upsertModuleAccessLevel, arg.TreeID, arg.ModuleName, arg.Component, arg.AccessLevel)
	return err
}
