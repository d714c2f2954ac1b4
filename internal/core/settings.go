package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/familytree/internal/database"
)

func blockCacheKey(blockID int32) string {
	return "block_setting:" + strconv.Itoa(int(blockID))
}

func moduleCacheKey(module string) string {
	return "module_setting:" + module
}

// cached returns the settings under key, loading and caching them on a miss.
// Cache failures are logged and fall through to the loader.
func (s *Service) cached(ctx context.Context, key string, load func() (map[string]string, error)) (map[string]string, error) {
	values, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("settings cache read failed", "key", key, "error", err)
	}
	s.metrics.CacheHit(ok)
	if ok {
		return values, nil
	}

	values, err = load()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, values); err != nil {
		slog.Warn("settings cache write failed", "key", key, "error", err)
	}
	return values, nil
}

func (s *Service) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		slog.Warn("settings cache delete failed", "key", key, "error", err)
	}
}

// Block returns a dashboard block.
func (s *Service) Block(ctx context.Context, blockID int32) (database.Block, error) {
	block, err := s.q.GetBlock(ctx, blockID)
	if errors.Is(err, pgx.ErrNoRows) {
		return database.Block{}, fmt.Errorf("block %d: %w", blockID, ErrBlockNotFound)
	}
	if err != nil {
		return database.Block{}, fmt.Errorf("get block: %w", err)
	}
	return block, nil
}

// TreeBlocks lists the blocks on the home page of tree.
func (s *Service) TreeBlocks(ctx context.Context, tree Tree) ([]database.Block, error) {
	blocks, err := s.q.ListTreeBlocks(ctx, tree.ID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return blocks, nil
}

// BlockSettings returns every setting of a block.
func (s *Service) BlockSettings(ctx context.Context, blockID int32) (map[string]string, error) {
	return s.cached(ctx, blockCacheKey(blockID), func() (map[string]string, error) {
		rows, err := s.q.ListBlockSettings(ctx, blockID)
		if err != nil {
			return nil, fmt.Errorf("list block settings: %w", err)
		}
		values := make(map[string]string, len(rows))
		for _, row := range rows {
			values[row.SettingName] = row.SettingValue
		}
		return values, nil
	})
}

// BlockSetting returns one block setting, or def when unset.
func (s *Service) BlockSetting(ctx context.Context, blockID int32, name, def string) (string, error) {
	values, err := s.BlockSettings(ctx, blockID)
	if err != nil {
		return def, err
	}
	if v, ok := values[name]; ok {
		return v, nil
	}
	return def, nil
}

// SetBlockSetting stores a block setting. An empty value removes it.
func (s *Service) SetBlockSetting(ctx context.Context, blockID int32, name, value string) error {
	var err error
	if value == "" {
		err = s.q.DeleteBlockSetting(ctx, database.DeleteBlockSettingParams{
			BlockID:     blockID,
			SettingName: name,
		})
	} else {
		err = s.q.UpsertBlockSetting(ctx, database.UpsertBlockSettingParams{
			BlockID:      blockID,
			SettingName:  name,
			SettingValue: value,
		})
	}
	if err != nil {
		return fmt.Errorf("set block setting %s: %w", name, err)
	}

	s.invalidate(ctx, blockCacheKey(blockID))
	return nil
}

// ModulePreferences returns every preference of a module.
func (s *Service) ModulePreferences(ctx context.Context, module string) (map[string]string, error) {
	return s.cached(ctx, moduleCacheKey(module), func() (map[string]string, error) {
		rows, err := s.q.ListModuleSettings(ctx, module)
		if err != nil {
			return nil, fmt.Errorf("list module settings: %w", err)
		}
		values := make(map[string]string, len(rows))
		for _, row := range rows {
			values[row.SettingName] = row.SettingValue
		}
		return values, nil
	})
}

// ModulePreference returns one module preference, or def when unset.
func (s *Service) ModulePreference(ctx context.Context, module, name, def string) (string, error) {
	values, err := s.ModulePreferences(ctx, module)
	if err != nil {
		return def, err
	}
	if v, ok := values[name]; ok {
		return v, nil
	}
	return def, nil
}

// SetModulePreference stores a module preference and updates a cached copy
// in place.
func (s *Service) SetModulePreference(ctx context.Context, module, name, value string) error {
	err := s.q.UpsertModuleSetting(ctx, database.UpsertModuleSettingParams{
		ModuleName:   module,
		SettingName:  name,
		SettingValue: value,
	})
	if err != nil {
		return fmt.Errorf("set module preference %s: %w", name, err)
	}

	key := moduleCacheKey(module)
	values, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		s.invalidate(ctx, key)
		return nil
	}
	values[name] = value
	if err := s.cache.Set(ctx, key, values); err != nil {
		slog.Warn("settings cache write failed", "key", key, "error", err)
		s.invalidate(ctx, key)
	}
	return nil
}

// ModuleAccessLevel returns the access level of a module component in a
// tree, falling back to the module's default.
func (s *Service) ModuleAccessLevel(ctx context.Context, tree Tree, module ModuleInfo) (Privilege, error) {
	level, err := s.q.GetModuleAccessLevel(ctx, database.GetModuleAccessLevelParams{
		TreeID:     tree.ID,
		ModuleName: module.Name,
		Component:  string(module.Component),
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return module.DefaultAccess, nil
	}
	if err != nil {
		return module.DefaultAccess, fmt.Errorf("get module access level: %w", err)
	}
	if p, ok := ParsePrivilege(int(level)); ok {
		return p, nil
	}
	return module.DefaultAccess, nil
}

// SetModuleAccessLevel restricts a module component in a tree.
func (s *Service) SetModuleAccessLevel(ctx context.Context, tree Tree, module ModuleInfo, level Privilege) error {
	if _, ok := ParsePrivilege(int(level)); !ok {
		return fmt.Errorf("access level %d: %w", int(level), ErrInvalidSetting)
	}
	err := s.q.UpsertModuleAccessLevel(ctx, database.UpsertModuleAccessLevelParams{
		TreeID:      tree.ID,
		ModuleName:  module.Name,
		Component:   string(module.Component),
		AccessLevel: int32(level),
	})
	if err != nil {
		return fmt.Errorf("set module access level: %w", err)
	}
	return nil
}

// CanViewModule reports whether viewer may see module in tree.
func (s *Service) CanViewModule(ctx context.Context, tree Tree, viewer Viewer, module ModuleInfo) (bool, error) {
	required, err := s.ModuleAccessLevel(ctx, tree, module)
	if err != nil {
		return false, err
	}
	return CanView(viewer.AccessLevel(), required), nil
}

// VisibleModules lists the modules of a component that viewer may see.
func (s *Service) VisibleModules(ctx context.Context, tree Tree, viewer Viewer, component Component) ([]ModuleInfo, error) {
	var visible []ModuleInfo
	for _, m := range ModulesByComponent(component) {
		ok, err := s.CanViewModule(ctx, tree, viewer, m)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, m)
		}
	}
	return visible, nil
}
