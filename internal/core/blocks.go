package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/familytree/internal/database"
	"github.com/JonMunkholm/familytree/internal/genealogy"
)

// ModuleTopGivenNames is the block listing the most common given names.
const ModuleTopGivenNames = "top_given_names"

const (
	DefaultTopGivenNamesNum   = 10
	DefaultTopGivenNamesStyle = StyleTable

	// MaxTopGivenNamesNum bounds the number of names per sex.
	MaxTopGivenNamesNum = 1000
)

// InfoStyle is how a block lays out its data.
type InfoStyle string

const (
	StyleTable InfoStyle = "table"
	StyleList  InfoStyle = "list"
)

// InfoStyles lists the valid styles.
var InfoStyles = []InfoStyle{StyleList, StyleTable}

func init() {
	RegisterModule(ModuleInfo{
		Name:          ModuleTopGivenNames,
		Title:         "Top given names",
		Description:   "A list of the most popular given names.",
		Component:     ComponentBlock,
		DefaultAccess: PrivPrivate,
	})
}

// GivenNameCount is a given name and how many individuals bear it.
type GivenNameCount struct {
	Name  string
	Count int64
}

// TopGivenNamesConfig holds the settings of a top given names block.
type TopGivenNamesConfig struct {
	Num   int
	Style InfoStyle
}

// TopGivenNamesBlock is the data behind a rendered block.
type TopGivenNamesBlock struct {
	BlockID      int32
	Title        string
	Style        InfoStyle
	Males        []GivenNameCount
	Females      []GivenNameCount
	Configurable bool
}

// TopGivenNamesTitle returns the block heading for num names.
func TopGivenNamesTitle(num int) string {
	if num == 1 {
		return "Top given name"
	}
	return fmt.Sprintf("Top %d given names", num)
}

// ParseTopGivenNamesConfig validates raw settings. Empty values take the
// defaults.
func ParseTopGivenNamesConfig(num, style string) (TopGivenNamesConfig, error) {
	n, err := parseNum(num)
	if err != nil {
		return TopGivenNamesConfig{}, err
	}
	st, err := parseInfoStyle(style)
	if err != nil {
		return TopGivenNamesConfig{}, err
	}
	return TopGivenNamesConfig{Num: n, Style: st}, nil
}

func parseNum(num string) (int, error) {
	num = strings.TrimSpace(num)
	if num == "" {
		return DefaultTopGivenNamesNum, nil
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 || n > MaxTopGivenNamesNum {
		return 0, fmt.Errorf("num %q must be between 1 and %d: %w", num, MaxTopGivenNamesNum, ErrInvalidSetting)
	}
	return n, nil
}

func parseInfoStyle(style string) (InfoStyle, error) {
	switch st := InfoStyle(strings.TrimSpace(style)); st {
	case "":
		return DefaultTopGivenNamesStyle, nil
	case StyleTable, StyleList:
		return st, nil
	default:
		return "", fmt.Errorf("infoStyle %q: %w", style, ErrInvalidSetting)
	}
}

// TopGivenNamesSettings loads the configuration of a block. Stored values
// that no longer validate fall back to the defaults.
func (s *Service) TopGivenNamesSettings(ctx context.Context, blockID int32) (TopGivenNamesConfig, error) {
	values, err := s.BlockSettings(ctx, blockID)
	if err != nil {
		return TopGivenNamesConfig{}, err
	}

	cfg := TopGivenNamesConfig{Num: DefaultTopGivenNamesNum, Style: DefaultTopGivenNamesStyle}
	if n, err := parseNum(values["num"]); err == nil {
		cfg.Num = n
	}
	if st, err := parseInfoStyle(values["infoStyle"]); err == nil {
		cfg.Style = st
	}
	return cfg, nil
}

// SaveTopGivenNamesConfig validates and stores a block configuration.
func (s *Service) SaveTopGivenNamesConfig(ctx context.Context, blockID int32, num, style string) (TopGivenNamesConfig, error) {
	cfg, err := ParseTopGivenNamesConfig(num, style)
	if err != nil {
		return cfg, err
	}
	if err := s.SetBlockSetting(ctx, blockID, "num", strconv.Itoa(cfg.Num)); err != nil {
		return cfg, err
	}
	if err := s.SetBlockSetting(ctx, blockID, "infoStyle", string(cfg.Style)); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TopGivenNames builds a top given names block. Non-empty overrides replace
// the stored settings for this rendering only.
func (s *Service) TopGivenNames(ctx context.Context, bctx BlockContext, blockID int32, overrides map[string]string) (*TopGivenNamesBlock, error) {
	cfg, err := s.TopGivenNamesSettings(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		num, style := overrides["num"], overrides["infoStyle"]
		if num == "" {
			num = strconv.Itoa(cfg.Num)
		}
		if style == "" {
			style = string(cfg.Style)
		}
		if cfg, err = ParseTopGivenNamesConfig(num, style); err != nil {
			return nil, err
		}
	}

	block := &TopGivenNamesBlock{
		BlockID:      blockID,
		Title:        TopGivenNamesTitle(cfg.Num),
		Style:        cfg.Style,
		Configurable: blockConfigurable(bctx),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		names, err := s.topGivenNames(gctx, bctx.Tree, genealogy.SexMale, cfg.Num)
		block.Males = names
		return err
	})
	g.Go(func() error {
		names, err := s.topGivenNames(gctx, bctx.Tree, genealogy.SexFemale, cfg.Num)
		block.Females = names
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BlockRenders.WithLabelValues(ModuleTopGivenNames).Inc()
	}
	return block, nil
}

func (s *Service) topGivenNames(ctx context.Context, tree Tree, sex genealogy.Sex, num int) ([]GivenNameCount, error) {
	rows, err := s.q.TopGivenNames(ctx, database.TopGivenNamesParams{
		TreeID: tree.ID,
		Sex:    string(sex),
		Limit:  int32(num),
	})
	if err != nil {
		return nil, fmt.Errorf("top given names (%s): %w", sex, err)
	}
	names := make([]GivenNameCount, len(rows))
	for i, row := range rows {
		names[i] = GivenNameCount{Name: row.GivenName, Count: row.Total}
	}
	return names, nil
}

// blockConfigurable reports whether the viewer may edit a block: managers
// on tree pages, and the logged-in owner on user pages.
func blockConfigurable(bctx BlockContext) bool {
	switch bctx.Location {
	case TreePage:
		return bctx.Viewer.Role.IsManager()
	case UserPageLocation:
		return bctx.Viewer.LoggedIn()
	default:
		return false
	}
}

// Configurable reports whether the viewer may change the block's settings.
func (b BlockContext) Configurable() bool {
	return blockConfigurable(b)
}
