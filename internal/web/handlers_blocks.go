package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/web/templates"
)

func blockURL(tree core.Tree, blockID int32) string {
	return "/tree/" + tree.Name + "/blocks/" + strconv.Itoa(int(blockID))
}

// blockConfigURL is the preferences link of a block, empty when the viewer
// may not change it.
func (s *Server) blockConfigURL(tree core.Tree, bctx core.BlockContext, blockID int32) string {
	if !bctx.Configurable() {
		return ""
	}
	return blockURL(tree, blockID) + "/config"
}

// loadBlock resolves {blockID} to a top given names block on this tree's
// page or on the viewer's own page.
func (s *Server) loadBlock(r *http.Request) (int32, core.BlockContext, error) {
	ctx := r.Context()
	tree, viewer := treeFromContext(ctx)
	id := parseID(r, "blockID")

	block, err := s.service.Block(ctx, id)
	if err != nil {
		return 0, core.BlockContext{}, err
	}
	if block.ModuleName != core.ModuleTopGivenNames {
		return 0, core.BlockContext{}, core.ErrBlockNotFound
	}

	bctx := core.BlockContext{Tree: tree, Viewer: viewer}
	switch {
	case block.TreeID.Valid && block.TreeID.Int32 == tree.ID:
		bctx.Location = core.TreePage
	case block.UserID.Valid && viewer.User != nil && block.UserID.Int32 == viewer.User.ID:
		bctx.Location = core.UserPageLocation
	default:
		return 0, core.BlockContext{}, core.ErrBlockNotFound
	}
	return id, bctx, nil
}

// handleBlock renders one block. ?num= and ?infoStyle= override the stored
// settings for this rendering.
func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, bctx, err := s.loadBlock(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	module, _ := core.GetModule(core.ModuleTopGivenNames)
	visible, err := s.service.CanViewModule(ctx, bctx.Tree, bctx.Viewer, module)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !visible {
		render(w, r, templates.Empty())
		return
	}

	q := r.URL.Query()
	overrides := map[string]string{}
	for _, name := range []string{"num", "infoStyle"} {
		if v := q.Get(name); v != "" {
			overrides[name] = v
		}
	}

	block, err := s.service.TopGivenNames(ctx, bctx, id, overrides)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, r, block)
		return
	}
	render(w, r, templates.TopGivenNames(block, s.blockConfigURL(bctx.Tree, bctx, id)))
}

func (s *Server) handleBlockConfigForm(w http.ResponseWriter, r *http.Request) {
	id, bctx, err := s.loadBlock(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !bctx.Configurable() {
		s.denied(w, r)
		return
	}

	cfg, err := s.service.TopGivenNamesSettings(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.page(w, r, core.TopGivenNamesTitle(cfg.Num), templates.TopGivenNamesConfig(s.blockConfigURL(bctx.Tree, bctx, id), cfg))
}

func (s *Server) handleBlockConfigSave(w http.ResponseWriter, r *http.Request) {
	id, bctx, err := s.loadBlock(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !bctx.Configurable() {
		s.denied(w, r)
		return
	}

	if _, err := s.service.SaveTopGivenNamesConfig(r.Context(), id, r.PostFormValue("num"), r.PostFormValue("infoStyle")); err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, "/tree/"+bctx.Tree.Name)
}
