package web

import (
	"net/http"
	"slices"
	"strings"

	"github.com/JonMunkholm/familytree/internal/census"
	"github.com/JonMunkholm/familytree/internal/logging"
	"github.com/JonMunkholm/familytree/internal/web/templates"
)

// handleCensusForm shows the censuses of one country. The country comes
// from ?place= (a country or any place within it), then the configured
// default, then the first known one.
func (s *Server) handleCensusForm(w http.ResponseWriter, r *http.Request) {
	tree, _ := treeFromContext(r.Context())
	places := census.Places()

	place := census.PlaceCountry(r.URL.Query().Get("place"))
	if place == "" {
		place = s.cfg.Census.DefaultPlace
	}
	if !slices.Contains(places, place) && len(places) > 0 {
		place = places[0]
	}

	s.page(w, r, "Census assistant", templates.CensusForm(tree, places, place, census.ByPlace(place)))
}

// handleCensusReport fills in ?census= for the household headed by ?xref=.
func (s *Server) handleCensusReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tree, _ := treeFromContext(ctx)
	q := r.URL.Query()
	key, xref := q.Get("census"), strings.TrimSpace(q.Get("xref"))
	logger := logging.WithFields(ctx, "tree", tree.Name, "census", key, "xref", xref)

	report, err := s.service.CensusReport(ctx, tree, key, xref)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logger.Debug("census report", "rows", len(report.Rows))

	if wantsJSON(r) {
		writeJSON(w, r, report)
		return
	}
	s.page(w, r, report.Title, templates.CensusReport(tree, report))
}
