package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/database"
	"github.com/JonMunkholm/familytree/internal/web/templates"
)

// userListResponse is the DataTables server-side processing format.
type userListResponse struct {
	Draw            int         `json:"draw"`
	RecordsTotal    int64       `json:"recordsTotal"`
	RecordsFiltered int64       `json:"recordsFiltered"`
	Data            []core.User `json:"data"`
}

// handleUsers lists users. Query: search, sort, dir=desc, page.
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sort := database.UserSortColumn(q.Get("sort"))
	if !database.ValidUserSort(sort) {
		sort = database.SortUserName
	}
	query := core.UserQuery{
		Search:   strings.TrimSpace(q.Get("search")),
		Sort:     sort,
		Desc:     q.Get("dir") == "desc",
		Page:     parseIntParam(r, "page", 1),
		PageSize: parseIntParam(r, "length", core.DefaultUserPageSize),
	}

	page, err := s.service.ListUsers(r.Context(), query)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, r, userListResponse{
			Draw:            parseIntParam(r, "draw", 1),
			RecordsTotal:    page.Total,
			RecordsFiltered: page.Filtered,
			Data:            page.Users,
		})
		return
	}
	s.page(w, r, "User administration", templates.UserList(page, templates.UserListQuery{
		Search: query.Search,
		Sort:   query.Sort,
		Desc:   query.Desc,
	}))
}

func (s *Server) handleNewUserForm(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, "Add a user", templates.UserForm(nil, nil))
}

func formBool(r *http.Request, name string) bool {
	return r.PostFormValue(name) == "1"
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.service.CreateUser(r.Context(), core.NewUser{
		UserName:  r.PostFormValue("username"),
		RealName:  r.PostFormValue("realname"),
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
		Language:  r.PostFormValue("language"),
		Verified:  formBool(r, "verified"),
		SiteAdmin: formBool(r, "canadmin"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, "/admin/users/"+strconv.Itoa(int(user.ID)))
}

// handleEditUser shows an account with its role in every tree.
func (s *Server) handleEditUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := s.service.User(ctx, parseID(r, "userID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	trees, err := s.service.Trees(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	roles := make([]templates.TreeRole, 0, len(trees))
	for _, t := range trees {
		// Role would report a site admin as manager everywhere; the form
		// edits the stored role.
		stored := *user
		stored.SiteAdmin = false
		role, err := s.service.Role(ctx, &stored, t)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		roles = append(roles, templates.TreeRole{Tree: t, Role: role})
	}
	s.page(w, r, user.UserName, templates.UserForm(user, roles))
}

// handleUpdateUser saves an account. Roles come from role_<treeID> fields.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := parseID(r, "userID")
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, fmt.Errorf("parse form: %w", core.ErrInvalidSetting))
		return
	}

	roles := make(map[int32]core.Role)
	for name, values := range r.PostForm {
		treeID, ok := strings.CutPrefix(name, "role_")
		if !ok || len(values) == 0 {
			continue
		}
		tid := parseInt32(treeID)
		if tid == 0 {
			continue
		}
		role, err := core.ParseRole(values[0])
		if err != nil {
			s.fail(w, r, err)
			return
		}
		roles[tid] = role
	}

	// Administrators cannot demote themselves.
	siteAdmin := formBool(r, "canadmin")
	if me := core.UserFromContext(r.Context()); me != nil && me.ID == id {
		siteAdmin = true
	}

	err := s.service.UpdateUser(r.Context(), id, core.UserUpdate{
		UserName:        r.PostFormValue("username"),
		RealName:        r.PostFormValue("realname"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		Language:        r.PostFormValue("language"),
		Verified:        formBool(r, "verified"),
		VerifiedByAdmin: formBool(r, "approved"),
		SiteAdmin:       siteAdmin,
		Roles:           roles,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, "/admin/users")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := parseID(r, "userID")
	if me := core.UserFromContext(r.Context()); me != nil && me.ID == id {
		s.fail(w, r, fmt.Errorf("delete own account: %w", core.ErrForbidden))
		return
	}
	if err := s.service.DeleteUser(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, "/admin/users")
}

// handleUserCleanup lists inactive and unverified accounts. ?months= picks
// the inactivity threshold.
func (s *Server) handleUserCleanup(w http.ResponseWriter, r *http.Request) {
	months := parseIntParam(r, "months", core.DefaultCleanupMonths)
	report, err := s.service.CleanupCandidates(r.Context(), months)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.page(w, r, "Delete inactive users", templates.UserCleanup(report))
}

// handleUserCleanupDelete deletes the checked accounts that are still
// cleanup candidates. Site administrators and the caller's own account are
// never deleted.
func (s *Server) handleUserCleanupDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, fmt.Errorf("parse form: %w", core.ErrInvalidSetting))
		return
	}
	me := core.UserFromContext(r.Context())

	report, err := s.service.CleanupCandidates(r.Context(), int(parseInt32(r.PostFormValue("months"))))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	deletable := report.Deletable()

	var ids []int32
	for _, v := range r.PostForm["user_id"] {
		id := parseInt32(v)
		if !deletable[id] || (me != nil && me.ID == id) {
			continue
		}
		ids = append(ids, id)
	}

	n, err := s.service.DeleteUsers(r.Context(), ids)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, r, map[string]int{"deleted": n})
		return
	}
	redirect(w, r, "/admin/users")
}
