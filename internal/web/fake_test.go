package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	_ "github.com/JonMunkholm/familytree/internal/census/catalog"
	"github.com/JonMunkholm/familytree/internal/config"
	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/database"
	"github.com/JonMunkholm/familytree/internal/metrics"
)

var demoTree = core.Tree{ID: 1, Name: "demo", Title: "Demo tree"}

// fakeService is an in-memory Service. Users sign in with their user name
// as password; each has one session "sid-<name>".
type fakeService struct {
	mu sync.Mutex

	pingErr  error
	users    map[int32]*core.User
	roles    map[int32]core.Role // role in demoTree by user ID
	sessions map[string]int32
	ended    []string

	census      *core.CensusReport
	censusCalls []string

	people   []core.DescendancyPerson
	families map[string][]core.DescendancyFamily
	searches []string

	blocks       map[int32]database.Block
	blockConfigs map[int32]core.TopGivenNamesConfig
	overrides    map[string]string
	blockErr     error

	levels map[string]core.Privilege

	updates     map[int32]core.UserUpdate
	deletedIDs  []int32
	created     []core.NewUser
	cleanup     core.CleanupReport
	cleanupAsks []int
	userQueries []core.UserQuery

	places map[int32]core.PlaceLocation
	nextID int32

	housekeeping int
}

func newFakeService() *fakeService {
	f := &fakeService{
		users:        make(map[int32]*core.User),
		roles:        make(map[int32]core.Role),
		sessions:     make(map[string]int32),
		families:     make(map[string][]core.DescendancyFamily),
		blocks:       make(map[int32]database.Block),
		blockConfigs: make(map[int32]core.TopGivenNamesConfig),
		levels:       make(map[string]core.Privilege),
		updates:      make(map[int32]core.UserUpdate),
		places:       make(map[int32]core.PlaceLocation),
		nextID:       100,
	}
	f.addUser(1, "admin", core.RoleNone, true)
	f.addUser(2, "editor", core.RoleEditor, false)
	f.addUser(3, "member", core.RoleMember, false)
	f.addUser(4, "manager", core.RoleManager, false)
	return f
}

func (f *fakeService) addUser(id int32, name string, role core.Role, admin bool) {
	f.users[id] = &core.User{ID: id, UserName: name, RealName: strings.ToUpper(name), SiteAdmin: admin, Verified: true}
	f.roles[id] = role
	f.sessions["sid-"+name] = id
}

var _ Service = (*fakeService)(nil)

func (f *fakeService) Ping(context.Context) error { return f.pingErr }

func (f *fakeService) Tree(_ context.Context, name string) (core.Tree, error) {
	if name != demoTree.Name {
		return core.Tree{}, fmt.Errorf("tree %q: %w", name, core.ErrTreeNotFound)
	}
	return demoTree, nil
}

func (f *fakeService) Trees(context.Context) ([]core.Tree, error) {
	return []core.Tree{demoTree}, nil
}

func (f *fakeService) Role(_ context.Context, user *core.User, _ core.Tree) (core.Role, error) {
	if user == nil {
		return core.RoleNone, nil
	}
	if user.SiteAdmin {
		return core.RoleManager, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.roles[user.ID]; ok {
		return r, nil
	}
	return core.RoleNone, nil
}

func (f *fakeService) Viewer(ctx context.Context, user *core.User, tree core.Tree) (core.Viewer, error) {
	role, err := f.Role(ctx, user, tree)
	return core.Viewer{User: user, Role: role}, err
}

func (f *fakeService) CensusReport(_ context.Context, _ core.Tree, key, xref string) (*core.CensusReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.censusCalls = append(f.censusCalls, key+"/"+xref)
	if f.census == nil || key != f.census.Key {
		return nil, fmt.Errorf("census %q: %w", key, core.ErrCensusNotFound)
	}
	if xref != f.census.HeadXref {
		return nil, fmt.Errorf("%s: %w", xref, core.ErrIndividualNotFound)
	}
	return f.census, nil
}

func (f *fakeService) SearchDescendancy(_ context.Context, _ core.Tree, _ core.Viewer, query string) ([]core.DescendancyPerson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, query)
	if len([]rune(strings.TrimSpace(query))) < core.MinSearchLength {
		return nil, nil
	}
	var out []core.DescendancyPerson
	for _, p := range f.people {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeService) DescendancySidebar(_ context.Context, _ core.Tree, _ core.Viewer, xref string) (*core.DescendancyPerson, error) {
	for _, p := range f.people {
		if p.Xref == xref {
			p.Expanded = true
			p.Families = f.families[xref]
			return &p, nil
		}
	}
	return nil, core.ErrIndividualNotFound
}

func (f *fakeService) Descendants(_ context.Context, _ core.Tree, _ core.Viewer, xref string, _ int) ([]core.DescendancyFamily, error) {
	fams, ok := f.families[xref]
	if !ok {
		return nil, core.ErrIndividualNotFound
	}
	return fams, nil
}

func (f *fakeService) Block(_ context.Context, id int32) (database.Block, error) {
	b, ok := f.blocks[id]
	if !ok {
		return database.Block{}, core.ErrBlockNotFound
	}
	return b, nil
}

func (f *fakeService) TreeBlocks(_ context.Context, tree core.Tree) ([]database.Block, error) {
	var out []database.Block
	for _, b := range f.blocks {
		if b.TreeID.Valid && b.TreeID.Int32 == tree.ID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeService) TopGivenNames(_ context.Context, bctx core.BlockContext, id int32, overrides map[string]string) (*core.TopGivenNamesBlock, error) {
	if f.blockErr != nil {
		return nil, f.blockErr
	}
	f.overrides = overrides
	cfg := f.blockConfigs[id]
	if cfg.Num == 0 {
		cfg = core.TopGivenNamesConfig{Num: core.DefaultTopGivenNamesNum, Style: core.DefaultTopGivenNamesStyle}
	}
	if len(overrides) > 0 {
		var err error
		cfg, err = core.ParseTopGivenNamesConfig(overrides["num"], overrides["infoStyle"])
		if err != nil {
			return nil, err
		}
	}
	return &core.TopGivenNamesBlock{
		BlockID:      id,
		Title:        core.TopGivenNamesTitle(cfg.Num),
		Style:        cfg.Style,
		Males:        []core.GivenNameCount{{Name: "John", Count: 12}},
		Females:      []core.GivenNameCount{{Name: "Mary", Count: 15}},
		Configurable: bctx.Configurable(),
	}, nil
}

func (f *fakeService) TopGivenNamesSettings(_ context.Context, id int32) (core.TopGivenNamesConfig, error) {
	if cfg, ok := f.blockConfigs[id]; ok {
		return cfg, nil
	}
	return core.TopGivenNamesConfig{Num: core.DefaultTopGivenNamesNum, Style: core.DefaultTopGivenNamesStyle}, nil
}

func (f *fakeService) SaveTopGivenNamesConfig(_ context.Context, id int32, num, style string) (core.TopGivenNamesConfig, error) {
	cfg, err := core.ParseTopGivenNamesConfig(num, style)
	if err != nil {
		return core.TopGivenNamesConfig{}, err
	}
	f.blockConfigs[id] = cfg
	return cfg, nil
}

func (f *fakeService) ModuleAccessLevel(_ context.Context, _ core.Tree, m core.ModuleInfo) (core.Privilege, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if level, ok := f.levels[m.Name]; ok {
		return level, nil
	}
	return m.DefaultAccess, nil
}

func (f *fakeService) SetModuleAccessLevel(_ context.Context, _ core.Tree, m core.ModuleInfo, level core.Privilege) error {
	if _, ok := core.ParsePrivilege(int(level)); !ok {
		return core.ErrInvalidSetting
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels[m.Name] = level
	return nil
}

func (f *fakeService) CanViewModule(ctx context.Context, tree core.Tree, viewer core.Viewer, m core.ModuleInfo) (bool, error) {
	level, err := f.ModuleAccessLevel(ctx, tree, m)
	return core.CanView(viewer.AccessLevel(), level), err
}

func (f *fakeService) ListUsers(_ context.Context, q core.UserQuery) (core.UserPage, error) {
	f.userQueries = append(f.userQueries, q)
	page := core.UserPage{Page: q.Page, PageSize: q.PageSize}
	for id := int32(1); id <= int32(len(f.users)); id++ {
		if u, ok := f.users[id]; ok {
			page.Users = append(page.Users, *u)
		}
	}
	page.Total = int64(len(page.Users))
	page.Filtered = page.Total
	return page, nil
}

func (f *fakeService) User(_ context.Context, id int32) (*core.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeService) CreateUser(_ context.Context, nu core.NewUser) (*core.User, error) {
	if len(nu.Password) < core.MinPasswordLength {
		return nil, core.ErrPasswordTooShort
	}
	f.created = append(f.created, nu)
	f.nextID++
	u := &core.User{ID: f.nextID, UserName: nu.UserName}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeService) UpdateUser(_ context.Context, id int32, upd core.UserUpdate) error {
	if _, ok := f.users[id]; !ok {
		return core.ErrUserNotFound
	}
	f.updates[id] = upd
	return nil
}

func (f *fakeService) DeleteUser(_ context.Context, id int32) error {
	if _, ok := f.users[id]; !ok {
		return core.ErrUserNotFound
	}
	delete(f.users, id)
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeService) DeleteUsers(ctx context.Context, ids []int32) (int, error) {
	n := 0
	for _, id := range ids {
		if f.DeleteUser(ctx, id) == nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeService) CleanupCandidates(_ context.Context, months int) (core.CleanupReport, error) {
	f.cleanupAsks = append(f.cleanupAsks, months)
	report := f.cleanup
	report.Months = core.ValidCleanupMonths(months)
	return report, nil
}

func (f *fakeService) Authenticate(_ context.Context, name, password string) (*core.User, error) {
	for _, u := range f.users {
		if u.UserName == name {
			if password != name {
				return nil, core.ErrInvalidCredentials
			}
			return u, nil
		}
	}
	return nil, core.ErrInvalidCredentials
}

func (f *fakeService) StartSession(_ context.Context, id int32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sid := "sid-" + f.users[id].UserName
	f.sessions[sid] = id
	return sid, nil
}

func (f *fakeService) SessionUser(_ context.Context, sid string) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.sessions[sid]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return f.users[id], nil
}

func (f *fakeService) EndSession(_ context.Context, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sid)
	f.ended = append(f.ended, sid)
	return nil
}

func (f *fakeService) PlaceLocation(_ context.Context, id int32) (*core.PlaceLocation, error) {
	p, ok := f.places[id]
	if !ok {
		return nil, core.ErrPlaceNotFound
	}
	return &p, nil
}

func (f *fakeService) PlaceChildren(_ context.Context, parentID int32) ([]core.PlaceLocation, error) {
	var out []core.PlaceLocation
	for _, p := range f.places {
		if p.ParentID == parentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeService) SavePlaceLocation(_ context.Context, e core.PlaceEdit) (*core.PlaceLocation, error) {
	if strings.TrimSpace(e.Place) == "" {
		return nil, core.ErrRequiredField
	}
	if err := core.ValidateCoordinates(e.Latitude, e.Longitude); err != nil {
		return nil, err
	}
	if e.ID == 0 {
		f.nextID++
		e.ID = f.nextID
	}
	p := core.PlaceLocation{
		ID: e.ID, ParentID: e.ParentID, Place: e.Place,
		Latitude: e.Latitude, Longitude: e.Longitude, HasCoordinates: true,
		Zoom: core.ClampZoom(e.Zoom), Icon: e.Icon,
	}
	f.places[p.ID] = p
	return &p, nil
}

func (f *fakeService) DeletePlaceLocation(_ context.Context, id int32) error {
	if _, ok := f.places[id]; !ok {
		return core.ErrPlaceNotFound
	}
	delete(f.places, id)
	return nil
}

func (f *fakeService) MaybeHousekeeping() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.housekeeping++
	return true
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Security: config.SecurityConfig{
			EnableCSP:     true,
			SessionCookie: "ft_session",
		},
		Census: config.CensusConfig{DefaultPlace: "United States"},
	}
}

type testServer struct {
	t   *testing.T
	srv *Server
	svc *fakeService
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	svc := newFakeService()
	srv := NewServer(svc, cfg, metrics.New())
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &testServer{t: t, srv: srv, svc: svc}
}

// do sends a request as user ("" for a visitor). A form body makes it a
// form POST.
func (ts *testServer) do(method, target, user string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if user != "" {
		req.AddCookie(&http.Cookie{Name: "ft_session", Value: "sid-" + user})
	}
	rec := httptest.NewRecorder()
	ts.srv.Router().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) get(target, user string, headers ...string) *httptest.ResponseRecorder {
	ts.t.Helper()
	return ts.do(http.MethodGet, target, user, nil, headers...)
}

func (ts *testServer) post(target, user string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	ts.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return ts.do(http.MethodPost, target, user, form, headers...)
}

func treeBlock(id int32, order int32) database.Block {
	return database.Block{
		BlockID:    id,
		TreeID:     pgtype.Int4{Int32: demoTree.ID, Valid: true},
		Location:   "main",
		BlockOrder: order,
		ModuleName: core.ModuleTopGivenNames,
	}
}
