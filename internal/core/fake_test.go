package core

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/familytree/internal/database"
)

// fakeDB is an in-memory database.Querier. It is safe for concurrent use
// and holds a single tree's records unless tests add more.
type fakeDB struct {
	mu  sync.Mutex
	now func() time.Time

	trees       []database.Tree
	individuals map[string]database.Individual
	families    map[string]database.Family
	children    []fakeChildLink
	topNames    map[string][]database.TopGivenNamesRow

	blocks         map[int32]database.Block
	blockSettings  map[int32]map[string]string
	moduleSettings map[string]map[string]string
	accessLevels   map[string]int32

	users        map[int32]database.AppUser
	userSettings map[int32]map[string]string
	treeSettings map[string]string

	sessions map[string]database.Session
	logs     []fakeLog

	places map[int32]database.PlaceLocation

	nextID int32
	calls  map[string]int
	fail   map[string]error
}

type fakeChildLink struct {
	family   string
	child    string
	pedigree string
}

type fakeLog struct {
	database.InsertLogParams
	at time.Time
}

var _ database.Querier = (*fakeDB)(nil)

func newFakeDB() *fakeDB {
	return &fakeDB{
		now:            time.Now,
		individuals:    make(map[string]database.Individual),
		families:       make(map[string]database.Family),
		topNames:       make(map[string][]database.TopGivenNamesRow),
		blocks:         make(map[int32]database.Block),
		blockSettings:  make(map[int32]map[string]string),
		moduleSettings: make(map[string]map[string]string),
		accessLevels:   make(map[string]int32),
		users:          make(map[int32]database.AppUser),
		userSettings:   make(map[int32]map[string]string),
		treeSettings:   make(map[string]string),
		sessions:       make(map[string]database.Session),
		places:         make(map[int32]database.PlaceLocation),
		nextID:         100,
		calls:          make(map[string]int),
		fail:           make(map[string]error),
	}
}

// call records a call and returns the configured failure, if any.
// The caller must hold f.mu.
func (f *fakeDB) call(name string) error {
	f.calls[name]++
	return f.fail[name]
}

func (f *fakeDB) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeDB) failOn(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[name] = err
}

// Builders

func (f *fakeDB) addIndividual(xref, given, surname, sex string, born, died int, birthPlace string) {
	f.individuals[xref] = database.Individual{
		TreeID:     1,
		Xref:       xref,
		GivenName:  given,
		Surname:    surname,
		Sex:        sex,
		BirthYear:  int32(born),
		BirthPlace: birthPlace,
		DeathYear:  int32(died),
	}
}

func (f *fakeDB) addFamily(xref, husband, wife string, married int, children ...string) {
	fam := database.Family{TreeID: 1, Xref: xref, MarriageYear: int32(married)}
	if husband != "" {
		fam.HusbandXref = pgtype.Text{String: husband, Valid: true}
	}
	if wife != "" {
		fam.WifeXref = pgtype.Text{String: wife, Valid: true}
	}
	f.families[xref] = fam
	for _, child := range children {
		f.children = append(f.children, fakeChildLink{family: xref, child: child, pedigree: "birth"})
	}
}

func (f *fakeDB) addUser(id int32, userName, realName, email, passwordHash string, settings map[string]string) {
	f.users[id] = database.AppUser{
		UserID:       id,
		UserName:     userName,
		RealName:     realName,
		Email:        email,
		PasswordHash: passwordHash,
	}
	f.userSettings[id] = make(map[string]string)
	for k, v := range settings {
		f.userSettings[id][k] = v
	}
}

func treeSettingKey(userID, treeID int32, name string) string {
	return fmt.Sprintf("%d|%d|%s", userID, treeID, name)
}

func accessKey(treeID int32, module, component string) string {
	return fmt.Sprintf("%d|%s|%s", treeID, module, component)
}

// Trees and records

func (f *fakeDB) GetTreeByName(_ context.Context, name string) (database.Tree, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetTreeByName"); err != nil {
		return database.Tree{}, err
	}
	for _, t := range f.trees {
		if t.Name == name {
			return t, nil
		}
	}
	return database.Tree{}, pgx.ErrNoRows
}

func (f *fakeDB) ListTrees(_ context.Context) ([]database.Tree, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListTrees"); err != nil {
		return nil, err
	}
	trees := slices.Clone(f.trees)
	slices.SortFunc(trees, func(a, b database.Tree) int { return cmp.Compare(a.Name, b.Name) })
	return trees, nil
}

func (f *fakeDB) GetIndividual(_ context.Context, arg database.GetIndividualParams) (database.Individual, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetIndividual"); err != nil {
		return database.Individual{}, err
	}
	ind, ok := f.individuals[arg.Xref]
	if !ok || ind.TreeID != arg.TreeID {
		return database.Individual{}, pgx.ErrNoRows
	}
	return ind, nil
}

func (f *fakeDB) GetFamily(_ context.Context, arg database.GetFamilyParams) (database.Family, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetFamily"); err != nil {
		return database.Family{}, err
	}
	fam, ok := f.families[arg.Xref]
	if !ok || fam.TreeID != arg.TreeID {
		return database.Family{}, pgx.ErrNoRows
	}
	return fam, nil
}

func (f *fakeDB) ListChildFamilies(_ context.Context, arg database.ListChildFamiliesParams) ([]database.Family, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListChildFamilies"); err != nil {
		return nil, err
	}
	links := slices.Clone(f.children)
	slices.SortStableFunc(links, func(a, b fakeChildLink) int {
		// birth pedigree first, then by family xref
		if (a.pedigree == "birth") != (b.pedigree == "birth") {
			if a.pedigree == "birth" {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.family, b.family)
	})
	var out []database.Family
	for _, link := range links {
		if link.child == arg.ChildXref {
			if fam, ok := f.families[link.family]; ok && fam.TreeID == arg.TreeID {
				out = append(out, fam)
			}
		}
	}
	return out, nil
}

func (f *fakeDB) ListSpouseFamilies(_ context.Context, arg database.ListSpouseFamiliesParams) ([]database.Family, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListSpouseFamilies"); err != nil {
		return nil, err
	}
	var out []database.Family
	for _, fam := range f.families {
		if fam.TreeID == arg.TreeID && (fam.HusbandXref.String == arg.Xref || fam.WifeXref.String == arg.Xref) {
			out = append(out, fam)
		}
	}
	slices.SortFunc(out, func(a, b database.Family) int {
		return cmp.Or(cmp.Compare(a.MarriageYear, b.MarriageYear), cmp.Compare(a.Xref, b.Xref))
	})
	return out, nil
}

func (f *fakeDB) ListFamilyChildren(_ context.Context, arg database.ListFamilyChildrenParams) ([]database.Individual, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListFamilyChildren"); err != nil {
		return nil, err
	}
	var out []database.Individual
	for _, link := range f.children {
		if link.family != arg.FamilyXref {
			continue
		}
		if ind, ok := f.individuals[link.child]; ok && ind.TreeID == arg.TreeID {
			out = append(out, ind)
		}
	}
	return out, nil
}

func (f *fakeDB) SearchIndividuals(_ context.Context, arg database.SearchIndividualsParams) ([]database.Individual, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("SearchIndividuals"); err != nil {
		return nil, err
	}
	needle := strings.TrimSuffix(strings.TrimPrefix(arg.Pattern, "%"), "%")
	needle = strings.NewReplacer(`\%`, `%`, `\_`, `_`, `\\`, `\`).Replace(needle)
	needle = strings.ToLower(needle)

	var out []database.Individual
	for _, ind := range f.individuals {
		name := strings.ToLower(ind.GivenName + " " + ind.Surname)
		if ind.TreeID == arg.TreeID && strings.Contains(name, needle) {
			out = append(out, ind)
		}
	}
	slices.SortFunc(out, func(a, b database.Individual) int {
		return cmp.Or(cmp.Compare(a.Surname, b.Surname), cmp.Compare(a.GivenName, b.GivenName), cmp.Compare(a.Xref, b.Xref))
	})
	if len(out) > int(arg.Limit) {
		out = out[:arg.Limit]
	}
	return out, nil
}

func (f *fakeDB) TopGivenNames(_ context.Context, arg database.TopGivenNamesParams) ([]database.TopGivenNamesRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("TopGivenNames:" + arg.Sex); err != nil {
		return nil, err
	}
	rows := f.topNames[arg.Sex]
	if len(rows) > int(arg.Limit) {
		rows = rows[:arg.Limit]
	}
	return slices.Clone(rows), nil
}

// Blocks and modules

func (f *fakeDB) GetBlock(_ context.Context, blockID int32) (database.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetBlock"); err != nil {
		return database.Block{}, err
	}
	b, ok := f.blocks[blockID]
	if !ok {
		return database.Block{}, pgx.ErrNoRows
	}
	return b, nil
}

func (f *fakeDB) ListTreeBlocks(_ context.Context, treeID int32) ([]database.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListTreeBlocks"); err != nil {
		return nil, err
	}
	var out []database.Block
	for _, b := range f.blocks {
		if b.TreeID.Valid && b.TreeID.Int32 == treeID {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b database.Block) int {
		return cmp.Or(cmp.Compare(a.BlockOrder, b.BlockOrder), cmp.Compare(a.BlockID, b.BlockID))
	})
	return out, nil
}

func (f *fakeDB) ListBlockSettings(_ context.Context, blockID int32) ([]database.BlockSetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListBlockSettings"); err != nil {
		return nil, err
	}
	var out []database.BlockSetting
	for name, value := range f.blockSettings[blockID] {
		out = append(out, database.BlockSetting{BlockID: blockID, SettingName: name, SettingValue: value})
	}
	return out, nil
}

func (f *fakeDB) UpsertBlockSetting(_ context.Context, arg database.UpsertBlockSettingParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpsertBlockSetting"); err != nil {
		return err
	}
	if f.blockSettings[arg.BlockID] == nil {
		f.blockSettings[arg.BlockID] = make(map[string]string)
	}
	f.blockSettings[arg.BlockID][arg.SettingName] = arg.SettingValue
	return nil
}

func (f *fakeDB) DeleteBlockSetting(_ context.Context, arg database.DeleteBlockSettingParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteBlockSetting"); err != nil {
		return err
	}
	delete(f.blockSettings[arg.BlockID], arg.SettingName)
	return nil
}

func (f *fakeDB) ListModuleSettings(_ context.Context, moduleName string) ([]database.ModuleSetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListModuleSettings"); err != nil {
		return nil, err
	}
	var out []database.ModuleSetting
	for name, value := range f.moduleSettings[moduleName] {
		out = append(out, database.ModuleSetting{ModuleName: moduleName, SettingName: name, SettingValue: value})
	}
	return out, nil
}

func (f *fakeDB) UpsertModuleSetting(_ context.Context, arg database.UpsertModuleSettingParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpsertModuleSetting"); err != nil {
		return err
	}
	if f.moduleSettings[arg.ModuleName] == nil {
		f.moduleSettings[arg.ModuleName] = make(map[string]string)
	}
	f.moduleSettings[arg.ModuleName][arg.SettingName] = arg.SettingValue
	return nil
}

func (f *fakeDB) GetModuleAccessLevel(_ context.Context, arg database.GetModuleAccessLevelParams) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetModuleAccessLevel"); err != nil {
		return 0, err
	}
	level, ok := f.accessLevels[accessKey(arg.TreeID, arg.ModuleName, arg.Component)]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	return level, nil
}

func (f *fakeDB) UpsertModuleAccessLevel(_ context.Context, arg database.UpsertModuleAccessLevelParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpsertModuleAccessLevel"); err != nil {
		return err
	}
	f.accessLevels[accessKey(arg.TreeID, arg.ModuleName, arg.Component)] = arg.AccessLevel
	return nil
}

// Users

func (f *fakeDB) GetUser(_ context.Context, userID int32) (database.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetUser"); err != nil {
		return database.AppUser{}, err
	}
	u, ok := f.users[userID]
	if !ok {
		return database.AppUser{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeDB) GetUserByName(_ context.Context, userName string) (database.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetUserByName"); err != nil {
		return database.AppUser{}, err
	}
	for _, u := range f.users {
		if u.UserName == userName {
			return u, nil
		}
	}
	return database.AppUser{}, pgx.ErrNoRows
}

func (f *fakeDB) CountUsersByNameOrEmail(_ context.Context, arg database.CountUsersByNameOrEmailParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CountUsersByNameOrEmail"); err != nil {
		return 0, err
	}
	var n int64
	for _, u := range f.users {
		if u.UserID != arg.ExcludeUserID && (u.UserName == arg.UserName || u.Email == arg.Email) {
			n++
		}
	}
	return n, nil
}

func (f *fakeDB) CreateUser(_ context.Context, arg database.CreateUserParams) (database.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateUser"); err != nil {
		return database.AppUser{}, err
	}
	f.nextID++
	u := database.AppUser{
		UserID:       f.nextID,
		UserName:     arg.UserName,
		RealName:     arg.RealName,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
	}
	f.users[u.UserID] = u
	f.userSettings[u.UserID] = make(map[string]string)
	return u, nil
}

func (f *fakeDB) UpdateUser(_ context.Context, arg database.UpdateUserParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateUser"); err != nil {
		return err
	}
	u := f.users[arg.UserID]
	u.UserName, u.RealName, u.Email = arg.UserName, arg.RealName, arg.Email
	f.users[arg.UserID] = u
	return nil
}

func (f *fakeDB) UpdateUserPassword(_ context.Context, arg database.UpdateUserPasswordParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateUserPassword"); err != nil {
		return err
	}
	u := f.users[arg.UserID]
	u.PasswordHash = arg.PasswordHash
	f.users[arg.UserID] = u
	return nil
}

func (f *fakeDB) DeleteUser(_ context.Context, userID int32) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteUser"); err != nil {
		return 0, err
	}
	if _, ok := f.users[userID]; !ok {
		return 0, nil
	}
	delete(f.users, userID)
	delete(f.userSettings, userID)
	return 1, nil
}

func (f *fakeDB) ListUserSettings(_ context.Context, userID int32) ([]database.UserSetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListUserSettings"); err != nil {
		return nil, err
	}
	var out []database.UserSetting
	for name, value := range f.userSettings[userID] {
		out = append(out, database.UserSetting{UserID: userID, SettingName: name, SettingValue: value})
	}
	return out, nil
}

func (f *fakeDB) UpsertUserSetting(_ context.Context, arg database.UpsertUserSettingParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpsertUserSetting"); err != nil {
		return err
	}
	if f.userSettings[arg.UserID] == nil {
		f.userSettings[arg.UserID] = make(map[string]string)
	}
	f.userSettings[arg.UserID][arg.SettingName] = arg.SettingValue
	return nil
}

func (f *fakeDB) GetUserTreeSetting(_ context.Context, arg database.GetUserTreeSettingParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetUserTreeSetting"); err != nil {
		return "", err
	}
	v, ok := f.treeSettings[treeSettingKey(arg.UserID, arg.TreeID, arg.SettingName)]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return v, nil
}

func (f *fakeDB) UpsertUserTreeSetting(_ context.Context, arg database.UpsertUserTreeSettingParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpsertUserTreeSetting"); err != nil {
		return err
	}
	f.treeSettings[treeSettingKey(arg.UserID, arg.TreeID, arg.SettingName)] = arg.SettingValue
	return nil
}

// listRow builds the user list projection. The caller must hold f.mu.
func (f *fakeDB) listRow(u database.AppUser) database.ListUsersRow {
	settings := f.userSettings[u.UserID]
	unix := func(name string) int64 {
		n, _ := strconv.ParseInt(settings[name], 10, 64)
		return n
	}
	return database.ListUsersRow{
		UserID:          u.UserID,
		UserName:        u.UserName,
		RealName:        u.RealName,
		Email:           u.Email,
		Language:        settings[PrefLanguage],
		RegTimestamp:    unix(PrefRegTimestamp),
		SessionTime:     unix(PrefSessionTime),
		Verified:        settings[PrefVerified] == "1",
		VerifiedByAdmin: settings[PrefVerifiedByAdmin] == "1",
		CanAdmin:        settings[PrefCanAdmin] == "1",
	}
}

// matchingUsers returns users matching search, by user name. The caller
// must hold f.mu.
func (f *fakeDB) matchingUsers(search string) []database.ListUsersRow {
	search = strings.ToLower(strings.TrimSpace(search))
	var rows []database.ListUsersRow
	for _, u := range f.users {
		hay := strings.ToLower(u.UserName + "\x00" + u.RealName + "\x00" + u.Email)
		if search == "" || strings.Contains(hay, search) {
			rows = append(rows, f.listRow(u))
		}
	}
	slices.SortFunc(rows, func(a, b database.ListUsersRow) int { return cmp.Compare(a.UserName, b.UserName) })
	return rows
}

func (f *fakeDB) ListUsers(_ context.Context, arg database.ListUsersParams) ([]database.ListUsersRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListUsers"); err != nil {
		return nil, err
	}
	rows := f.matchingUsers(arg.Search)
	if arg.Desc {
		slices.Reverse(rows)
	}
	if int(arg.Offset) >= len(rows) {
		return nil, nil
	}
	rows = rows[arg.Offset:]
	if arg.Limit > 0 && len(rows) > int(arg.Limit) {
		rows = rows[:arg.Limit]
	}
	return rows, nil
}

func (f *fakeDB) CountUsers(_ context.Context, search string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CountUsers"); err != nil {
		return 0, err
	}
	return int64(len(f.matchingUsers(search))), nil
}

// Sessions and logs

func (f *fakeDB) CreateSession(_ context.Context, arg database.CreateSessionParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateSession"); err != nil {
		return err
	}
	f.sessions[arg.SessionID] = database.Session{
		SessionID:   arg.SessionID,
		UserID:      arg.UserID,
		IpAddress:   arg.IpAddress,
		SessionTime: pgtype.Timestamptz{Time: f.now(), Valid: true},
		SessionData: arg.SessionData,
	}
	return nil
}

func (f *fakeDB) GetSession(_ context.Context, sessionID string) (database.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetSession"); err != nil {
		return database.Session{}, err
	}
	sess, ok := f.sessions[sessionID]
	if !ok {
		return database.Session{}, pgx.ErrNoRows
	}
	return sess, nil
}

func (f *fakeDB) TouchSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("TouchSession"); err != nil {
		return err
	}
	if sess, ok := f.sessions[sessionID]; ok {
		sess.SessionTime = pgtype.Timestamptz{Time: f.now(), Valid: true}
		f.sessions[sessionID] = sess
	}
	return nil
}

func (f *fakeDB) DeleteSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteSession"); err != nil {
		return err
	}
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeDB) DeleteSessionsBefore(_ context.Context, cutoff pgtype.Timestamptz) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteSessionsBefore"); err != nil {
		return 0, err
	}
	var n int64
	for id, sess := range f.sessions {
		if sess.SessionTime.Time.Before(cutoff.Time) {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeDB) InsertLog(_ context.Context, arg database.InsertLogParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("InsertLog"); err != nil {
		return err
	}
	f.logs = append(f.logs, fakeLog{InsertLogParams: arg, at: f.now()})
	return nil
}

func (f *fakeDB) DeleteLogsBefore(_ context.Context, cutoff pgtype.Timestamptz) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteLogsBefore"); err != nil {
		return 0, err
	}
	kept := f.logs[:0]
	var n int64
	for _, l := range f.logs {
		if l.at.Before(cutoff.Time) {
			n++
			continue
		}
		kept = append(kept, l)
	}
	f.logs = kept
	return n, nil
}

func (f *fakeDB) logMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.logs))
	for i, l := range f.logs {
		out[i] = l.LogMessage
	}
	return out
}

// Places

func (f *fakeDB) GetPlaceLocation(_ context.Context, plID int32) (database.PlaceLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetPlaceLocation"); err != nil {
		return database.PlaceLocation{}, err
	}
	p, ok := f.places[plID]
	if !ok {
		return database.PlaceLocation{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeDB) ListPlaceLocations(_ context.Context, parentID pgtype.Int4) ([]database.PlaceLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListPlaceLocations"); err != nil {
		return nil, err
	}
	var out []database.PlaceLocation
	for _, p := range f.places {
		if p.ParentID == parentID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b database.PlaceLocation) int { return cmp.Compare(a.Place, b.Place) })
	return out, nil
}

func (f *fakeDB) CreatePlaceLocation(_ context.Context, arg database.CreatePlaceLocationParams) (database.PlaceLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreatePlaceLocation"); err != nil {
		return database.PlaceLocation{}, err
	}
	f.nextID++
	p := database.PlaceLocation{
		PlID:      f.nextID,
		ParentID:  arg.ParentID,
		Place:     arg.Place,
		Latitude:  arg.Latitude,
		Longitude: arg.Longitude,
		Zoom:      arg.Zoom,
		Icon:      arg.Icon,
	}
	f.places[p.PlID] = p
	return p, nil
}

func (f *fakeDB) UpdatePlaceLocation(_ context.Context, arg database.UpdatePlaceLocationParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdatePlaceLocation"); err != nil {
		return 0, err
	}
	p, ok := f.places[arg.PlID]
	if !ok {
		return 0, nil
	}
	p.Place, p.Latitude, p.Longitude, p.Zoom, p.Icon = arg.Place, arg.Latitude, arg.Longitude, arg.Zoom, arg.Icon
	f.places[arg.PlID] = p
	return 1, nil
}

func (f *fakeDB) DeletePlaceLocation(_ context.Context, plID int32) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeletePlaceLocation"); err != nil {
		return 0, err
	}
	if _, ok := f.places[plID]; !ok {
		return 0, nil
	}
	var n int64
	var remove func(id int32)
	remove = func(id int32) {
		delete(f.places, id)
		n++
		for childID, p := range f.places {
			if p.ParentID.Valid && p.ParentID.Int32 == id {
				remove(childID)
			}
		}
	}
	remove(plID)
	return n, nil
}
