package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/crypto/bcrypt"

	"github.com/JonMunkholm/familytree/internal/database"
)

// User preference names.
const (
	PrefLanguage        = "language"
	PrefRegTimestamp    = "reg_timestamp"
	PrefSessionTime     = "sessiontime"
	PrefVerified        = "verified"
	PrefVerifiedByAdmin = "verified_by_admin"
	PrefCanAdmin        = "canadmin"
)

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8

	// DefaultCleanupMonths is the default inactivity threshold.
	DefaultCleanupMonths = 6

	// UnverifiedGracePeriod is how long a new account may stay unverified.
	UnverifiedGracePeriod = 7 * 24 * time.Hour

	// DefaultUserPageSize is the user list page size.
	DefaultUserPageSize = 25

	secondsPerDay = 24 * 60 * 60
)

// CleanupMonths lists the inactivity thresholds offered for cleanup.
var CleanupMonths = []int{3, 6, 9, 12, 18, 24}

// UserQuery selects a page of the user list.
type UserQuery struct {
	Search   string
	Sort     database.UserSortColumn
	Desc     bool
	Page     int // 1-based
	PageSize int
}

// UserPage is one page of the user list.
type UserPage struct {
	Users    []User
	Total    int64 // all users
	Filtered int64 // users matching the search
	Page     int
	PageSize int
}

// NewUser holds the fields of an account to create.
type NewUser struct {
	UserName  string
	RealName  string
	Email     string
	Password  string
	Language  string
	Verified  bool
	SiteAdmin bool
}

// UserUpdate holds the editable fields of an account. An empty Password
// keeps the current one. Roles maps tree IDs to the new role in that tree.
type UserUpdate struct {
	UserName        string
	RealName        string
	Email           string
	Password        string
	Language        string
	Verified        bool
	VerifiedByAdmin bool
	SiteAdmin       bool
	Roles           map[int32]Role
}

// CleanupReport lists the accounts eligible for deletion.
type CleanupReport struct {
	Months     int
	Inactive   []User
	Unverified []User
}

// Deletable reports the candidates cleanup may delete. Site administrators
// are listed but kept.
func (r CleanupReport) Deletable() map[int32]bool {
	ids := make(map[int32]bool, len(r.Inactive)+len(r.Unverified))
	for _, group := range [][]User{r.Inactive, r.Unverified} {
		for _, u := range group {
			if !u.SiteAdmin {
				ids[u.ID] = true
			}
		}
	}
	return ids
}

func unixOrZero(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func userFromListRow(row database.ListUsersRow) User {
	return User{
		ID:              row.UserID,
		UserName:        row.UserName,
		RealName:        row.RealName,
		Email:           row.Email,
		Language:        row.Language,
		RegisteredAt:    unixOrZero(row.RegTimestamp),
		LastLogin:       unixOrZero(row.SessionTime),
		Verified:        row.Verified,
		VerifiedByAdmin: row.VerifiedByAdmin,
		SiteAdmin:       row.CanAdmin,
	}
}

// boolSetting is the stored form of a yes/no user setting.
func boolSetting(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ListUsers returns one page of users.
func (s *Service) ListUsers(ctx context.Context, query UserQuery) (UserPage, error) {
	if query.PageSize <= 0 {
		query.PageSize = DefaultUserPageSize
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if !database.ValidUserSort(query.Sort) {
		query.Sort = database.SortUserName
	}

	page := UserPage{Page: query.Page, PageSize: query.PageSize}

	total, err := s.q.CountUsers(ctx, "")
	if err != nil {
		return page, fmt.Errorf("count users: %w", err)
	}
	page.Total = total

	page.Filtered = total
	if strings.TrimSpace(query.Search) != "" {
		if page.Filtered, err = s.q.CountUsers(ctx, query.Search); err != nil {
			return page, fmt.Errorf("count users: %w", err)
		}
	}

	rows, err := s.q.ListUsers(ctx, database.ListUsersParams{
		Search:  query.Search,
		OrderBy: query.Sort,
		Desc:    query.Desc,
		Limit:   int32(query.PageSize),
		Offset:  int32((query.Page - 1) * query.PageSize),
	})
	if err != nil {
		return page, fmt.Errorf("list users: %w", err)
	}
	page.Users = make([]User, len(rows))
	for i, row := range rows {
		page.Users[i] = userFromListRow(row)
	}
	return page, nil
}

// User loads an account with its preferences.
func (s *Service) User(ctx context.Context, userID int32) (*User, error) {
	row, err := s.q.GetUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.withPreferences(ctx, row)
}

func (s *Service) withPreferences(ctx context.Context, row database.AppUser) (*User, error) {
	settings, err := s.q.ListUserSettings(ctx, row.UserID)
	if err != nil {
		return nil, fmt.Errorf("list user settings: %w", err)
	}

	u := &User{
		ID:       row.UserID,
		UserName: row.UserName,
		RealName: row.RealName,
		Email:    row.Email,
	}
	for _, setting := range settings {
		switch setting.SettingName {
		case PrefLanguage:
			u.Language = setting.SettingValue
		case PrefRegTimestamp:
			n, _ := strconv.ParseInt(setting.SettingValue, 10, 64)
			u.RegisteredAt = unixOrZero(n)
		case PrefSessionTime:
			n, _ := strconv.ParseInt(setting.SettingValue, 10, 64)
			u.LastLogin = unixOrZero(n)
		case PrefVerified:
			u.Verified = setting.SettingValue == "1"
		case PrefVerifiedByAdmin:
			u.VerifiedByAdmin = setting.SettingValue == "1"
		case PrefCanAdmin:
			u.SiteAdmin = setting.SettingValue == "1"
		}
	}
	return u, nil
}

func validateAccount(userName, realName, email string) error {
	switch {
	case strings.TrimSpace(userName) == "":
		return fmt.Errorf("user name: %w", ErrRequiredField)
	case strings.TrimSpace(realName) == "":
		return fmt.Errorf("real name: %w", ErrRequiredField)
	case strings.TrimSpace(email) == "":
		return fmt.Errorf("email: %w", ErrRequiredField)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%q: %w", email, ErrInvalidEmail)
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("at least %d characters: %w", MinPasswordLength, ErrPasswordTooShort)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func ensureUnique(ctx context.Context, q database.Querier, userName, email string, exclude int32) error {
	n, err := q.CountUsersByNameOrEmail(ctx, database.CountUsersByNameOrEmailParams{
		UserName:      userName,
		Email:         email,
		ExcludeUserID: exclude,
	})
	if err != nil {
		return fmt.Errorf("check duplicate user: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%s / %s: %w", userName, email, ErrUserExists)
	}
	return nil
}

func upsertSettings(ctx context.Context, q database.Querier, userID int32, settings map[string]string) error {
	for name, value := range settings {
		err := q.UpsertUserSetting(ctx, database.UpsertUserSettingParams{
			UserID:       userID,
			SettingName:  name,
			SettingValue: value,
		})
		if err != nil {
			return fmt.Errorf("set user setting %s: %w", name, err)
		}
	}
	return nil
}

// CreateUser creates an account. The user name and email must be unused.
func (s *Service) CreateUser(ctx context.Context, nu NewUser) (*User, error) {
	nu.UserName = strings.TrimSpace(nu.UserName)
	nu.RealName = strings.TrimSpace(nu.RealName)
	nu.Email = strings.TrimSpace(nu.Email)

	if err := validateAccount(nu.UserName, nu.RealName, nu.Email); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(nu.Password)
	if err != nil {
		return nil, err
	}

	var created database.AppUser
	err = s.inTx(ctx, func(q database.Querier) error {
		if err := ensureUnique(ctx, q, nu.UserName, nu.Email, 0); err != nil {
			return err
		}

		created, err = q.CreateUser(ctx, database.CreateUserParams{
			UserName:     nu.UserName,
			RealName:     nu.RealName,
			Email:        nu.Email,
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		return upsertSettings(ctx, q, created.UserID, map[string]string{
			PrefLanguage:        nu.Language,
			PrefRegTimestamp:    strconv.FormatInt(s.now().Unix(), 10),
			PrefSessionTime:     "0",
			PrefVerified:        boolSetting(nu.Verified),
			PrefVerifiedByAdmin: boolSetting(nu.Verified),
			PrefCanAdmin:        boolSetting(nu.SiteAdmin),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logAuth(ctx, "Created user: "+created.UserName, 0)
	return s.User(ctx, created.UserID)
}

// UpdateUser changes an account, its preferences and its tree roles.
func (s *Service) UpdateUser(ctx context.Context, userID int32, upd UserUpdate) error {
	upd.UserName = strings.TrimSpace(upd.UserName)
	upd.RealName = strings.TrimSpace(upd.RealName)
	upd.Email = strings.TrimSpace(upd.Email)

	if err := validateAccount(upd.UserName, upd.RealName, upd.Email); err != nil {
		return err
	}
	for _, role := range upd.Roles {
		if _, err := ParseRole(string(role)); err != nil {
			return err
		}
	}

	var hash string
	if upd.Password != "" {
		var err error
		if hash, err = s.hashPassword(upd.Password); err != nil {
			return err
		}
	}

	return s.inTx(ctx, func(q database.Querier) error {
		if _, err := q.GetUser(ctx, userID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
			}
			return fmt.Errorf("get user: %w", err)
		}
		if err := ensureUnique(ctx, q, upd.UserName, upd.Email, userID); err != nil {
			return err
		}

		err := q.UpdateUser(ctx, database.UpdateUserParams{
			UserID:   userID,
			UserName: upd.UserName,
			RealName: upd.RealName,
			Email:    upd.Email,
		})
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}

		if hash != "" {
			err := q.UpdateUserPassword(ctx, database.UpdateUserPasswordParams{UserID: userID, PasswordHash: hash})
			if err != nil {
				return fmt.Errorf("update password: %w", err)
			}
		}

		err = upsertSettings(ctx, q, userID, map[string]string{
			PrefLanguage:        upd.Language,
			PrefVerified:        boolSetting(upd.Verified),
			PrefVerifiedByAdmin: boolSetting(upd.VerifiedByAdmin),
			PrefCanAdmin:        boolSetting(upd.SiteAdmin),
		})
		if err != nil {
			return err
		}

		for treeID, role := range upd.Roles {
			err := q.UpsertUserTreeSetting(ctx, database.UpsertUserTreeSettingParams{
				UserID:       userID,
				TreeID:       treeID,
				SettingName:  PrefCanEdit,
				SettingValue: string(role),
			})
			if err != nil {
				return fmt.Errorf("set role in tree %d: %w", treeID, err)
			}
		}
		return nil
	})
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, userID int32) error {
	n, err := s.q.DeleteUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	s.logAuth(ctx, "Deleted user: "+strconv.Itoa(int(userID)), 0)
	return nil
}

// DeleteUsers removes several accounts and returns how many were deleted.
// Unknown IDs are skipped.
func (s *Service) DeleteUsers(ctx context.Context, userIDs []int32) (int, error) {
	deleted := 0
	for _, id := range userIDs {
		err := s.DeleteUser(ctx, id)
		if errors.Is(err, ErrUserNotFound) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// lastActivity is the last login, or the registration time for users who
// never logged in.
func lastActivity(u User) time.Time {
	if !u.LastLogin.IsZero() {
		return u.LastLogin
	}
	return u.RegisteredAt
}

// ValidCleanupMonths returns months if it is an offered threshold, else the
// default.
func ValidCleanupMonths(months int) int {
	for _, m := range CleanupMonths {
		if m == months {
			return months
		}
	}
	return DefaultCleanupMonths
}

// CleanupCandidates lists verified users inactive for more than months
// (of 30 days), and unverified users registered more than a week ago.
func (s *Service) CleanupCandidates(ctx context.Context, months int) (CleanupReport, error) {
	months = ValidCleanupMonths(months)
	report := CleanupReport{Months: months}

	rows, err := s.q.ListUsers(ctx, database.ListUsersParams{OrderBy: database.SortUserName})
	if err != nil {
		return report, fmt.Errorf("list users: %w", err)
	}

	now := s.now()
	inactiveBefore := now.Add(-time.Duration(months*30*secondsPerDay) * time.Second)
	unverifiedBefore := now.Add(-UnverifiedGracePeriod)

	for _, row := range rows {
		u := userFromListRow(row)
		last := lastActivity(u)
		switch {
		case u.Verified && last.Before(inactiveBefore):
			report.Inactive = append(report.Inactive, u)
		case !u.Verified && last.Before(unverifiedBefore):
			report.Unverified = append(report.Unverified, u)
		}
	}
	return report, nil
}

// Authenticate checks a user name and password and records the login.
func (s *Service) Authenticate(ctx context.Context, userName, password string) (*User, error) {
	row, err := s.q.GetUserByName(ctx, strings.TrimSpace(userName))
	if errors.Is(err, pgx.ErrNoRows) {
		s.logAuth(ctx, "Login failed (no such user): "+userName, 0)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		s.logAuth(ctx, "Login failed (incorrect password): "+userName, row.UserID)
		return nil, ErrInvalidCredentials
	}

	u, err := s.withPreferences(ctx, row)
	if err != nil {
		return nil, err
	}
	if !u.Verified {
		s.logAuth(ctx, "Login failed (not verified by user): "+userName, row.UserID)
		return nil, ErrUserNotVerified
	}
	if !u.VerifiedByAdmin && !u.SiteAdmin {
		s.logAuth(ctx, "Login failed (not approved by admin): "+userName, row.UserID)
		return nil, ErrUserNotVerified
	}

	u.LastLogin = s.now().UTC().Truncate(time.Second)
	err = s.q.UpsertUserSetting(ctx, database.UpsertUserSettingParams{
		UserID:       u.ID,
		SettingName:  PrefSessionTime,
		SettingValue: strconv.FormatInt(u.LastLogin.Unix(), 10),
	})
	if err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}

	s.logAuth(ctx, "Login: "+u.UserName+"/"+u.RealName, u.ID)
	return u, nil
}

// StartSession opens a session for a signed-in user.
func (s *Service) StartSession(ctx context.Context, userID int32) (string, error) {
	id := uuid.NewString()
	err := s.q.CreateSession(ctx, database.CreateSessionParams{
		SessionID: id,
		UserID:    pgtype.Int4{Int32: userID, Valid: true},
		IpAddress: GetIPAddressFromContext(ctx),
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// SessionUser returns the user of a live session and refreshes it.
func (s *Service) SessionUser(ctx context.Context, sessionID string) (*User, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, ErrSessionNotFound
	}

	sess, err := s.q.GetSession(ctx, sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !sess.UserID.Valid {
		return nil, ErrSessionNotFound
	}
	if sess.SessionTime.Valid && s.now().Sub(sess.SessionTime.Time) > s.housekeeping.MaxSessionAge {
		return nil, ErrSessionNotFound
	}

	u, err := s.User(ctx, sess.UserID.Int32)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.q.TouchSession(ctx, sessionID); err != nil {
		slog.Warn("touch session failed", "error", err)
	}
	return u, nil
}

// EndSession signs a session out.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	if err := s.q.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// logAuth writes the authentication log. Failures are logged, not returned.
func (s *Service) logAuth(ctx context.Context, message string, userID int32) {
	err := s.q.InsertLog(ctx, database.InsertLogParams{
		LogType:    "auth",
		LogMessage: message,
		IpAddress:  GetIPAddressFromContext(ctx),
		UserID:     pgtype.Int4{Int32: userID, Valid: userID > 0},
	})
	if err != nil {
		slog.Warn("write auth log failed", "error", err)
	}
}
