package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type AppUser struct {
	UserID       int32
	UserName     string
	RealName     string
	Email        string
	PasswordHash string
}

type Block struct {
	BlockID    int32
	TreeID     pgtype.Int4
	UserID     pgtype.Int4
	Location   string
	BlockOrder int32
	ModuleName string
}

type BlockSetting struct {
	BlockID      int32
	SettingName  string
	SettingValue string
}

type Family struct {
	TreeID       int32
	Xref         string
	HusbandXref  pgtype.Text
	WifeXref     pgtype.Text
	MarriageYear int32
}

type Individual struct {
	TreeID     int32
	Xref       string
	GivenName  string
	Surname    string
	Sex        string
	BirthYear  int32
	BirthPlace string
	DeathYear  int32
}

type ModuleSetting struct {
	ModuleName   string
	SettingName  string
	SettingValue string
}

type PlaceLocation struct {
	PlID      int32
	ParentID  pgtype.Int4
	Place     string
	Latitude  string
	Longitude string
	Zoom      int32
	Icon      string
}

type Session struct {
	SessionID   string
	UserID      pgtype.Int4
	IpAddress   string
	SessionTime pgtype.Timestamptz
	SessionData string
}

type Tree struct {
	TreeID int32
	Name   string
	Title  string
}

type UserSetting struct {
	UserID       int32
	SettingName  string
	SettingValue string
}
