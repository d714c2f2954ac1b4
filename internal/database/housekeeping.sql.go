package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createSession = `-- name: CreateSession :exec
INSERT INTO session (session_id, user_id, ip_address, session_time, session_data)
VALUES ($1, $2, $3, now(), $4)
`

type CreateSessionParams struct {
	SessionID   string
	UserID      pgtype.Int4
	IpAddress   string
	SessionData string
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.db.Exec(ctx, createSession, arg.SessionID, arg.UserID, arg.IpAddress, arg.SessionData)
	return err
}

const getSession = `-- name: GetSession :one
SELECT session_id, user_id, ip_address, session_time, session_data FROM session WHERE session_id = $1
`

func (q *Queries) GetSession(ctx context.Context, sessionID string) (Session, error) {
	row := q.db.QueryRow(ctx, getSession, sessionID)
	var i Session
	err := row.Scan(&i.SessionID, &i.UserID, &i.IpAddress, &i.SessionTime, &i.SessionData)
	return i, err
}

const touchSession = `-- name: TouchSession :exec
UPDATE session SET session_time = now() WHERE session_id = $1
`

func (q *Queries) TouchSession(ctx context.Context, sessionID string) error {
	_, err := q.db.Exec(ctx, touchSession, sessionID)
	return err
}

const deleteSession = `-- name: DeleteSession :exec
DELETE FROM session WHERE session_id = $1
`

func (q *Queries) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := q.db.Exec(ctx, deleteSession, sessionID)
	return err
}

const deleteSessionsBefore = `-- name: DeleteSessionsBefore :execrows
DELETE FROM session WHERE session_time < $1
`

func (q *Queries) DeleteSessionsBefore(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error) {
	result, err := q.db.Exec(ctx, deleteSessionsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const insertLog = `-- name: InsertLog :exec
INSERT INTO log (log_type, log_message, ip_address, user_id, tree_id)
VALUES ($1, $2, $3, $4, $5)
`

type InsertLogParams struct {
	LogType    string
	LogMessage string
	IpAddress  string
	UserID     pgtype.Int4
	TreeID     pgtype.Int4
}

func (q *Queries) InsertLog(ctx context.Context, arg InsertLogParams) error {
	_, err := q.db.Exec(ctx, insertLog, arg.LogType, arg.LogMessage, arg.IpAddress, arg.UserID, arg.TreeID)
	return err
}

const deleteLogsBefore = `-- name: DeleteLogsBefore :execrows
DELETE FROM log WHERE log_time < $1
`

func (q *Queries) DeleteLogsBefore(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error) {
	result, err := q.db.Exec(ctx, deleteLogsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
