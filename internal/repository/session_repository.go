package repository

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"time"

	"github.com/bem92/yoga-app/internal/model"
)

// SessionRepo persists sessions together with their roster rows in the
// `participate` join table.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

const sessionColumns = "id, name, description, session_date, teacher_id, created_at, updated_at"

// List returns every session ordered by id, rosters included.
func (r *SessionRepo) List(ctx context.Context) ([]*model.Session, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+sessionColumns+" FROM sessions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Session{}
	byID := map[uint64]*model.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	roster, err := r.db.QueryContext(ctx, "SELECT session_id, user_id FROM participate ORDER BY session_id, user_id")
	if err != nil {
		return nil, err
	}
	defer roster.Close()
	for roster.Next() {
		var sid, uid uint64
		if err := roster.Scan(&sid, &uid); err != nil {
			return nil, err
		}
		if s, ok := byID[sid]; ok {
			s.Users = append(s.Users, uid)
		}
	}
	return out, roster.Err()
}

// GetByID loads one session with its roster, or ErrSessionNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	s.Users, err = loadRoster(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts s and its roster in one transaction and fills in the id
// and timestamps.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Truncate(time.Second)
	res, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (name, description, session_date, teacher_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		s.Name, s.Description, s.Date.UTC(), s.TeacherID, now, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err = replaceRoster(ctx, tx, uint64(id), s.Users); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	s.ID = uint64(id)
	s.CreatedAt, s.UpdatedAt = now, now
	return nil
}

// Save overwrites the stored row of s and replaces its roster.  It returns
// ErrSessionNotFound when s.ID does not exist.
func (r *SessionRepo) Save(ctx context.Context, s *model.Session) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var createdAt time.Time
	if err = tx.QueryRowContext(ctx, "SELECT created_at FROM sessions WHERE id = ?", s.ID).Scan(&createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrSessionNotFound
		}
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	if _, err = tx.ExecContext(ctx,
		"UPDATE sessions SET name = ?, description = ?, session_date = ?, teacher_id = ?, updated_at = ? WHERE id = ?",
		s.Name, s.Description, s.Date.UTC(), s.TeacherID, now, s.ID); err != nil {
		return err
	}
	if err = replaceRoster(ctx, tx, s.ID, s.Users); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	s.CreatedAt, s.UpdatedAt = createdAt, now
	return nil
}

// Delete removes the session; its roster rows cascade.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*model.Session, error) {
	var (
		s       model.Session
		teacher sql.NullInt64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Date, &teacher, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if teacher.Valid {
		id := uint64(teacher.Int64)
		s.TeacherID = &id
	}
	return &s, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadRoster(ctx context.Context, q querier, sessionID uint64) ([]uint64, error) {
	rows, err := q.QueryContext(ctx, "SELECT user_id FROM participate WHERE session_id = ? ORDER BY user_id", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []uint64{}
	for rows.Next() {
		var uid uint64
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		users = append(users, uid)
	}
	return users, rows.Err()
}

func replaceRoster(ctx context.Context, tx *sql.Tx, sessionID uint64, users []uint64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM participate WHERE session_id = ?", sessionID); err != nil {
		return err
	}
	seen := make([]uint64, 0, len(users))
	for _, uid := range users {
		if slices.Contains(seen, uid) {
			continue
		}
		seen = append(seen, uid)
		if _, err := tx.ExecContext(ctx, "INSERT INTO participate (session_id, user_id) VALUES (?, ?)", sessionID, uid); err != nil {
			return err
		}
	}
	return nil
}
