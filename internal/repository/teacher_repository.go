package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bem92/yoga-app/internal/model"
)

// TeacherRepo reads the teacher directory.  Teachers are seeded by migration.
type TeacherRepo struct {
	db *sql.DB
}

func NewTeacherRepo(db *sql.DB) *TeacherRepo {
	return &TeacherRepo{db: db}
}

// List returns all teachers ordered by id.
func (r *TeacherRepo) List(ctx context.Context) ([]*model.Teacher, error) {
	const q = "SELECT id, first_name, last_name, created_at, updated_at FROM teachers ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Teacher{}
	for rows.Next() {
		t := new(model.Teacher)
		if err := rows.Scan(&t.ID, &t.FirstName, &t.LastName, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns ErrTeacherNotFound if no row matches.
func (r *TeacherRepo) GetByID(ctx context.Context, id uint64) (*model.Teacher, error) {
	const q = "SELECT id, first_name, last_name, created_at, updated_at FROM teachers WHERE id = ?"
	var t model.Teacher
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.FirstName, &t.LastName, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	return &t, nil
}
