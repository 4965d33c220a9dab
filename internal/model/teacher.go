package model

import "time"

// Teacher is a row of the `teachers` table.  Teachers are reference data and
// are never created through the API.
type Teacher struct {
	ID        uint64    // teachers.id
	FirstName string    // teachers.first_name
	LastName  string    // teachers.last_name
	CreatedAt time.Time // teachers.created_at
	UpdatedAt time.Time // teachers.updated_at
}

func (t *Teacher) EntityKind() Kind { return KindTeacher }
func (t *Teacher) EntityID() uint64 { return t.ID }
func (t *Teacher) IsNil() bool { return t == nil }
