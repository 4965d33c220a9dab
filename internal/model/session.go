package model

import (
	"slices"
	"time"
)

// Session is a scheduled yoga class.  Users holds the ids of enrolled users
// (the `participate` join table) and never contains duplicates.
type Session struct {
	ID          uint64    // sessions.id
	Name        string    // sessions.name
	Date        time.Time // sessions.session_date
	Description string    // sessions.description
	TeacherID   *uint64   // sessions.teacher_id (nullable)
	Users       []uint64  // participate.user_id
	CreatedAt   time.Time // sessions.created_at
	UpdatedAt   time.Time // sessions.updated_at
}

func (s *Session) EntityKind() Kind { return KindSession }
func (s *Session) EntityID() uint64 { return s.ID }
func (s *Session) IsNil() bool { return s == nil }

// HasParticipant reports whether userID is on the roster.
func (s *Session) HasParticipant(userID uint64) bool {
	return slices.Contains(s.Users, userID)
}

// AddParticipant appends userID unless it is already enrolled.  It reports
// whether the roster changed.
func (s *Session) AddParticipant(userID uint64) bool {
	if s.HasParticipant(userID) {
		return false
	}
	s.Users = append(s.Users, userID)
	return true
}

// RemoveParticipant drops userID from the roster and reports whether it was
// present.
func (s *Session) RemoveParticipant(userID uint64) bool {
	i := slices.Index(s.Users, userID)
	if i < 0 {
		return false
	}
	s.Users = slices.Delete(s.Users, i, i+1)
	return true
}
