// Package service holds business operations that span more than one
// repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bem92/yoga-app/internal/model"
	"github.com/bem92/yoga-app/internal/queue"
	"github.com/bem92/yoga-app/internal/repository"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

type SessionStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Session, error)
	Save(ctx context.Context, s *model.Session) error
}

type UserStore interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

type EventPublisher interface {
	PublishParticipation(ctx context.Context, ev queue.ParticipationEvent) error
}

// ParticipationService enrolls users in sessions and withdraws them.
//
// Roster updates are read-modify-write without locking: two concurrent
// requests on the same session can both pass the duplicate check and the
// last save wins.
type ParticipationService struct {
	sessions SessionStore
	users    UserStore
	events   EventPublisher
	now      func() time.Time
}

func NewParticipationService(sessions SessionStore, users UserStore, events EventPublisher) *ParticipationService {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &ParticipationService{sessions: sessions, users: users, events: events, now: time.Now}
}

// Participate adds userID to the roster of sessionID.  Both records are
// loaded before any check.  It fails with ErrNotFound when either is
// missing and ErrBadRequest when the user is already enrolled; nothing is
// saved on failure.
func (s *ParticipationService) Participate(ctx context.Context, sessionID, userID uint64) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return fmt.Errorf("load session %d: %w", sessionID, err)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("load user %d: %w", userID, err)
	}

	if session == nil {
		return fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}
	if user == nil {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if !session.AddParticipant(user.ID) {
		return fmt.Errorf("%w: user %d already participates in session %d", ErrBadRequest, userID, sessionID)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session %d: %w", sessionID, err)
	}
	s.publish(ctx, session, userID, queue.ActionParticipate)
	return nil
}

// Withdraw removes userID from the roster of sessionID.  The user record is
// not consulted: only roster membership matters.
func (s *ParticipationService) Withdraw(ctx context.Context, sessionID, userID uint64) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
		}
		return fmt.Errorf("load session %d: %w", sessionID, err)
	}
	if !session.RemoveParticipant(userID) {
		return fmt.Errorf("%w: user %d does not participate in session %d", ErrBadRequest, userID, sessionID)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session %d: %w", sessionID, err)
	}
	s.publish(ctx, session, userID, queue.ActionWithdraw)
	return nil
}

// publish is best effort: the roster change is already committed.
func (s *ParticipationService) publish(ctx context.Context, session *model.Session, userID uint64, action string) {
	ev := queue.ParticipationEvent{
		SessionID:   session.ID,
		SessionName: session.Name,
		UserID:      userID,
		Action:      action,
		Roster:      len(session.Users),
		OccurredAt:  s.now().UTC(),
	}
	if err := s.events.PublishParticipation(ctx, ev); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Uint64("session_id", session.ID).
			Uint64("user_id", userID).
			Str("action", action).
			Msg("publish participation event failed")
	}
}
