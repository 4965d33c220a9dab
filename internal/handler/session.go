package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bem92/yoga-app/internal/model"
	"github.com/bem92/yoga-app/internal/repository"
	"github.com/bem92/yoga-app/internal/service"
)

type SessionStore interface {
	List(ctx context.Context) ([]*model.Session, error)
	GetByID(ctx context.Context, id uint64) (*model.Session, error)
	Create(ctx context.Context, s *model.Session) error
	Save(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id uint64) error
}

type Participation interface {
	Participate(ctx context.Context, sessionID, userID uint64) error
	Withdraw(ctx context.Context, sessionID, userID uint64) error
}

// SessionHandler serves /api/session.  Any authenticated user may create,
// update or delete sessions.
type SessionHandler struct {
	Sessions      SessionStore
	Participation Participation
	Mapper        SessionMapper
}

func NewSessionHandler(sessions SessionStore, participation Participation, mapper SessionMapper) *SessionHandler {
	if sessions == nil || participation == nil {
		panic("nil dependency passed to NewSessionHandler")
	}
	return &SessionHandler{Sessions: sessions, Participation: participation, Mapper: mapper}
}

func (h *SessionHandler) FindAll(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	sessions, err := h.Sessions.List(ctx)
	if err != nil {
		return internalError(c, err, "list sessions failed")
	}
	return c.JSON(http.StatusOK, h.Mapper.ToDtos(sessions))
}

func (h *SessionHandler) FindByID(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid session id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return notFound(c, "session")
		}
		return internalError(c, err, "get session failed")
	}
	return c.JSON(http.StatusOK, h.Mapper.ToDto(s))
}

func (h *SessionHandler) Create(c echo.Context) error {
	var dto SessionDto
	if err := c.Bind(&dto); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := dto.validate(); err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.Mapper.ToEntity(ctx, dto)
	if err != nil {
		return internalError(c, err, "map session failed")
	}
	s.ID = 0
	if err := h.Sessions.Create(ctx, s); err != nil {
		return internalError(c, err, "create session failed")
	}
	return c.JSON(http.StatusOK, h.Mapper.ToDto(s))
}

// Update replaces the stored session, roster included, with the body.
func (h *SessionHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid session id")
	}
	var dto SessionDto
	if err := c.Bind(&dto); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := dto.validate(); err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.Mapper.ToEntity(ctx, dto)
	if err != nil {
		return internalError(c, err, "map session failed")
	}
	s.ID = id
	if err := h.Sessions.Save(ctx, s); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return notFound(c, "session")
		}
		return internalError(c, err, "update session failed")
	}
	return c.JSON(http.StatusOK, h.Mapper.ToDto(s))
}

func (h *SessionHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid session id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return notFound(c, "session")
		}
		return internalError(c, err, "delete session failed")
	}
	return c.NoContent(http.StatusOK)
}

// Participate enrolls :userId in session :id.
func (h *SessionHandler) Participate(c echo.Context) error {
	return h.roster(c, h.Participation.Participate)
}

// NoLongerParticipate withdraws :userId from session :id.
func (h *SessionHandler) NoLongerParticipate(c echo.Context) error {
	return h.roster(c, h.Participation.Withdraw)
}

func (h *SessionHandler) roster(c echo.Context, op func(ctx context.Context, sessionID, userID uint64) error) error {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid session id")
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := op(ctx, sessionID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return notFound(c, "session or user")
		case errors.Is(err, service.ErrBadRequest):
			return badRequest(c, err.Error())
		}
		return internalError(c, err, "update roster failed")
	}
	return c.NoContent(http.StatusOK)
}
