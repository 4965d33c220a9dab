package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bem92/yoga-app/internal/model"
	"github.com/bem92/yoga-app/internal/repository"
)

type TeacherStore interface {
	List(ctx context.Context) ([]*model.Teacher, error)
	GetByID(ctx context.Context, id uint64) (*model.Teacher, error)
}

// TeacherHandler serves the read-only teacher directory.
type TeacherHandler struct {
	Teachers TeacherStore
}

func NewTeacherHandler(teachers TeacherStore) *TeacherHandler {
	return &TeacherHandler{Teachers: teachers}
}

func (h *TeacherHandler) FindAll(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	teachers, err := h.Teachers.List(ctx)
	if err != nil {
		return internalError(c, err, "list teachers failed")
	}
	out := make([]TeacherDto, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, toTeacherDto(t))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TeacherHandler) FindByID(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid teacher id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.Teachers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTeacherNotFound) {
			return notFound(c, "teacher")
		}
		return internalError(c, err, "get teacher failed")
	}
	return c.JSON(http.StatusOK, toTeacherDto(t))
}
