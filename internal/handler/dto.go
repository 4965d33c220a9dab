package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bem92/yoga-app/internal/model"
	"github.com/bem92/yoga-app/internal/repository"
)

// ----- DTOs -----

// dateOnly is the layout browsers send from a date input.
const dateOnly = "2006-01-02"

// Date is a session date.  It decodes either a bare calendar date (taken as
// midnight UTC) or an RFC 3339 timestamp, and always encodes RFC 3339.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("date %q: want %s or RFC 3339", s, dateOnly)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}

type SessionDto struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Date        *Date      `json:"date"`
	TeacherID   *uint64    `json:"teacher_id"`
	Description string     `json:"description"`
	Users       []uint64   `json:"users"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type TeacherDto struct {
	ID        uint64    `json:"id"`
	LastName  string    `json:"lastName"`
	FirstName string    `json:"firstName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserDto struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	LastName  string    `json:"lastName"`
	FirstName string    `json:"firstName"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupReq struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

type jwtResp struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Admin     bool   `json:"admin"`
}

type messageResp struct {
	Message string `json:"message"`
}

// ----- validation -----

func lengthBetween(field, v string, lo, hi int) error {
	n := utf8.RuneCountInString(v)
	if n < lo || n > hi {
		return fmt.Errorf("%s size must be between %d and %d", field, lo, hi)
	}
	return nil
}

func notBlank(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s must not be blank", field)
	}
	return nil
}

func (r loginReq) validate() error {
	return errors.Join(notBlank("email", r.Email), notBlank("password", r.Password))
}

func (r signupReq) validate() error {
	var errs []error
	if err := notBlank("email", r.Email); err != nil {
		errs = append(errs, err)
	} else if len(r.Email) > 50 {
		errs = append(errs, errors.New("email size must be between 0 and 50"))
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errs = append(errs, errors.New("email must be a well-formed email address"))
	}
	errs = append(errs,
		lengthBetween("firstName", strings.TrimSpace(r.FirstName), 3, 20),
		lengthBetween("lastName", strings.TrimSpace(r.LastName), 3, 20),
		lengthBetween("password", r.Password, 6, 40),
	)
	return errors.Join(errs...)
}

func (d SessionDto) validate() error {
	var errs []error
	if err := notBlank("name", d.Name); err != nil {
		errs = append(errs, err)
	} else if utf8.RuneCountInString(d.Name) > 50 {
		errs = append(errs, errors.New("name size must be between 0 and 50"))
	}
	if d.Date == nil {
		errs = append(errs, errors.New("date must not be null"))
	}
	if d.TeacherID == nil {
		errs = append(errs, errors.New("teacher_id must not be null"))
	}
	if err := notBlank("description", d.Description); err != nil {
		errs = append(errs, err)
	} else if utf8.RuneCountInString(d.Description) > 2500 {
		errs = append(errs, errors.New("description size must be between 0 and 2500"))
	}
	return errors.Join(errs...)
}

// ----- mapping -----

type teacherLookup interface {
	GetByID(ctx context.Context, id uint64) (*model.Teacher, error)
}

type userLookup interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// SessionMapper converts between SessionDto and model.Session.  References
// to unknown teachers or users are dropped rather than rejected.
type SessionMapper struct {
	Teachers teacherLookup
	Users    userLookup
}

func (m SessionMapper) ToEntity(ctx context.Context, d SessionDto) (*model.Session, error) {
	s := &model.Session{
		ID:          d.ID,
		Name:        strings.TrimSpace(d.Name),
		Description: d.Description,
		Users:       []uint64{},
	}
	if d.Date != nil {
		s.Date = d.Date.UTC()
	}
	if d.TeacherID != nil {
		t, err := m.Teachers.GetByID(ctx, *d.TeacherID)
		switch {
		case err == nil:
			id := t.ID
			s.TeacherID = &id
		case !errors.Is(err, repository.ErrTeacherNotFound):
			return nil, fmt.Errorf("resolve teacher %d: %w", *d.TeacherID, err)
		}
	}
	for _, uid := range d.Users {
		u, err := m.Users.GetByID(ctx, uid)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve user %d: %w", uid, err)
		}
		s.AddParticipant(u.ID)
	}
	return s, nil
}

func (m SessionMapper) ToDto(s *model.Session) SessionDto {
	created, updated := s.CreatedAt, s.UpdatedAt
	users := append([]uint64{}, s.Users...)
	return SessionDto{
		ID:          s.ID,
		Name:        s.Name,
		Date:        &Date{Time: s.Date},
		TeacherID:   s.TeacherID,
		Description: s.Description,
		Users:       users,
		CreatedAt:   &created,
		UpdatedAt:   &updated,
	}
}

func (m SessionMapper) ToDtos(ss []*model.Session) []SessionDto {
	out := make([]SessionDto, 0, len(ss))
	for _, s := range ss {
		out = append(out, m.ToDto(s))
	}
	return out
}

func toTeacherDto(t *model.Teacher) TeacherDto {
	return TeacherDto{ID: t.ID, LastName: t.LastName, FirstName: t.FirstName, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func toUserDto(u *model.User) UserDto {
	return UserDto{
		ID:        u.ID,
		Email:     u.Email,
		LastName:  u.LastName,
		FirstName: u.FirstName,
		Admin:     u.Admin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
