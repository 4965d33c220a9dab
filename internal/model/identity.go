package model

// Kind tags the entity type so identity comparison never crosses types.
type Kind string

const (
	KindUser    Kind = "user"
	KindTeacher Kind = "teacher"
	KindSession Kind = "session"
)

// Entity is anything persisted under a numeric id.  An id of zero means the
// entity has not been stored yet.
type Entity interface {
	EntityKind() Kind
	EntityID() uint64
	// IsNil reports a nil pointer held in a non-nil interface.
	IsNil() bool
}

// SameIdentity reports whether a and b denote the same stored entity.  Only
// kind and id are compared; two unsaved entities of one kind are equal.  A
// nil entity, typed or not, equals nothing.
func SameIdentity(a, b Entity) bool {
	if a == nil || b == nil || a.IsNil() || b.IsNil() {
		return false
	}
	return a.EntityKind() == b.EntityKind() && a.EntityID() == b.EntityID()
}
