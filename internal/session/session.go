// Package session holds the locally persisted identity used to authenticate
// API requests. Writing happens only on import/clear; everything else reads.
package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// StorageKey is the fixed key the session blob is stored under.
const StorageKey = "userDetails"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Staff reports whether the role may manage other users' tickets.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type Session struct {
	UserID   string `json:"userId" validate:"required"`
	UserName string `json:"userName"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     Role   `json:"role" validate:"required,oneof=user admin superadmin"`
	Token    string `json:"token" validate:"required"`
}

var validate = validator.New()

// Validate checks a session before it is persisted.
func (s Session) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// Provider is the read side every page depends on.
type Provider interface {
	// Session returns the stored session; ok is false when it is missing or unreadable.
	Session() (s Session, ok bool)
	// OnChange registers fn for every save/clear and returns an unsubscribe func.
	OnChange(fn func(s Session, ok bool)) (unsubscribe func())
}

// Store is a Provider that can also be written.
type Store interface {
	Provider
	Save(s Session) error
	Clear() error
}

// RoleOf projects the role out of p; empty when there is no session.
func RoleOf(p Provider) Role {
	s, ok := p.Session()
	if !ok {
		return ""
	}
	return s.Role
}

// Decode parses a stored blob. Any failure reads as absent.
func Decode(data []byte) (Session, bool) {
	if len(data) == 0 {
		return Session{}, false
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, false
	}
	return s, true
}

func Encode(s Session) ([]byte, error) {
	return json.Marshal(s)
}

// Listeners is embedded by stores to implement OnChange.
type Listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(Session, bool)
}

func (l *Listeners) OnChange(fn func(Session, bool)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(Session, bool))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

// Notify calls every registered listener outside the lock.
func (l *Listeners) Notify(s Session, ok bool) {
	l.mu.Lock()
	fns := make([]func(Session, bool), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(s, ok)
	}
}

// Static is a fixed, in-memory Provider.
type Static struct {
	Listeners
	mu sync.RWMutex
	s  Session
	ok bool
}

func NewStatic(s Session) *Static {
	return &Static{s: s, ok: true}
}

func (st *Static) Session() (Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s, st.ok
}

func (st *Static) Save(s Session) error {
	st.mu.Lock()
	st.s, st.ok = s, true
	st.mu.Unlock()
	st.Notify(s, true)
	return nil
}

func (st *Static) Clear() error {
	st.mu.Lock()
	st.s, st.ok = Session{}, false
	st.mu.Unlock()
	st.Notify(Session{}, false)
	return nil
}
