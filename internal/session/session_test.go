package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sample() Session {
	return Session{UserID: "u1", UserName: "Ann", Email: "ann@example.com", Role: RoleUser, Token: "tok"}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helpdesk", "session.json")
	st := NewFileStore(path)

	if _, ok := st.Session(); ok {
		t.Fatal("expected absent session before save")
	}

	var seen []bool
	unsubscribe := st.OnChange(func(_ Session, ok bool) { seen = append(seen, ok) })

	if err := st.Save(sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok := st.Session()
	if !ok || got != sample() {
		t.Fatalf("Session()=%+v,%v", got, ok)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode=%v, want 0600", info.Mode().Perm())
	}
	if RoleOf(st) != RoleUser {
		t.Fatalf("RoleOf=%q", RoleOf(st))
	}

	if err := st.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := st.Session(); ok {
		t.Fatal("expected absent session after clear")
	}
	unsubscribe()
	_ = st.Save(sample())

	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Fatalf("listener saw %v, want [true false]", seen)
	}
}

func TestFileStoreCorruptReadsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok := NewFileStore(path).Session(); ok {
		t.Fatal("corrupt file must read as absent")
	}
	if RoleOf(NewFileStore(path)) != "" {
		t.Fatal("role of absent session must be empty")
	}
}

func TestDecodeKeys(t *testing.T) {
	s, ok := Decode([]byte(`{"userId":"42","userName":"Bob","email":"b@x.io","role":"admin","token":"abc"}`))
	if !ok {
		t.Fatal("decode failed")
	}
	if s.UserID != "42" || s.UserName != "Bob" || s.Role != RoleAdmin || s.Token != "abc" {
		t.Fatalf("decoded %+v", s)
	}
	if _, ok := Decode(nil); ok {
		t.Fatal("empty blob must read as absent")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		mod   func(*Session)
		valid bool
	}{
		{"ok", func(*Session) {}, true},
		{"superadmin", func(s *Session) { s.Role = RoleSuperAdmin }, true},
		{"unknown role", func(s *Session) { s.Role = "root" }, false},
		{"no token", func(s *Session) { s.Token = "" }, false},
		{"no user id", func(s *Session) { s.UserID = "" }, false},
		{"bad email", func(s *Session) { s.Email = "nope" }, false},
	}
	for _, tt := range cases {
		s := sample()
		tt.mod(&s)
		if err := s.Validate(); (err == nil) != tt.valid {
			t.Fatalf("%s: Validate()=%v, want valid=%v", tt.name, err, tt.valid)
		}
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	got, ok := TokenExpiry(token)
	if !ok || !got.Equal(exp) {
		t.Fatalf("TokenExpiry=%v,%v want %v", got, ok, exp)
	}
	if !Expired(token, time.Now()) {
		t.Fatal("token should be expired")
	}
	if Expired("opaque-token", time.Now()) {
		t.Fatal("opaque tokens are never treated as expired")
	}
}
