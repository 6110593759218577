package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"backend-antisocial/internal/apperr"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
)

type fakeAuthenticator struct {
	users map[string]Identity
}

func (f fakeAuthenticator) Login(_ context.Context, nickName, password string) (Identity, error) {
	id, ok := f.users[nickName]
	if !ok || password != testPassword {
		return Identity{}, apperr.ErrInvalidCredentials
	}
	return id, nil
}

func (f fakeAuthenticator) Register(_ context.Context, nickName, email string) (Identity, error) {
	if _, ok := f.users[nickName]; ok {
		return Identity{}, apperr.ErrDuplicateNickname
	}
	id := Identity{UserID: int64(len(f.users) + 1), NickName: nickName, Email: email}
	f.users[nickName] = id
	return id, nil
}

type failingPersister struct{}

func (failingPersister) Load(context.Context) (Identity, bool, error) {
	return Identity{}, false, errAuth
}
func (failingPersister) Save(context.Context, Identity) error { return errAuth }
func (failingPersister) Clear(context.Context) error          { return errAuth }

func newFake() fakeAuthenticator {
	return fakeAuthenticator{users: map[string]Identity{
		"luna": {UserID: 1, NickName: "luna", Email: "luna@example.com"},
	}}
}

func TestSessionLoginLogout(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(newFake(), nil)
	if store.State() != Anonymous {
		t.Fatalf("expected initial anonymous state")
	}

	id, err := store.Login(ctx, "luna", testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	current, ok := store.Current()
	if !ok || current != id || store.State() != Authenticated {
		t.Fatalf("expected authenticated as luna")
	}

	if err := store.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.State() != Anonymous {
		t.Fatalf("expected anonymous after logout")
	}
}

func TestSessionLoginWrongPasswordStaysAnonymous(t *testing.T) {
	store := NewSessionStore(newFake(), nil)
	_, err := store.Login(context.Background(), "luna", "wrong")
	if !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if store.State() != Anonymous {
		t.Fatalf("expected anonymous state")
	}
}

func TestSessionLoginAgainstService(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, nick_name, email`).
		WithArgs("luna").
		WillReturnRows(pgxmock.NewRows([]string{"id", "nick_name", "email"}).AddRow(int64(1), "luna", "luna@example.com"))

	store := NewSessionStore(newService(t, "test-secret", mock), nil)
	if _, err := store.Login(context.Background(), "luna", "wrong"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if store.State() != Anonymous {
		t.Fatalf("expected anonymous state")
	}
}

func TestSessionRegister(t *testing.T) {
	store := NewSessionStore(newFake(), nil)
	id, err := store.Register(context.Background(), "nova", "nova@example.com")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if current, ok := store.Current(); !ok || current.UserID != id.UserID {
		t.Fatalf("expected authenticated after register")
	}

	other := NewSessionStore(newFake(), nil)
	if _, err := other.Register(context.Background(), "luna", "x@y.io"); !errors.Is(err, apperr.ErrDuplicateNickname) {
		t.Fatalf("expected duplicate nickname, got %v", err)
	}
	if other.State() != Anonymous {
		t.Fatalf("expected anonymous after failed register")
	}
}

func TestSessionWithoutAuthenticator(t *testing.T) {
	store := NewSessionStore(nil, nil)
	if _, err := store.Login(context.Background(), "luna", testPassword); !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if _, err := store.Register(context.Background(), "luna", "l@x.io"); !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestSessionRehydratesFromFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")

	first := NewSessionStore(newFake(), NewFilePersister(path))
	if err := first.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if first.State() != Anonymous {
		t.Fatalf("expected anonymous without a session file")
	}
	if _, err := first.Login(ctx, "luna", testPassword); err != nil {
		t.Fatalf("login: %v", err)
	}

	second := NewSessionStore(newFake(), NewFilePersister(path))
	if err := second.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	id, ok := second.Current()
	if !ok || id.NickName != "luna" {
		t.Fatalf("expected rehydrated luna, got %+v", id)
	}

	if err := second.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	third := NewSessionStore(newFake(), NewFilePersister(path))
	if err := third.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if third.State() != Anonymous {
		t.Fatalf("expected anonymous after logout cleared the file")
	}
}

func TestSessionRehydratesFromRedis(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	sessions := RedisSessions(client, 0)
	first := NewSessionStore(newFake(), sessions("s-1"))
	if _, err := first.Login(ctx, "luna", testPassword); err != nil {
		t.Fatalf("login: %v", err)
	}

	second := NewSessionStore(newFake(), sessions("s-1"))
	if err := second.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if id, ok := second.Current(); !ok || id.UserID != 1 {
		t.Fatalf("expected rehydrated identity")
	}

	unknown := NewSessionStore(newFake(), sessions("s-2"))
	if err := unknown.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if unknown.State() != Anonymous {
		t.Fatalf("expected anonymous for unknown session")
	}
}

func TestSessionPersisterFailures(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(newFake(), failingPersister{})

	if err := store.Init(ctx); !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("expected unavailable init, got %v", err)
	}
	if store.State() != Anonymous {
		t.Fatalf("expected anonymous after failed init")
	}
	if !errors.Is(store.RestoreErr(), apperr.ErrUnavailable) {
		t.Fatalf("expected restore error to be kept")
	}
	if _, err := store.Login(ctx, "luna", testPassword); !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("expected unavailable login, got %v", err)
	}
	if store.State() != Anonymous {
		t.Fatalf("expected anonymous when session could not be saved")
	}
	if err := store.Logout(ctx); !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("expected unavailable logout, got %v", err)
	}
	if store.RestoreErr() != nil {
		t.Fatalf("logout should reset the restore error")
	}
}

func TestStateString(t *testing.T) {
	if Anonymous.String() != "anonymous" || Authenticated.String() != "authenticated" {
		t.Fatalf("unexpected state names")
	}
}
