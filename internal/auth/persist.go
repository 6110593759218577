package auth

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"backend-antisocial/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// RedisPersister stores the identity as JSON under session:<id>.
type RedisPersister struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisPersister(client *redis.Client, sessionID string, ttl time.Duration) *RedisPersister {
	return &RedisPersister{client: client, key: sessionKey(sessionID), ttl: ttl}
}

// RedisSessions is the PersisterFactory for server sessions backed by Redis.
func RedisSessions(client *redis.Client, ttl time.Duration) PersisterFactory {
	return func(sessionID string) Persister {
		return NewRedisPersister(client, sessionID, ttl)
	}
}

func (p *RedisPersister) Load(ctx context.Context) (Identity, bool, error) {
	raw, err := p.client.Get(ctx, p.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, err
	}
	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return Identity{}, false, err
	}
	return id, true, nil
}

func (p *RedisPersister) Save(ctx context.Context, id Identity) error {
	payload, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, p.key, payload, p.ttl).Err()
}

func (p *RedisPersister) Clear(ctx context.Context) error {
	return p.client.Del(ctx, p.key).Err()
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// PGPersister keeps server sessions in the user_sessions table when Redis
// is not configured.
type PGPersister struct {
	db        db.Querier
	sessionID string
}

func NewPGPersister(db db.Querier, sessionID string) *PGPersister {
	return &PGPersister{db: db, sessionID: sessionID}
}

func PGSessions(db db.Querier) PersisterFactory {
	return func(sessionID string) Persister {
		return NewPGPersister(db, sessionID)
	}
}

func (p *PGPersister) Load(ctx context.Context) (Identity, bool, error) {
	row := p.db.QueryRow(ctx, `
		SELECT user_id, nick_name, email
		FROM user_sessions WHERE id = $1
	`, p.sessionID)
	var id Identity
	if err := row.Scan(&id.UserID, &id.NickName, &id.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, false, nil
		}
		return Identity{}, false, err
	}
	return id, true, nil
}

func (p *PGPersister) Save(ctx context.Context, id Identity) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO user_sessions (id, user_id, nick_name, email)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET user_id=EXCLUDED.user_id, nick_name=EXCLUDED.nick_name, email=EXCLUDED.email
	`, p.sessionID, id.UserID, id.NickName, id.Email)
	return err
}

func (p *PGPersister) Clear(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `DELETE FROM user_sessions WHERE id = $1`, p.sessionID)
	return err
}

// FilePersister keeps the terminal client's session in a YAML file.
type FilePersister struct {
	path string
}

type sessionFile struct {
	Identity Identity  `yaml:"identity"`
	SavedAt  time.Time `yaml:"saved_at"`
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// DefaultSessionPath is $HOME/.antisocial/session.yaml.
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".antisocial", "session.yaml"), nil
}

func (p *FilePersister) Load(_ context.Context) (Identity, bool, error) {
	raw, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, err
	}
	var f sessionFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Identity{}, false, err
	}
	if f.Identity.UserID == 0 {
		return Identity{}, false, nil
	}
	return f.Identity, true, nil
}

func (p *FilePersister) Save(_ context.Context, id Identity) error {
	raw, err := yaml.Marshal(sessionFile{Identity: id, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p.path, raw, 0o600)
}

func (p *FilePersister) Clear(_ context.Context) error {
	err := os.Remove(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
