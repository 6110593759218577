package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"backend-antisocial/internal/apperr"
	"backend-antisocial/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const minNickNameLen = 3

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service is the login/register collaborator. Login checks the nickname
// against the users table and the password against one shared password;
// it is a placeholder scheme, not a credential store.
type Service struct {
	secret       []byte
	db           db.Querier
	passwordHash []byte
}

type Claims struct {
	UserID    int64  `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// NewService hashes the shared password once. bcrypt rejects passwords
// longer than 72 bytes.
func NewService(secret, sharedPassword string, db db.Querier) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(sharedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash shared password: %w", err)
	}
	return &Service{
		secret:       []byte(secret),
		db:           db,
		passwordHash: hash,
	}, nil
}

func (s *Service) Login(ctx context.Context, nickName, password string) (Identity, error) {
	nickName = strings.TrimSpace(nickName)
	if nickName == "" {
		return Identity{}, apperr.InvalidInput("nickname required")
	}
	if password == "" {
		return Identity{}, apperr.InvalidInput("password required")
	}

	row := s.db.QueryRow(ctx, `
		SELECT id, nick_name, email
		FROM users WHERE nick_name = $1
	`, nickName)

	var id Identity
	if err := row.Scan(&id.UserID, &id.NickName, &id.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, apperr.ErrInvalidCredentials
		}
		return Identity{}, apperr.Unavailable("login", err)
	}

	if s.passwordHash == nil || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		return Identity{}, apperr.ErrInvalidCredentials
	}
	return id, nil
}

func (s *Service) Register(ctx context.Context, nickName, email string) (Identity, error) {
	nickName = strings.TrimSpace(nickName)
	email = strings.TrimSpace(email)
	if nickName == "" {
		return Identity{}, apperr.InvalidInput("nickname required")
	}
	if len([]rune(nickName)) < minNickNameLen {
		return Identity{}, apperr.InvalidInput("nickname must be at least 3 characters")
	}
	if email == "" {
		return Identity{}, apperr.InvalidInput("email required")
	}
	if !emailPattern.MatchString(email) {
		return Identity{}, apperr.InvalidInput("email is not valid")
	}

	id := Identity{NickName: nickName, Email: email}
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (nick_name, email)
		VALUES ($1,$2)
		RETURNING id
	`, id.NickName, id.Email)
	if err := row.Scan(&id.UserID); err != nil {
		if db.PgErrorCode(err) == db.UniqueViolation {
			return Identity{}, apperr.ErrDuplicateNickname
		}
		return Identity{}, apperr.Unavailable("register", err)
	}
	return id, nil
}

// IssueToken signs a bearer token naming the user and the persisted session.
// Tokens carry no expiry; a session ends when its persisted record is cleared.
func (s *Service) IssueToken(userID int64, sessionID string) (TokenResponse, error) {
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{AccessToken: signed, TokenType: "Bearer"}, nil
}

func (s *Service) ParseToken(token string) (*Claims, error) {
	parsed, err := parseClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

var parseClaimsFn = jwt.ParseWithClaims
