package auth

// Identity is the authenticated user attached to a session.
type Identity struct {
	UserID   int64  `json:"id" yaml:"id"`
	NickName string `json:"nick_name" yaml:"nick_name"`
	Email    string `json:"email" yaml:"email"`
}

type RegisterRequest struct {
	NickName string `json:"nick_name"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	NickName string `json:"nick_name"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
