package authapimodels

type JWTResponse struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"` // всегда bearer
	ExpiresIn int64  `json:"expires_in"` // время жизни токена, сек
}
