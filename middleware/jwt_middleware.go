package middleware

import (
	apimodels "interview-coach-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthorizationRequired токен ищется в заголовке Authorization (Bearer) и в query token для WebSocket
func AuthorizationRequired(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(secret),
		},
		TokenLookup: "header:Authorization,query:token",
		// при своём TokenLookup схема по умолчанию не подставляется
		AuthScheme: "Bearer",
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("требуется авторизация"))
		},
	})
}

func GetUserID(ctx *fiber.Ctx) string {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}
