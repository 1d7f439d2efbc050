package middlewares

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-api/responses"
)

const (
	localUserID   = "userId"
	localUserType = "userType"

	tokenTTL = 720 * time.Hour
)

// IssueToken signs an HS256 token carrying the user id and account type.
func IssueToken(secret, userID, userType string) (string, error) {
	claims := jwt.MapClaims{
		"id":   userID,
		"type": userType,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Auth rejects requests without a valid bearer token and stores the
// caller's id and type in Locals.
func Auth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return responses.Error(c, fiber.StatusUnauthorized, "No auth token, access denied")
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
			return responses.Error(c, fiber.StatusUnauthorized, "Invalid authorization header format")
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(bearerToken[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return responses.Error(c, fiber.StatusUnauthorized, "Token verification failed, access denied")
		}

		userID, _ := claims["id"].(string)
		if _, err := primitive.ObjectIDFromHex(userID); err != nil {
			return responses.Error(c, fiber.StatusUnauthorized, "User ID not found in token")
		}
		userType, _ := claims["type"].(string)

		c.Locals(localUserID, userID)
		c.Locals(localUserType, userType)
		return c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if t, _ := c.Locals(localUserType).(string); t != role {
			return responses.Error(c, fiber.StatusForbidden, "This action requires a "+role+" account")
		}
		return c.Next()
	}
}

// UserID returns the authenticated caller. Auth has already validated it.
func UserID(c *fiber.Ctx) primitive.ObjectID {
	id, _ := c.Locals(localUserID).(string)
	oid, _ := primitive.ObjectIDFromHex(id)
	return oid
}

func UserType(c *fiber.Ctx) string {
	t, _ := c.Locals(localUserType).(string)
	return t
}
