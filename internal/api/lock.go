package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/daybloom/internal/security"
)

const (
	sessionCookieName   = "daybloom_session"
	sessionTokenTTL     = 12 * time.Hour
	sessionSubject      = "daybloom"
	unlockAttemptLimit  = 5
	unlockAttemptWindow = 15 * time.Minute
)

var errInvalidSession = errors.New("invalid session")

type sessionClaims struct {
	jwt.RegisteredClaims
}

type unlockInput struct {
	PIN string `json:"pin" validate:"required,numeric,min=4,max=12"`
}

func (handler *Handler) lockEnabled() bool {
	return handler.pinHash != ""
}

func (handler *Handler) Unlock(c *fiber.Ctx) error {
	if !handler.lockEnabled() {
		return c.JSON(fiber.Map{"ok": true, "locked": false})
	}

	now := handler.now()
	key := requestLimiterKey(c)
	if handler.unlockLimiter.tooManyRecent(key, now, unlockAttemptLimit, unlockAttemptWindow) {
		wait := handler.unlockLimiter.retryAfter(key, now, unlockAttemptWindow)
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(wait.Round(time.Second).Seconds())))
		return apiError(c, fiber.StatusTooManyRequests, "too many unlock attempts")
	}

	var input unlockInput
	if err := decodeBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if !security.CheckPIN(handler.pinHash, input.PIN) {
		handler.unlockLimiter.addFailure(key, now, unlockAttemptWindow)
		return apiError(c, fiber.StatusUnauthorized, "invalid pin")
	}
	handler.unlockLimiter.reset(key)

	expiresAt := now.Add(sessionTokenTTL)
	token, err := handler.buildSessionToken(now, expiresAt)
	if err != nil {
		return handler.serviceError(c, fmt.Errorf("sign session: %w", err))
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Strict",
		Expires:  expiresAt,
	})
	return c.JSON(fiber.Map{
		"ok":         true,
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}

func (handler *Handler) Lock(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Strict",
		Expires:  handler.now().Add(-time.Hour),
	})
	return sendNoContent(c)
}

// LockRequired rejects requests without a valid session while a PIN is
// configured.
func (handler *Handler) LockRequired(c *fiber.Ctx) error {
	if !handler.lockEnabled() {
		return c.Next()
	}
	if err := handler.verifySessionToken(sessionTokenFromRequest(c)); err != nil {
		return apiError(c, fiber.StatusUnauthorized, "locked")
	}
	return c.Next()
}

func sessionTokenFromRequest(c *fiber.Ctx) string {
	authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(authorization) > len("Bearer ") && strings.EqualFold(authorization[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(authorization[len("Bearer "):])
	}
	return strings.TrimSpace(c.Cookies(sessionCookieName))
}

func (handler *Handler) buildSessionToken(now time.Time, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}

func (handler *Handler) verifySessionToken(raw string) error {
	if raw == "" {
		return errInvalidSession
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithTimeFunc(handler.now), jwt.WithExpirationRequired(), jwt.WithSubject(sessionSubject))
	if err != nil || !token.Valid {
		return errInvalidSession
	}
	return nil
}
