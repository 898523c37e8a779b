package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/subscriber-service/internal/auth"
	"github.com/spec-kit/subscriber-service/internal/repository"
	"github.com/spec-kit/subscriber-service/pkg/util"
)

// M2MHandler exposes the service-to-service endpoints: the subscriber query
// and token minting.
type M2MHandler struct {
	prefs  repository.PreferenceRepository
	tokens *auth.TokenManager
}

// NewM2MHandler constructs handler.
func NewM2MHandler(prefs repository.PreferenceRepository, tokens *auth.TokenManager) *M2MHandler {
	return &M2MHandler{prefs: prefs, tokens: tokens}
}

// Subscribers handles GET /m2m/subs/:topic?type=category. Admin only.
// Returns every user whose sub set contains the topic, narrowed to those
// whose notif set contains the category when one is given.
func (h *M2MHandler) Subscribers(c *fiber.Ctx) error {
	if err := auth.RequireAdmin(auth.PrincipalFromContext(c)); err != nil {
		return err
	}

	users, err := h.prefs.FindSubscribers(c.UserContext(), c.Params("topic"), c.Query("type"))
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// IssueToken handles GET /m2m/get_token/:user?exp=seconds. Admin only;
// 404 for unknown users. The exp override is bounds-checked rather than
// accepted blindly: it must be a positive number of seconds no larger than
// the configured maximum.
func (h *M2MHandler) IssueToken(c *fiber.Ctx) error {
	if err := auth.RequireAdmin(auth.PrincipalFromContext(c)); err != nil {
		return err
	}

	user := c.Params("user")
	exists, err := h.prefs.Exists(c.UserContext(), user)
	if err != nil {
		return err
	}
	if !exists {
		return util.NewNotFound("user", map[string]any{"user": user})
	}

	ttl := time.Duration(0)
	if raw := c.Query("exp"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return util.NewValidationError("exp must be a positive number of seconds", nil)
		}
		ttl = time.Duration(seconds) * time.Second
		if limit := h.tokens.MaxTTL(); limit > 0 && ttl > limit {
			return util.NewValidationError("exp exceeds maximum token lifetime", map[string]any{
				"max_seconds": int(limit / time.Second),
			})
		}
	}

	token, err := h.tokens.Issue(user, ttl)
	if err != nil {
		return err
	}
	return c.SendString(token)
}
