package users

import (
	"context"
	"errors"
	"net/http"

	"invoice-portal/internal/app/http/middleware"
	"invoice-portal/internal/domain/subscriptions"
	"invoice-portal/internal/domain/users"
	"invoice-portal/internal/infra/logging"
	"invoice-portal/internal/store"

	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

type SubscriptionReader interface {
	CurrentForUser(ctx context.Context, userID string) (*subscriptions.Subscription, error)
}

type Handler struct {
	users         UserReader
	subscriptions SubscriptionReader
}

func NewHandler(u UserReader, s SubscriptionReader) *Handler {
	return &Handler{users: u, subscriptions: s}
}

// GetCurrentUser handles GET /me. The role reported is the one in the
// verified token, which is what authorization decisions use.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	ctx := c.Request.Context()
	who := middleware.CurrentIdentity(c)
	if !who.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.users.GetByID(ctx, who.ID)
	if errors.Is(err, store.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("user_id", who.ID).Msg("load current user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	sub, err := h.subscriptions.CurrentForUser(ctx, who.ID)
	if err != nil && !errors.Is(err, store.ErrSubscriptionNotFound) {
		logging.FromContext(ctx).Error().Err(err).Str("user_id", who.ID).Msg("load current subscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User:         BuildUserDTO(user, string(who.Role)),
		Subscription: BuildSubscriptionDTO(sub),
	})
}
