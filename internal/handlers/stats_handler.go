package handlers

import (
	"net/http"
	"time"

	"github.com/Ahmad9bh/party2book-api/internal/models"
	"github.com/Ahmad9bh/party2book-api/internal/services"
	"github.com/gin-gonic/gin"
)

// GetHostStats returns the dashboard aggregates for the authenticated host.
// The reference instant is captured here, at the edge, so the aggregation
// itself stays deterministic.
func GetHostStats(ss *services.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}

		if !claims.IsHost() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only hosts can view host stats"))
			return
		}

		accessToken, _ := c.Cookie("access_token")

		stats, err := ss.GetHostStats(c.Request.Context(), userId, time.Now().UTC(), accessToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(stats, ""))
	}
}
