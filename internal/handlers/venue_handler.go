package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Ahmad9bh/party2book-api/internal/models"
	"github.com/Ahmad9bh/party2book-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func CreateVenueHandler(v *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}

		var venue models.Venue
		if err := c.ShouldBindJSON(&venue); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		if !claims.IsHost() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only users with host role can create venues"))
			return
		}
		accessToken, _ := c.Cookie("access_token")

		createdVenue, err := v.CreateVenue(c.Request.Context(), &venue, userId, accessToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(createdVenue, "Venue created successfully"))
	}
}

func ListVenues(v *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limitInt, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limitInt <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
			return
		}
		offsetInt, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offsetInt < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid offset parameter"))
			return
		}
		venues, total, err := v.ListVenues(c.Request.Context(), offsetInt, limitInt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		page := (offsetInt / limitInt) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(venues, page, limitInt, total))
	}
}

func GetVenueByID(v *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Normalize incoming id: trim spaces and surrounding quotes which may
		// occur when clients pass values as JSON strings or templates.
		venueID := strings.TrimSpace(c.Param("id"))
		venueID = strings.Trim(venueID, "\"'")

		if venueID == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("venue ID is required"))
			return
		}

		parsedId, err := uuid.Parse(venueID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid venue ID format"))
			return
		}

		venue, err := v.GetVenueByID(c.Request.Context(), parsedId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		if venue == nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("venue not found"))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(venue, ""))
	}
}

func DeleteVenue(v *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}

		venueID := strings.TrimSpace(c.Param("id"))
		venueID = strings.Trim(venueID, "\"'")
		if venueID == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("venue ID is required"))
			return
		}

		parsedId, err := uuid.Parse(venueID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid venue ID format"))
			return
		}

		// Get the venue first to verify ownership
		venue, err := v.GetVenueByID(c.Request.Context(), parsedId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		if venue == nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("venue not found"))
			return
		}

		if venue.HostId != userId && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("forbidden: you can only delete your own venues"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		if err := v.DeleteVenue(c.Request.Context(), userId, parsedId, accessToken); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "venue deleted successfully"))
	}
}

func ListVenuesByHost(v *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}

		limitInt, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limitInt <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
			return
		}
		offsetInt, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offsetInt < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid offset parameter"))
			return
		}

		hostID := c.Param("host_id")
		if hostID == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("host ID is required"))
			return
		}

		parsedId, err := uuid.Parse(hostID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid host ID format"))
			return
		}

		if parsedId != userId && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("unauthorized access"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		venues, total, err := v.ListVenuesByHost(c.Request.Context(), parsedId, offsetInt, limitInt, accessToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("failed to get host venues"))
			return
		}

		page := (offsetInt / limitInt) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(venues, page, limitInt, total))
	}
}
