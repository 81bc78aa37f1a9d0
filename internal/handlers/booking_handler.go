package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Ahmad9bh/party2book-api/internal/helpers"
	"github.com/Ahmad9bh/party2book-api/internal/metrics"
	"github.com/Ahmad9bh/party2book-api/internal/models"
	"github.com/Ahmad9bh/party2book-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUser pulls the authenticated claims set by AuthMiddleware.
func currentUser(c *gin.Context) (*helpers.EnhancedClaims, uuid.UUID, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return nil, uuid.Nil, false
	}

	claims, ok := userClaims.(*helpers.EnhancedClaims)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid user claims"))
		return nil, uuid.Nil, false
	}

	userId, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID in token"))
		return nil, uuid.Nil, false
	}
	return claims, userId, true
}

func bookingIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid booking ID format"))
		return uuid.Nil, false
	}
	return id, true
}

func CreateBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}

		var input services.CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		created, err := bs.CreateBooking(c.Request.Context(), &input, userId, accessToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Booking created successfully"))
	}
}

func GetBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}
		bookingId, ok := bookingIDParam(c)
		if !ok {
			return
		}

		accessToken, _ := c.Cookie("access_token")
		booking, err := bs.GetBooking(c.Request.Context(), bookingId, accessToken)
		if err != nil {
			if errors.Is(err, models.ErrBookingNotFound) {
				c.JSON(http.StatusNotFound, models.ErrorResponse("booking not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		if booking.UserId != userId && !claims.IsHost() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, ""))
	}
}

func ListMyBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
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

		accessToken, _ := c.Cookie("access_token")
		bookings, total, err := bs.ListUserBookings(c.Request.Context(), userId, offsetInt, limitInt, accessToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		page := (offsetInt / limitInt) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(bookings, page, limitInt, total))
	}
}

// ListVenueBookings returns all bookings for one venue, for the host view.
func ListVenueBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsHost() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only venue owners can view venue bookings"))
			return
		}

		venueId, err := uuid.Parse(c.Param("venue_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid venue ID format"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		bookings, err := bs.ListVenueBookings(c.Request.Context(), venueId, userId, claims.IsAdmin(), accessToken)
		if err != nil {
			respondChangeError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}

func GetBookingHistory(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, _, ok := currentUser(c)
		if !ok {
			return
		}
		bookingId, ok := bookingIDParam(c)
		if !ok {
			return
		}

		limitInt, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		history, err := bs.GetBookingHistory(c.Request.Context(), bookingId, limitInt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(history, ""))
	}
}

// PrepareChangeRequest is the GET guard for the change form: it runs the
// precondition checks and returns the booking with the venue rate so the
// client can preview pricing.
func PrepareChangeRequest(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		bookingId, ok := bookingIDParam(c)
		if !ok {
			return
		}

		accessToken, _ := c.Cookie("access_token")
		booking, venue, err := bs.PrepareChangeRequest(c.Request.Context(), bookingId, accessToken)
		if err != nil {
			respondChangeError(c, err)
			return
		}

		if booking.UserId != userId {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only the booking owner can request changes"))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"booking":        booking,
			"price_per_hour": venue.PricePerHour,
			"currency":       venue.Currency,
		}, ""))
	}
}

func SubmitChangeRequest(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		bookingId, ok := bookingIDParam(c)
		if !ok {
			return
		}

		var input services.ChangeRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		outcome, err := bs.SubmitChangeRequest(c.Request.Context(), bookingId, &input, userId, accessToken)
		if err != nil {
			metrics.IncChangeRequest(classifyChangeError(err))
			respondChangeError(c, err)
			return
		}

		if outcome.PaymentDue != nil {
			metrics.IncChangeRequest(metrics.OutcomePaymentPending)
			c.JSON(http.StatusOK, models.SuccessResponse(outcome, "Change request submitted, payment required"))
			return
		}

		metrics.IncChangeRequest(metrics.OutcomeAccepted)
		c.JSON(http.StatusOK, models.SuccessResponse(outcome, "Change request submitted for owner approval"))
	}
}

func ApproveChangeRequest(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsHost() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only venue owners can approve change requests"))
			return
		}
		bookingId, ok := bookingIDParam(c)
		if !ok {
			return
		}

		accessToken, _ := c.Cookie("access_token")
		updated, err := bs.ApproveChangeRequest(c.Request.Context(), bookingId, userId, accessToken)
		if err != nil {
			respondChangeError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Change request approved"))
	}
}

func RejectChangeRequest(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsHost() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only venue owners can reject change requests"))
			return
		}
		bookingId, ok := bookingIDParam(c)
		if !ok {
			return
		}

		var body struct {
			Reason string `json:"reason"`
		}
		_ = c.ShouldBindJSON(&body)

		accessToken, _ := c.Cookie("access_token")
		updated, err := bs.RejectChangeRequest(c.Request.Context(), bookingId, userId, body.Reason, accessToken)
		if err != nil {
			respondChangeError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Change request rejected"))
	}
}

func ConfirmChangePayment(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		bookingId, ok := bookingIDParam(c)
		if !ok {
			return
		}

		accessToken, _ := c.Cookie("access_token")
		updated, err := bs.ConfirmChangePayment(c.Request.Context(), bookingId, userId, accessToken)
		if err != nil {
			respondChangeError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Change request payment recorded"))
	}
}

func RequestCancellation(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userId, ok := currentUser(c)
		if !ok {
			return
		}
		bookingId, ok := bookingIDParam(c)
		if !ok {
			return
		}

		var body struct {
			Reason string `json:"reason"`
		}
		_ = c.ShouldBindJSON(&body)

		accessToken, _ := c.Cookie("access_token")
		updated, err := bs.RequestCancellation(c.Request.Context(), bookingId, userId, body.Reason, accessToken)
		if err != nil {
			respondChangeError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Cancellation requested"))
	}
}

func ResolveCancellation(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userId, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsHost() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only venue owners can resolve cancellation requests"))
			return
		}
		bookingId, ok := bookingIDParam(c)
		if !ok {
			return
		}

		var body struct {
			Accept bool `json:"accept"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		updated, err := bs.ResolveCancellation(c.Request.Context(), bookingId, userId, body.Accept, accessToken)
		if err != nil {
			respondChangeError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Cancellation request resolved"))
	}
}

// respondChangeError maps booking-flow errors onto HTTP statuses:
// validation failures get a 422 with field messages, precondition and
// conflict errors a 409, a missing booking a 404, everything else a 500.
func respondChangeError(c *gin.Context, err error) {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, models.ValidationErrorResponse(vErr.Fields))
	case errors.Is(err, models.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
	case errors.Is(err, models.ErrBookingNotConfirmed),
		errors.Is(err, models.ErrChangeRequestOutstanding),
		errors.Is(err, models.ErrNoChangeRequestOutstanding),
		errors.Is(err, models.ErrChangeConflict):
		c.JSON(http.StatusConflict, models.ErrorResponse(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
	}
}

func classifyChangeError(err error) string {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		return metrics.OutcomeValidation
	case errors.Is(err, models.ErrBookingNotConfirmed),
		errors.Is(err, models.ErrChangeRequestOutstanding):
		return metrics.OutcomePrecondition
	case errors.Is(err, models.ErrChangeConflict):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
