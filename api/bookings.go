package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/Domenick1991/airline-backoffice/internal/repository"
	"github.com/Domenick1991/airline-backoffice/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     logrus.FieldLogger
}

type createBookingRequest struct {
	ClientID int64  `json:"client_id" binding:"required,gt=0"`
	FlightID int64  `json:"flight_id" binding:"required,gt=0"`
	SeatType string `json:"seat_type" binding:"required,seattype"`
}

type updateBookingRequest struct {
	SeatType *string `json:"seat_type" binding:"omitempty,seattype"`
	FlightID *int64  `json:"flight_id" binding:"omitempty,gt=0"`
}

type bookingResponse struct {
	ID        int64  `json:"id"`
	FlightID  int64  `json:"flight_id"`
	ClientID  int64  `json:"client_id"`
	SeatType  string `json:"seat_type"`
	SlotToken string `json:"slot_token"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type listFilterQuery struct {
	ClientID int64 `form:"client_id" binding:"omitempty,gt=0"`
	FlightID int64 `form:"flight_id" binding:"omitempty,gt=0"`
}

func NewBookingHandler(service booking.BookingUseCase, log logrus.FieldLogger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		ClientID: domain.ClientID(req.ClientID),
		FlightID: domain.FlightID(req.FlightID),
		SeatType: req.SeatType,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	var q listFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), repository.BookingFilter{
		ClientID: domain.ClientID(q.ClientID),
		FlightID: domain.FlightID(q.FlightID),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	found, err := h.service.GetBooking(c.Request.Context(), domain.BookingID(id))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	input := booking.UpdateBookingInput{SeatType: req.SeatType}
	if req.FlightID != nil {
		flightID := domain.FlightID(*req.FlightID)
		input.FlightID = &flightID
	}

	updated, err := h.service.UpdateBooking(c.Request.Context(), domain.BookingID(id), input)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBooking(c.Request.Context(), domain.BookingID(id)); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:        int64(b.ID),
		FlightID:  int64(b.FlightID),
		ClientID:  int64(b.ClientID),
		SeatType:  string(b.SeatType),
		SlotToken: b.SlotToken.String(),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}
