package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/Domenick1991/airline-backoffice/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type FlightHandler struct {
	service flights.FlightUseCase
	log     logrus.FieldLogger
}

type flightResponse struct {
	ID                 int64  `json:"id"`
	FlightNumber       string `json:"flight_number"`
	DepartureCity      string `json:"departure_city"`
	ArrivalCity        string `json:"arrival_city"`
	DepartureTime      string `json:"departure_time"`
	ArrivalTime        string `json:"arrival_time"`
	NumberOfSeats      int    `json:"number_of_seats"`
	EconomyPriceCents  int64  `json:"economy_price_cents"`
	BusinessPriceCents int64  `json:"business_price_cents"`
	Cancelled          bool   `json:"cancelled"`
	SeatsTaken         *int   `json:"seats_taken,omitempty"`
	SeatsAvailable     *int   `json:"seats_available,omitempty"`
}

func NewFlightHandler(service flights.FlightUseCase, log logrus.FieldLogger) *FlightHandler {
	return &FlightHandler{service: service, log: log}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *FlightHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	resp := make([]flightResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toFlightResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), domain.FlightID(id))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	taken, err := h.service.Occupancy(c.Request.Context(), flight.ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	available := flight.NumberOfSeats - taken
	resp := toFlightResponse(flight)
	resp.SeatsTaken, resp.SeatsAvailable = &taken, &available
	c.JSON(http.StatusOK, resp)
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:                 int64(f.ID),
		FlightNumber:       f.FlightNumber,
		DepartureCity:      f.DepartureCity,
		ArrivalCity:        f.ArrivalCity,
		DepartureTime:      f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:        f.ArrivalTime.Format(time.RFC3339),
		NumberOfSeats:      f.NumberOfSeats,
		EconomyPriceCents:  f.EconomyPriceCents,
		BusinessPriceCents: f.BusinessPriceCents,
		Cancelled:          f.Cancelled,
	}
}

// pathID parses the :id parameter and writes a 400 when it is not a
// positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id", Reason: "VALIDATION_FAILED"})
		return 0, false
	}
	return id, true
}
