package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/Domenick1991/airline-backoffice/internal/repository"
	"github.com/Domenick1991/airline-backoffice/internal/service/loyalty"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type RewardHandler struct {
	service loyalty.RewardUseCase
	log     logrus.FieldLogger
}

type createRewardRequest struct {
	ClientID int64  `json:"client_id" binding:"required,gt=0"`
	FlightID int64  `json:"flight_id" binding:"required,gt=0"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
}

type updateRewardRequest struct {
	ClientID *int64  `json:"client_id" binding:"omitempty,gt=0"`
	FlightID *int64  `json:"flight_id" binding:"omitempty,gt=0"`
	Date     *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

type rewardResponse struct {
	ID       int64  `json:"id"`
	ClientID int64  `json:"client_id"`
	FlightID int64  `json:"flight_id"`
	Date     string `json:"date"`
}

type createRewardResponse struct {
	Reward       rewardResponse `json:"reward"`
	DiscountCode string         `json:"discount_code,omitempty"`
	Warning      string         `json:"warning,omitempty"`
}

func NewRewardHandler(service loyalty.RewardUseCase, log logrus.FieldLogger) *RewardHandler {
	return &RewardHandler{service: service, log: log}
}

func (h *RewardHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *RewardHandler) create(c *gin.Context) {
	var req createRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	date, ok := parseDate(c, req.Date)
	if !ok {
		return
	}

	result, err := h.service.CreateReward(c.Request.Context(), loyalty.CreateRewardInput{
		ClientID: domain.ClientID(req.ClientID),
		FlightID: domain.FlightID(req.FlightID),
		Date:     date,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, createRewardResponse{
		Reward:       toRewardResponse(result.Reward),
		DiscountCode: result.DiscountCode,
		Warning:      result.Warning,
	})
}

func (h *RewardHandler) list(c *gin.Context) {
	var q listFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	rewards, err := h.service.ListRewards(c.Request.Context(), repository.RewardFilter{
		ClientID: domain.ClientID(q.ClientID),
		FlightID: domain.FlightID(q.FlightID),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	resp := make([]rewardResponse, 0, len(rewards))
	for i := range rewards {
		resp = append(resp, toRewardResponse(&rewards[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RewardHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	reward, err := h.service.GetReward(c.Request.Context(), domain.RewardID(id))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toRewardResponse(reward))
}

func (h *RewardHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	var input loyalty.UpdateRewardInput
	if req.ClientID != nil {
		clientID := domain.ClientID(*req.ClientID)
		input.ClientID = &clientID
	}
	if req.FlightID != nil {
		flightID := domain.FlightID(*req.FlightID)
		input.FlightID = &flightID
	}
	if req.Date != nil {
		date, ok := parseDate(c, *req.Date)
		if !ok {
			return
		}
		input.Date = &date
	}

	updated, err := h.service.UpdateReward(c.Request.Context(), domain.RewardID(id), input)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toRewardResponse(updated))
}

func (h *RewardHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteReward(c.Request.Context(), domain.RewardID(id)); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toRewardResponse(r *domain.MilesReward) rewardResponse {
	return rewardResponse{
		ID:       int64(r.ID),
		ClientID: int64(r.ClientID),
		FlightID: int64(r.FlightID),
		Date:     r.Date.Format(dateLayout),
	}
}

// parseDate reads a calendar date and writes a 400 when it is malformed.
func parseDate(c *gin.Context, value string) (time.Time, bool) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		writeBindError(c, err)
		return time.Time{}, false
	}
	return date, true
}
