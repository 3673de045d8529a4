package api

import (
	"path/filepath"
	"time"

	"github.com/Domenick1991/airline-backoffice/internal/service/booking"
	"github.com/Domenick1991/airline-backoffice/internal/service/flights"
	"github.com/Domenick1991/airline-backoffice/internal/service/loyalty"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerFile = "airline.swagger.json"

type Services struct {
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Rewards  loyalty.RewardUseCase
}

// NewRouter builds the HTTP API. When swaggerDir is set the OpenAPI document
// in it is served under /swagger and rendered under /docs.
func NewRouter(services Services, log logrus.FieldLogger, swaggerDir string) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	NewFlightHandler(services.Flights, log).Register(router.Group("/flights"))
	NewBookingHandler(services.Bookings, log).Register(router.Group("/bookings"))
	NewRewardHandler(services.Rewards, log).Register(router.Group("/rewards"))

	if swaggerDir != "" {
		router.StaticFile("/swagger/"+swaggerFile, filepath.Join(swaggerDir, swaggerFile))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/"+swaggerFile),
		)))
	}
	return router, nil
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("http request")
	}
}
