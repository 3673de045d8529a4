package api

import (
	"net/http"

	"github.com/Domenick1991/airline-backoffice/internal/api/apierr"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	code := apierr.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
	}
	c.JSON(code, errorResponse{Error: apierr.Message(err), Reason: apierr.Reason(err)})
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Reason: "VALIDATION_FAILED"})
}
