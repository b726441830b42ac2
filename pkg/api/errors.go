package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

// fail maps domain errors to status codes. Unknown errors are logged and
// hidden behind a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	var (
		inputErr models.InvalidInputError
		stateErr models.InvalidStateError
	)
	switch {
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Error(), "field": inputErr.Field})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": stateErr.Error(), "status": stateErr.Status})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.log.Error("request failed",
			logger.String("request_id", c.GetString(requestIDKey)),
			logger.String("path", c.Request.URL.Path),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.InvalidInputError{Field: "id", Msg: "must be a positive integer"}
	}
	return id, nil
}

// floatQuery reads an optional numeric query parameter; missing means 0.
func floatQuery(c *gin.Context, name string) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, models.InvalidInputError{Field: name, Msg: "must be a number"}
	}
	return v, nil
}

func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return models.InvalidInputError{Field: "body", Msg: err.Error()}
	}
	return nil
}
