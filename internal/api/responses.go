package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilianohg/jobtracker/internal/apperr"
)

type errorResponse struct {
	Error string `json:"error"`
}

// fail writes {error: message} with the status derived from err's kind.
// Store failures are logged and reported without driver detail.
func fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)

	message := err.Error()
	switch kind {
	case apperr.KindInternal:
		log.Printf("[api] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "internal server error"
	case apperr.KindStorageUnavailable:
		log.Printf("[api] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "storage unavailable"
	}

	c.AbortWithStatusJSON(kind.HTTPStatus(), errorResponse{Error: message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: message})
}
