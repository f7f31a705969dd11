package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning/contenttree"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/apierr"
	"github.com/yungbote/neurobridge-curriculum/internal/services"
)

// RespondServiceError writes the error envelope for a service failure.
// Structural validation failures carry every issue in the body.
func RespondServiceError(c *gin.Context, fallbackCode string, err error) {
	if errors.Is(err, services.ErrUnauthenticated) {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	ae := apierr.From(err, fallbackCode)
	body := APIError{Message: "unknown error", Code: ae.Code}
	if ae.Err != nil {
		body.Message = ae.Err.Error()
	}
	var ve *contenttree.ValidationError
	if errors.As(err, &ve) {
		body.Issues = ve.Issues
	}
	if ae.Status >= http.StatusInternalServerError {
		// Storage details stay in the logs.
		body.Message = http.StatusText(ae.Status)
	}
	c.JSON(ae.Status, ErrorEnvelope{Error: body})
}
