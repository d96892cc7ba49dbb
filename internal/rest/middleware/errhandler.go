package middleware

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/types"
)

const safeDetailsPrefix = "__json__:"

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	// Code is the machine readable class, e.g. not_found
	Code      string         `json:"code"`
	Display   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// ErrorHandler writes the last error recorded on the context. The first hint
// becomes the message; reportable details are passed through.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		c.JSON(ierr.HTTPStatusFromErr(err), ErrorResponse{
			Error: ErrorDetail{
				Code:      ierr.CodeFromErr(err),
				Display:   displayMessage(err),
				Details:   safeDetails(err),
				RequestID: types.GetRequestID(c.Request.Context()),
			},
		})
	}
}

func displayMessage(err error) string {
	// GetAllHints walks outermost first
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}
	return "An unexpected error occurred"
}

func safeDetails(err error) map[string]any {
	details := make(map[string]any)
	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			raw, ok := strings.CutPrefix(payload, safeDetailsPrefix)
			if !ok {
				continue
			}
			var decoded map[string]any
			if jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(raw, &decoded) != nil {
				continue
			}
			for k, v := range decoded {
				// GetAllSafeDetails walks outermost first; the outer value wins
				if _, seen := details[k]; !seen {
					details[k] = v
				}
			}
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
