package middleware

import (
	"errors"

	apiError "docuvault/internal/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler turns errors attached with c.Error into a JSON response.
// Internal detail is logged and never sent to the client.
func ErrorHandler(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Execute the handler first

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var apiErr *apiError.APIError
		if !errors.As(err, &apiErr) {
			// A raw error we didn't wrap, treat as internal
			apiErr = apiError.Internal(err)
		}

		if apiErr.Status >= 500 {
			log.Errorw("request failed",
				"status", apiErr.Status,
				"path", c.Request.URL.Path,
				"error", apiErr.Internal,
			)
		} else {
			log.Infow(apiErr.Message,
				"status", apiErr.Status,
				"path", c.Request.URL.Path,
				"error", apiErr.Internal,
			)
		}

		c.AbortWithStatusJSON(apiErr.Status, apiErr)
	}
}
