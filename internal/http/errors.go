// Package httpapi exposes the HTTP surface of the shop: the server-rendered
// storefront and back office plus the JSON API under /api.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/printshop/internal/model"
	"github.com/fairyhunter13/printshop/internal/obs"
)

// statusForCode maps a domain error code to an HTTP status.
func statusForCode(code string) int {
	switch code {
	case model.EINVALID, model.ESTOCK, model.ESIGNATURE:
		return http.StatusBadRequest
	case model.ENOTFOUND:
		return http.StatusNotFound
	case model.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case model.EGATEWAY:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorJSON answers err as {"error": message} with the mapped status.
// Internal details are logged, never sent to the caller.
func errorJSON(c *gin.Context, err error) {
	status := statusForCode(model.ErrorCode(err))
	if status >= http.StatusInternalServerError {
		obs.Logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
			"request_id", RequestID(c),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": model.ErrorMessage(err)})
}

// bindErrorMessage folds a binding failure into the shop's validation
// vocabulary.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "slug" {
				return "Invalid slug"
			}
		}
		return "Missing required fields"
	}
	return "Invalid request body"
}

// renderError serves the shared error page.
func (a *App) renderError(c *gin.Context, status int, message string) {
	a.render(c, status, "error.html", gin.H{"Status": status, "Message": message})
}

// pageError renders err for HTML routes: missing entities get a 404 page,
// everything else a generic 500 with the detail kept in the log.
func (a *App) pageError(c *gin.Context, err error) {
	if model.ErrorCode(err) == model.ENOTFOUND {
		a.renderError(c, http.StatusNotFound, model.ErrorMessage(err))
		c.Abort()
		return
	}
	obs.Logger.Error("page failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
		"request_id", RequestID(c),
	)
	a.renderError(c, http.StatusInternalServerError, "Something went wrong")
	c.Abort()
}
