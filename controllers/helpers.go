package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marulab/maruboard/services"
	"github.com/marulab/maruboard/utils"
)

// handleServiceError translates the service failure taxonomy onto HTTP. The
// numeric app code identifies the call site.
func handleServiceError(ctx *gin.Context, err error, code int) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, code, "not found")
	case errors.Is(err, services.ErrUnauthenticated):
		utils.Error(ctx, http.StatusUnauthorized, code, "authentication required")
	case errors.Is(err, services.ErrUnregistered):
		utils.Error(ctx, http.StatusForbidden, code, "unregistered user")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, code, "forbidden")
	case errors.Is(err, services.ErrInvalidArgument):
		utils.Error(ctx, http.StatusBadRequest, code, err.Error())
	case errors.Is(err, services.ErrDataIntegrity):
		// Corrupted references signal a bug elsewhere; fail loudly.
		utils.Sugar.Errorf("data integrity violation: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, code, "data integrity violation")
	default:
		utils.Sugar.Errorf("internal error: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, code, "internal error")
	}
}

// pageOpts reads the ?count= and ?cursor= query parameters.
func pageOpts(ctx *gin.Context) services.PageOpts {
	opts := services.PageOpts{Cursor: ctx.Query("cursor")}
	if raw := ctx.Query("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			opts.Count = n
		}
	}
	return opts
}
