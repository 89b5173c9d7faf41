package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/page"
	"github.com/mawahib/portal/internal/resource"
	"github.com/mawahib/portal/internal/response"
	"github.com/mawahib/portal/internal/service"
	"github.com/mawahib/portal/internal/session"
)

// respondError maps a controller or API error onto the response envelope.
// Rejections keep the API's status and message so the browser shows what the
// server said.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *page.ValidationError
	switch {
	case errors.As(err, &verr):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, verr.Fields)

	case errors.Is(err, resource.ErrSingletonExists):
		response.Fail(c, http.StatusConflict, response.ErrSingletonExists)
	case errors.Is(err, page.ErrUnknownKind):
		response.FailWithMessage(c, http.StatusNotFound, response.ErrNotFound, err.Error())
	case errors.Is(err, service.ErrPageNotMounted):
		response.Fail(c, http.StatusNotFound, response.ErrPageNotMounted)
	case errors.Is(err, service.ErrUnknownRole):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"role": err.Error()})
	case errors.Is(err, session.ErrTokenExpired):
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionExpired)
	case errors.Is(err, context.DeadlineExceeded):
		response.Fail(c, http.StatusGatewayTimeout, response.ErrAPIUnavailable)
	case errors.Is(err, resource.ErrClosed), errors.Is(err, resource.ErrStale), apiclient.IsCanceled(err):
		response.Fail(c, http.StatusConflict, response.ErrCanceled)

	case apiclient.IsRejected(err):
		status := apiclient.StatusCode(err)
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		response.FailWithMessage(c, status, response.ErrAPIRejected, apiclient.UserMessage(err, ""))
	case apiclient.IsNetworkUnavailable(err):
		response.FailWithMessage(c, http.StatusServiceUnavailable, response.ErrAPIUnavailable, apiclient.UserMessage(err, ""))
	case apiclient.IsMalformed(err), errors.Is(err, resource.ErrNoRecord), errors.Is(err, apiclient.ErrIncompleteLogin):
		log.Warn().Err(err).Msg("Unexpected API response")
		response.Fail(c, http.StatusBadGateway, response.ErrAPIMalformed)

	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
