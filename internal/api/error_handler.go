package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dilekiremozbay/2homework/internal/controller"
	"github.com/dilekiremozbay/2homework/internal/service"
	"github.com/dilekiremozbay/2homework/internal/storage"
	"github.com/dilekiremozbay/2homework/internal/util"
)

// ErrorHandler maps service and validation failures onto the wire contract.
// Credential failures stay deliberately undifferentiated.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(log, c, http.StatusUnauthorized, controller.MessageResponse{Message: service.ErrInvalidCredentials.Error()})
			return
		case errors.Is(err, service.ErrUnauthorized):
			writeJSON(log, c, http.StatusUnauthorized, controller.MessageResponse{Message: "Unauthorized"})
			return
		case errors.Is(err, service.ErrAccountDeleted):
			writeJSON(log, c, http.StatusUnauthorized, controller.MessageResponse{Message: "Account deleted"})
			return
		case errors.Is(err, service.ErrInvalidRefreshToken):
			writeJSON(log, c, http.StatusUnauthorized, controller.ErrorResponse{
				Error: controller.ErrorBody{Status: http.StatusUnauthorized, Message: "INVALID_REFRESH_TOKEN"},
			})
			return
		case errors.Is(err, storage.ErrDuplicateUsername):
			writeJSON(log, c, http.StatusBadRequest, controller.ErrorResponse{
				Error: controller.ErrorBody{Status: http.StatusBadRequest, Message: "username_EXISTS"},
			})
			return
		}

		var customErr util.MyResponseError
		if errors.As(err, &customErr) {
			writeJSON(log, c, customErr.Status, controller.ErrorResponse{
				Error: controller.ErrorBody{Status: customErr.Status, Message: customErr.Msg},
			})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			// Request-validator rejections arrive here with the schema
			// violations in the message.
			if he.Code == http.StatusBadRequest {
				writeJSON(log, c, http.StatusBadRequest, controller.ValidationErrorResponse{
					Status:  http.StatusBadRequest,
					Message: "INPUT_ERRORS",
					Errors:  []string{httpErrorMessage(he)},
				})
				return
			}
			if he.Code == http.StatusInternalServerError {
				log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			}
			writeJSON(log, c, he.Code, controller.ErrorResponse{
				Error: controller.ErrorBody{Status: he.Code, Message: httpErrorMessage(he)},
			})
			return
		}

		log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
		writeJSON(log, c, http.StatusInternalServerError, controller.ErrorResponse{
			Error: controller.ErrorBody{Status: http.StatusInternalServerError, Message: "SERVER_ERROR"},
		})
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return http.StatusText(he.Code)
}

func writeJSON(log *zap.SugaredLogger, c echo.Context, status int, body interface{}) {
	if err := c.JSON(status, body); err != nil {
		log.Errorw("failed to write json response", "error", err)
	}
}
