package app

import (
	"errors"
	"log/slog"
	"net/http"
	"unicode"
	"unicode/utf8"

	"connectrpc.com/connect"
	"github.com/labstack/echo/v4"
)

// messageServerError is the only detail a client sees of an internal failure.
const messageServerError = "Server error"

type messageView struct {
	Message string `json:"message"`
}

// errorHandler renders every error as a JSON message. Internal failures are
// logged with their cause and reported generically.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := toHTTPError(err)
		if httpErr.Code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				slog.String("id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.String("route", c.Path()),
				slog.Any("error", err),
			)
		}

		msg, ok := httpErr.Message.(string)
		if !ok || msg == "" {
			msg = http.StatusText(httpErr.Code)
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.Code)
		} else {
			err = c.JSON(httpErr.Code, messageView{Message: msg})
		}
		if err != nil {
			logger.WarnContext(c.Request().Context(), "failed to write error response", slog.Any("error", err))
		}
	}
}

// toHTTPError converts err to the HTTP error reported to the client.
func toHTTPError(err error) *echo.HTTPError {
	// Already an HTTP error - pass through
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	// Map ConnectRPC codes to HTTP status codes
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		status := connectCodeToHTTPStatus(connectErr.Code())
		if status < http.StatusInternalServerError {
			return echo.NewHTTPError(status, capitalize(connectErr.Message())).SetInternal(err)
		}
	}

	return echo.NewHTTPError(http.StatusInternalServerError, messageServerError).SetInternal(err)
}

// connectCodeToHTTPStatus maps ConnectRPC error codes to HTTP status codes.
// See: https://connectrpc.com/docs/protocol/#error-codes
//
// AlreadyExists is a 400 rather than the conventional 409, which is what
// registration clients expect for a duplicate email.
func connectCodeToHTTPStatus(code connect.Code) int {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeFailedPrecondition, connect.CodeOutOfRange,
		connect.CodeAlreadyExists:
		return http.StatusBadRequest // 400
	case connect.CodeUnauthenticated:
		return http.StatusUnauthorized // 401
	case connect.CodePermissionDenied:
		return http.StatusForbidden // 403
	case connect.CodeNotFound:
		return http.StatusNotFound // 404
	case connect.CodeCanceled:
		return http.StatusRequestTimeout // 408
	case connect.CodeAborted:
		return http.StatusConflict // 409
	case connect.CodeResourceExhausted:
		return http.StatusTooManyRequests // 429
	case connect.CodeUnimplemented:
		return http.StatusNotImplemented // 501
	case connect.CodeUnavailable:
		return http.StatusServiceUnavailable // 503
	case connect.CodeDeadlineExceeded:
		return http.StatusGatewayTimeout // 504
	default:
		return http.StatusInternalServerError // 500
	}
}

func capitalize(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
