package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/bus-booking-client/internal/middleware"
	"github.com/iliyamo/bus-booking-client/internal/repository"
)

func detail(status int, msg string) error { return echo.NewHTTPError(status, msg) }

// storeError maps repository error kinds onto statuses.
func storeError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return detail(http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrEmailExists):
		return detail(http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrInvalid), errors.Is(err, repository.ErrInsufficientBalance):
		return detail(http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrInvalidRefresh):
		return detail(http.StatusUnauthorized, err.Error())
	}
	return err
}

// ErrorHandler renders every error as {"detail": "..."}, the shape the
// client reads.  Anything that is not an *echo.HTTPError is logged and
// answered with 500.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := http.StatusInternalServerError, "Internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			msg = fmt.Sprint(he.Message)
		} else {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"detail": msg})
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, detail(http.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

// currentUser is only called behind JWTAuth.
func currentUser(c echo.Context) uint64 {
	id, _ := middleware.UserID(c)
	return id
}

func pageParams(c echo.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.QueryParam("skip"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return max(skip, 0), limit
}

// Validator adapts go-playground/validator to echo's c.Validate.
type Validator struct {
	v *validator.Validate
}

// NewValidator reports fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error { return cv.v.Struct(i) }

// bindValid binds the body and runs struct validation.  The error names the
// first failing field.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return detail(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return detail(http.StatusBadRequest, "Invalid value for "+ve[0].Field())
		}
		return detail(http.StatusBadRequest, err.Error())
	}
	return nil
}
