package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	apperrors "github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/errors"
)

// currentUserID reads the authenticated user id out of the JWT the
// echo-jwt middleware parsed into the request context.
func currentUserID(c echo.Context) (uint, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return uint(userID), nil
}

// respondError translates a domain error into the matching status code.
// Unexpected errors log their detail server-side and return an opaque body.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("path", c.Path()).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("request failed")
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// respondValidation surfaces validator failures as field-level errors.
func respondValidation(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
	}

	fieldErrs := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrs = append(fieldErrs, apperrors.FieldError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return c.JSON(http.StatusBadRequest, apperrors.ValidationErrorResponse{Errors: fieldErrs})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}
