package handler

import (
	"errors"

	"github.com/complyhub/riskgate/internal/pkg/apperrors"
	"github.com/complyhub/riskgate/internal/risk"
	"github.com/complyhub/riskgate/internal/service"
	"github.com/gin-gonic/gin"
)

// fail maps domain errors onto AppErrors and hands them to ErrorHandler.
func fail(c *gin.Context, err error) {
	c.Error(toAppError(err))
	c.Abort()
}

func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var verr *risk.ValidationError
	switch {
	case errors.As(err, &verr):
		return apperrors.New(apperrors.ErrInvalidData, "compliance snapshot out of range", err).
			WithDetails(verr.Violations)
	case errors.Is(err, risk.ErrNilSnapshot):
		return apperrors.NewInvalidRequest("snapshot is required")
	case service.IsNotFound(err):
		return apperrors.NewNotFound(err.Error())
	case errors.Is(err, service.ErrNoSnapshot):
		return apperrors.New(apperrors.ErrConflict, err.Error(), err)
	default:
		return apperrors.New(apperrors.ErrInternal, "internal error", err)
	}
}
