package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting. Expected business
// failures are logged at warn level, everything else at error level.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	if isBusinessError(err) {
		logger.Warn(msg, args...)
		return
	}
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func isBusinessError(err error) bool {
	for _, kind := range []error{
		apperrors.ErrValidation,
		apperrors.ErrNotFound,
		apperrors.ErrDuplicate,
		apperrors.ErrInactiveAccount,
		apperrors.ErrUnbalancedEntry,
		apperrors.ErrPeriodClosed,
		apperrors.ErrOverlap,
		apperrors.ErrConflict,
		apperrors.ErrContention,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
