package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/ignatzorin/barter-backend/internal/logger"
)

// Logger: то, что нужно обработчику паник от логгера. *logrus.Logger подходит.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger Logger
}

func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer rh.recover("goroutine")
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer rh.recover("goroutine (with context)")
		fn(ctx)
	}()
}

func (rh *RecoveryHandler) recover(where string) {
	if r := recover(); r != nil {
		rh.logger.Errorf("panic in %s: %v\nstack trace:\n%s", where, r, debug.Stack())
	}
}

// SafeGo запускает горутину, паники пишутся в logger.Log.
func SafeGo(fn func()) {
	NewRecoveryHandler(logger.Log).SafeGo(fn)
}

// SafeGoWithContext то же самое для долгоживущих циклов, которые слушают ctx.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	NewRecoveryHandler(logger.Log).SafeGoWithContext(ctx, fn)
}
