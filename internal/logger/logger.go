package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log до вызова Init пишет в stderr с уровнем info, чтобы пакеты могли логировать в тестах.
var Log = logrus.New()

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON для production, text включается через SetTextFormatter.
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// Discard глушит вывод. Используется в тестах.
func Discard() {
	Log.SetOutput(io.Discard)
}

// WithUser возвращает запись с полем user_id.
func WithUser(userID interface{}) *logrus.Entry {
	return Log.WithField("user_id", userID)
}
