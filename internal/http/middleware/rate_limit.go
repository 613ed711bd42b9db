package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/ignatzorin/barter-backend/internal/interface/http/response"
	"github.com/ignatzorin/barter-backend/internal/logger"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

// NewRateLimiter создаёт лимитер. С клиентом Redis счётчики общие для всех
// экземпляров сервера, без него хранятся в памяти процесса.
// По умолчанию: 10 запросов в минуту с одного IP.
func NewRateLimiter(limit int64, period time.Duration, client *redis.Client) (*limiter.Limiter, error) {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = time.Minute
	}

	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}

	if client == nil {
		return limiter.New(memory.NewStore(), rate), nil
	}

	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "barter:ratelimit",
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit: не удалось создать redis store: %w", err)
	}
	return limiter.New(store, rate), nil
}

// RateLimitMiddleware ограничивает количество запросов с одного IP.
func RateLimitMiddleware(instance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		limit, err := instance.Get(c.Request.Context(), key)
		if err != nil {
			logger.Log.WithField("error", err.Error()).Error("rate limit: хранилище недоступно")
			response.Fail(c, http.StatusInternalServerError, apperror.ErrCodeInternal, "внутренняя ошибка сервера")
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", limit.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", limit.Reset))

		if limit.Reached {
			response.Fail(c, http.StatusTooManyRequests, apperror.ErrCodeRateLimited, "слишком много запросов, попробуйте позже")
			return
		}

		c.Next()
	}
}
