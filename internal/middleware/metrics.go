package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthFailures counts rejected authentication attempts by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_auth_failures_total",
		Help: "Total number of rejected authentication attempts",
	}, []string{"reason"})

	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// RateLimitRejections counts requests refused by the Redis rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_rate_limit_rejections_total",
		Help: "Total number of requests rejected by rate limiting",
	}, []string{"resource"})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide HTTP metrics collector. The collector is
// registered with the default registry once; later calls reuse it.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request metrics through p.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
