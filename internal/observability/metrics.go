// Package observability holds the process-wide Prometheus collectors and the
// OpenTelemetry tracer.
package observability

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/anonto42/lumina/backend/internal/models"
)

var (
	// Operations counts engine operations by name and outcome kind.
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_operations_total",
		Help: "Engagement and graph operations by outcome.",
	}, []string{"operation", "outcome"})

	// SideEffectFailures counts post-commit work that failed.
	SideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_side_effect_failures_total",
		Help: "Post-commit cache or notification failures.",
	}, []string{"effect"})

	// RedisErrors counts Redis command errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_redis_errors_total",
		Help: "Redis command errors by command.",
	}, []string{"command"})
)

// Outcome names the error kind of err for metric labels.
func Outcome(err error) string {
	return string(models.KindOf(err))
}

func RecordOperation(operation string, err error) {
	Operations.WithLabelValues(operation, Outcome(err)).Inc()
}

// RedisMetricsHook counts failed Redis commands. redis.Nil is not a failure.
type RedisMetricsHook struct{}

func (RedisMetricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (RedisMetricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (RedisMetricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}
