package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	DBName string
	// IncludeQueryVariables puts bound values into db.statement; leave off outside development
	IncludeQueryVariables bool
}

// RegisterDBTracing adds a span per SQL statement to db
func RegisterDBTracing(db *gorm.DB, tp trace.TracerProvider, cfg DBTracingConfig) error {
	opts := []otelgorm.Option{
		otelgorm.WithTracerProvider(tp),
	}
	if cfg.DBName != "" {
		opts = append(opts, otelgorm.WithDBName(cfg.DBName))
	}
	if !cfg.IncludeQueryVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("failed to register database tracing: %w", err)
	}
	return nil
}
