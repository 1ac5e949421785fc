package service

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ludo-technologies/depscope/domain"
)

// Package-level tracer and meter for analysis operations
var (
	tracer = otel.Tracer("depscope.analyzer")
	meter  = otel.Meter("depscope.analyzer")
)

var (
	analysisLatency metric.Float64Histogram
	analysisTotal   metric.Int64Counter
	filesAnalyzed   metric.Int64Counter
	cyclesFound     metric.Int64Histogram
	maintainability metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		analysisLatency, err = meter.Float64Histogram(
			"depscope_analysis_duration_seconds",
			metric.WithDescription("Duration of dependency analyses"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		analysisTotal, err = meter.Int64Counter(
			"depscope_analyses_total",
			metric.WithDescription("Total number of dependency analyses"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		filesAnalyzed, err = meter.Int64Counter(
			"depscope_files_analyzed_total",
			metric.WithDescription("Files ingested into dependency graphs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cyclesFound, err = meter.Int64Histogram(
			"depscope_cycles_found",
			metric.WithDescription("Circular dependencies reported per analysis"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		maintainability, err = meter.Int64Histogram(
			"depscope_maintainability_score",
			metric.WithDescription("Distribution of maintainability scores"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startSpan creates a span for one stage of an analysis
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on span, if any, and ends it
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// setInsightAttributes sets the result attributes on an analysis span
func setInsightAttributes(span trace.Span, insight *domain.Insight) {
	span.SetAttributes(
		attribute.Int("depscope.files", insight.Stats.TotalFiles),
		attribute.Int("depscope.dependencies", insight.Stats.TotalDependencies),
		attribute.Int("depscope.cycles", len(insight.Cycles)),
		attribute.Int("depscope.depth", insight.Depth),
		attribute.Int("depscope.maintainability", insight.Stats.MaintainabilityScore),
	)
}

// recordAnalysisMetrics records the metrics of one analysis
func recordAnalysisMetrics(ctx context.Context, source string, duration time.Duration, insight *domain.Insight, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.Bool("success", success),
	)
	analysisLatency.Record(ctx, duration.Seconds(), attrs)
	analysisTotal.Add(ctx, 1, attrs)

	if insight == nil {
		return
	}
	filesAnalyzed.Add(ctx, int64(insight.Stats.TotalFiles))
	cyclesFound.Record(ctx, int64(len(insight.Cycles)))
	maintainability.Record(ctx, int64(insight.Stats.MaintainabilityScore))
}
