// AngelaMos | 2026
// telemetry.go

package core

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/carterperez-dev/neolab-storefront/internal/config"
)

// Resource attribute keys describing how a storefront run is wired.
const (
	AttrCartBackend  = attribute.Key("storefront.cart.backend")
	AttrCartSlot     = attribute.Key("storefront.cart.slot")
	AttrMockLatency  = attribute.Key("storefront.data.mock_latency")
	AttrOrderLatency = attribute.Key("storefront.data.create_order_delay_ms")
)

type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	Tracer         trace.Tracer
}

// NewTelemetry builds a tracer provider whose resource records the app
// identity plus the cart backend, persistence slot and mock data latency
// of this run. Without an endpoint the provider has no exporter, so spans
// are recorded and dropped locally.
func NewTelemetry(ctx context.Context, cfg *config.Config) (*Telemetry, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(storefrontAttributes(cfg)...),
		resource.WithProcess(),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	if !cfg.Otel.Enabled || cfg.Otel.Endpoint == "" {
		local := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
		return &Telemetry{
			TracerProvider: local,
			Tracer:         local.Tracer(cfg.Otel.ServiceName),
		}, nil
	}

	exporter, err := otlptracegrpc.New(ctx, exporterOptions(cfg.Otel)...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	// A CLI run is short lived, so spans are flushed quickly rather than
	// batched for long.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(time.Second),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(
			sdktrace.TraceIDRatioBased(sampleRate(cfg.Otel.SampleRate)),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Telemetry{
		TracerProvider: tp,
		Tracer:         tp.Tracer(cfg.Otel.ServiceName),
	}, nil
}

func storefrontAttributes(cfg *config.Config) []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.ServiceName(cfg.Otel.ServiceName),
		semconv.ServiceVersion(cfg.App.Version),
		semconv.DeploymentEnvironment(cfg.App.Environment),
		AttrCartBackend.String(cfg.Cart.Backend),
		AttrCartSlot.String(cfg.Cart.Slot),
		AttrMockLatency.Bool(cfg.Latency != config.LatencyConfig{}),
		AttrOrderLatency.Int64(cfg.Latency.CreateOrder.Milliseconds()),
	}
}

func exporterOptions(otelCfg config.OtelConfig) []otlptracegrpc.Option {
	creds := credentials.NewClientTLSFromCert(nil, "")
	if otelCfg.Insecure {
		creds = insecure.NewCredentials()
	}

	return []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(otelCfg.Endpoint),
		otlptracegrpc.WithTimeout(5 * time.Second),
		otlptracegrpc.WithTLSCredentials(creds),
	}
}

// sampleRate falls back to sampling everything when the configured ratio
// is outside (0, 1].
func sampleRate(rate float64) float64 {
	if rate <= 0 || rate > 1 {
		return 1
	}
	return rate
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.TracerProvider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := t.TracerProvider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}

	return nil
}

func TraceIDFromContext(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
