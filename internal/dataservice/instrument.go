// AngelaMos | 2026
// instrument.go

package dataservice

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/neolab-storefront/internal/model"
)

// Instrumented wraps a Service with one span per call and Prometheus call
// counters, latency histograms and a points-accrued counter.
type Instrumented struct {
	next     Service
	tracer   trace.Tracer
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	points   prometheus.Counter
}

func NewInstrumented(
	next Service,
	tracer trace.Tracer,
	reg prometheus.Registerer,
) (*Instrumented, error) {
	s := &Instrumented{
		next:   next,
		tracer: tracer,
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "neolab",
				Subsystem: "dataservice",
				Name:      "calls_total",
				Help:      "Data service calls by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "neolab",
				Subsystem: "dataservice",
				Name:      "call_duration_seconds",
				Help:      "Data service call latency, simulated delay included.",
				Buckets:   []float64{.001, .01, .1, .25, .5, .75, 1, 1.5, 2.5},
			},
			[]string{"method"},
		),
		points: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neolab",
			Subsystem: "dataservice",
			Name:      "points_accrued_total",
			Help:      "Loyalty points credited by successful orders.",
		}),
	}

	for _, c := range []prometheus.Collector{s.calls, s.duration, s.points} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register dataservice metrics: %w", err)
		}
	}

	return s, nil
}

func (s *Instrumented) observe(
	ctx context.Context,
	method string,
	fn func(ctx context.Context) error,
	attrs ...attribute.KeyValue,
) error {
	ctx, span := s.tracer.Start(
		ctx,
		"dataservice."+method,
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	s.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.calls.WithLabelValues(method, outcome).Inc()

	return err
}

func (s *Instrumented) GetProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := s.observe(ctx, "GetProducts", func(ctx context.Context) error {
		var err error
		out, err = s.next.GetProducts(ctx)
		return err
	})
	return out, err
}

func (s *Instrumented) GetProductByID(
	ctx context.Context,
	id string,
) (model.Product, bool, error) {
	var (
		out   model.Product
		found bool
	)
	err := s.observe(ctx, "GetProductByID", func(ctx context.Context) error {
		var err error
		out, found, err = s.next.GetProductByID(ctx, id)
		if err == nil {
			trace.SpanFromContext(ctx).SetAttributes(attribute.Bool("product.found", found))
		}
		return err
	}, attribute.String("product.id", id))
	return out, found, err
}

func (s *Instrumented) Login(ctx context.Context, email string) (model.User, error) {
	var out model.User
	err := s.observe(ctx, "Login", func(ctx context.Context) error {
		var err error
		out, err = s.next.Login(ctx, email)
		if err == nil {
			trace.SpanFromContext(ctx).SetAttributes(
				attribute.String("user.id", out.ID),
				attribute.String("user.role", out.Role),
			)
		}
		return err
	})
	return out, err
}

func (s *Instrumented) GetUser(ctx context.Context, id string) (model.User, error) {
	var out model.User
	err := s.observe(ctx, "GetUser", func(ctx context.Context) error {
		var err error
		out, err = s.next.GetUser(ctx, id)
		return err
	}, attribute.String("user.id", id))
	return out, err
}

func (s *Instrumented) CreateOrder(ctx context.Context, order model.Order) error {
	return s.observe(ctx, "CreateOrder", func(ctx context.Context) error {
		if err := s.next.CreateOrder(ctx, order); err != nil {
			return err
		}
		s.points.Add(float64(model.PointsFor(order.Total)))
		return nil
	},
		attribute.String("order.id", order.ID),
		attribute.String("user.id", order.UserID),
		attribute.Int("order.items", len(order.Items)),
		attribute.String("order.total", order.Total.StringFixed(2)),
	)
}

func (s *Instrumented) GetOrders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	err := s.observe(ctx, "GetOrders", func(ctx context.Context) error {
		var err error
		out, err = s.next.GetOrders(ctx)
		return err
	})
	return out, err
}

func (s *Instrumented) GetUserOrders(
	ctx context.Context,
	userID string,
) ([]model.Order, error) {
	var out []model.Order
	err := s.observe(ctx, "GetUserOrders", func(ctx context.Context) error {
		var err error
		out, err = s.next.GetUserOrders(ctx, userID)
		return err
	}, attribute.String("user.id", userID))
	return out, err
}

func (s *Instrumented) UpdateProduct(ctx context.Context, product model.Product) error {
	return s.observe(ctx, "UpdateProduct", func(ctx context.Context) error {
		return s.next.UpdateProduct(ctx, product)
	}, attribute.String("product.id", product.ID))
}

func (s *Instrumented) DeleteProduct(ctx context.Context, id string) error {
	return s.observe(ctx, "DeleteProduct", func(ctx context.Context) error {
		return s.next.DeleteProduct(ctx, id)
	}, attribute.String("product.id", id))
}

var _ Service = (*Instrumented)(nil)
