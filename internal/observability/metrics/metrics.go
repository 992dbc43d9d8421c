package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	commissionRuns   metric.Int64Counter
	calculations     metric.Int64Counter
	rulesMatched     metric.Int64Counter
	ruleImports      metric.Int64Counter
	ruleExports      metric.Int64Counter
	commissionAmount metric.Float64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "commission"
	}
	meter := provider.Meter(name)

	commissionRuns, err := meter.Int64Counter("commission_runs_total")
	if err != nil {
		return nil, err
	}
	calculations, err := meter.Int64Counter("commission_calculations_total")
	if err != nil {
		return nil, err
	}
	rulesMatched, err := meter.Int64Counter("commission_rules_matched_total")
	if err != nil {
		return nil, err
	}
	ruleImports, err := meter.Int64Counter("commission_rule_imports_total")
	if err != nil {
		return nil, err
	}
	ruleExports, err := meter.Int64Counter("commission_rule_exports_total")
	if err != nil {
		return nil, err
	}
	commissionAmount, err := meter.Float64Counter("commission_amount_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		commissionRuns:   commissionRuns,
		calculations:     calculations,
		rulesMatched:     rulesMatched,
		ruleImports:      ruleImports,
		ruleExports:      ruleExports,
		commissionAmount: commissionAmount,
	}, nil
}

// RecordRun counts one batch calculation run.
func (m *Metrics) RecordRun(ctx context.Context, transactions int) {
	if m == nil {
		return
	}
	m.commissionRuns.Add(ctx, 1)
	m.calculations.Add(ctx, int64(transactions))
}

// RecordMatches counts rules that produced a calculation for a transaction.
func (m *Metrics) RecordMatches(ctx context.Context, transactionType string, matched int) {
	if m == nil || matched <= 0 {
		return
	}
	m.rulesMatched.Add(ctx, int64(matched), metric.WithAttributes(
		attribute.String("transaction_type", strings.TrimSpace(transactionType)),
	))
}

// RecordCommission accumulates the computed commission amount.
func (m *Metrics) RecordCommission(ctx context.Context, transactionType string, amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.commissionAmount.Add(ctx, amount, metric.WithAttributes(
		attribute.String("transaction_type", strings.TrimSpace(transactionType)),
	))
}

// RecordRuleImport counts imported rules.
func (m *Metrics) RecordRuleImport(ctx context.Context, rules int) {
	if m == nil {
		return
	}
	m.ruleImports.Add(ctx, int64(rules))
}

// RecordRuleExport counts exported rules.
func (m *Metrics) RecordRuleExport(ctx context.Context, rules int) {
	if m == nil {
		return
	}
	m.ruleExports.Add(ctx, int64(rules))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}
