package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	APIRequestsTotal       metric.Int64Counter
	APIRequestDuration     metric.Float64Histogram
	SessionRedirectsTotal  metric.Int64Counter
	TicketsCreatedTotal    metric.Int64Counter
	StaleListsDropped      metric.Int64Counter
	TemplateRenderDuration metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once, from the global
// MeterProvider. Before a provider is installed that is the no-op one.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("nrc-ticketing")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.APIRequestsTotal, err = meter.Int64Counter(
			"ticket_api_requests_total",
			metric.WithDescription("Total number of calls made to the ticket API"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ticket_api_requests_total: %v", err)
		}

		m.APIRequestDuration, err = meter.Float64Histogram(
			"ticket_api_request_duration_seconds",
			metric.WithDescription("Duration of ticket API calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ticket_api_request_duration_seconds: %v", err)
		}

		m.SessionRedirectsTotal, err = meter.Int64Counter(
			"session_redirects_total",
			metric.WithDescription("Protected page requests redirected to login"),
			metric.WithUnit("{redirect}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create session_redirects_total: %v", err)
		}

		m.TicketsCreatedTotal, err = meter.Int64Counter(
			"tickets_created_total",
			metric.WithDescription("Tickets successfully created through the dashboard"),
			metric.WithUnit("{ticket}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create tickets_created_total: %v", err)
		}

		m.StaleListsDropped, err = meter.Int64Counter(
			"stale_ticket_lists_dropped_total",
			metric.WithDescription("Ticket list responses discarded because a newer list was issued"),
			metric.WithUnit("{response}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create stale_ticket_lists_dropped_total: %v", err)
		}

		m.TemplateRenderDuration, err = meter.Float64Histogram(
			"template_render_duration_seconds",
			metric.WithDescription("Duration of template rendering in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create template_render_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the instruments, initialising them on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
