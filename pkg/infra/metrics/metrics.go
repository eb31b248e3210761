// Package metrics exposes report and webhook counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

const namespace = "bumpwatch"

// Metrics holds a dedicated registry so that tests can create many instances.
type Metrics struct {
	registry *prometheus.Registry

	reports      prometheus.Counter
	updates      *prometheus.CounterVec
	risks        *prometheus.GaugeVec
	alerts       *prometheus.GaugeVec
	renders      *prometheus.CounterVec
	webhookEvent *prometheus.CounterVec
}

var _ interfaces.Recorder = (*Metrics)(nil)

// New creates and registers every collector.
func New() *Metrics {
	x := &Metrics{
		registry: prometheus.NewRegistry(),
		reports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Number of reports built.",
		}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classified_updates_total",
			Help:      "Number of classified pull requests by update class.",
		}, []string{"class"}),
		risks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_pull_requests",
			Help:      "Open pull requests of the last report by risk level.",
		}, []string{"risk"}),
		alerts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alerts",
			Help:      "Security alerts of the last report by severity.",
		}, []string{"severity"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Number of rendered outputs by format and result.",
		}, []string{"format", "result"}),
		webhookEvent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Number of received webhook events.",
		}, []string{"type", "action"}),
	}

	x.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		x.reports, x.updates, x.risks, x.alerts, x.renders, x.webhookEvent,
	)
	return x
}

// Handler serves the registry.
func (x *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(x.registry, promhttp.HandlerOpts{Registry: x.registry})
}

// Registry returns the underlying registry.
func (x *Metrics) Registry() *prometheus.Registry { return x.registry }

// ObserveReport counts classified rows and records the open risk and alert gauges.
func (x *Metrics) ObserveReport(report *model.Report) {
	x.reports.Inc()
	for _, cls := range model.UpdateClasses {
		x.updates.WithLabelValues(string(cls)).Add(float64(report.Aggregation.Total.Get(cls)))
	}

	risks := map[model.RiskLevel]int{}
	for _, row := range report.Open {
		risks[row.Risk.Level]++
	}
	for _, lv := range []model.RiskLevel{model.RiskLow, model.RiskMedium, model.RiskHigh, model.RiskCritical} {
		x.risks.WithLabelValues(string(lv)).Set(float64(risks[lv]))
	}

	x.alerts.Reset()
	for sev, n := range report.AlertAggregation.BySeverity {
		x.alerts.WithLabelValues(sev).Set(float64(n))
	}
}

// ObserveRender counts one rendered output.
func (x *Metrics) ObserveRender(format string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	x.renders.WithLabelValues(format, result).Inc()
}

// ObserveWebhook counts one webhook event.
func (x *Metrics) ObserveWebhook(event *model.WebhookEvent) {
	x.webhookEvent.WithLabelValues(string(event.Type), event.Action).Inc()
}
