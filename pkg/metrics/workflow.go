package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "servicebay"

// WorkflowMetrics counts service record lifecycle events.
type WorkflowMetrics struct {
	scheduled   prometheus.Counter
	itemsAdded  prometheus.Counter
	transitions *prometheus.CounterVec
	invoices    prometheus.Counter
}

// NewWorkflowMetrics registers the workflow counters on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	scheduled := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_records_scheduled_total",
		Help:      "Service records created through scheduling.",
	})
	itemsAdded := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_items_added_total",
		Help:      "Service items attached to service records.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_record_transitions_total",
		Help:      "Service record status transitions, by target status.",
	}, []string{"status"})
	invoices := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoices_built_total",
		Help:      "Invoices computed for service records.",
	})
	reg.MustRegister(scheduled, itemsAdded, transitions, invoices)
	return &WorkflowMetrics{
		scheduled:   scheduled,
		itemsAdded:  itemsAdded,
		transitions: transitions,
		invoices:    invoices,
	}
}

func (w *WorkflowMetrics) IncScheduled() {
	if w == nil || w.scheduled == nil {
		return
	}
	w.scheduled.Inc()
}

func (w *WorkflowMetrics) IncItemsAdded() {
	if w == nil || w.itemsAdded == nil {
		return
	}
	w.itemsAdded.Inc()
}

// IncTransition counts a status change into the named status.
func (w *WorkflowMetrics) IncTransition(status string) {
	if w == nil || w.transitions == nil {
		return
	}
	w.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

func (w *WorkflowMetrics) IncInvoices() {
	if w == nil || w.invoices == nil {
		return
	}
	w.invoices.Inc()
}
