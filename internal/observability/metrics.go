package observability

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"sojaprj/internal/model"
)

const pushJob = "soja_agrural"

var Registry = prometheus.NewRegistry()

var (
	RecordsExtracted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "soja_records_extracted_total",
			Help: "Total de linhas de preço extraídas da página",
		},
	)
	RowsInserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "soja_rows_inserted_total",
			Help: "Total de linhas inseridas no banco",
		},
	)
	RowsUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "soja_rows_updated_total",
			Help: "Total de linhas atualizadas no banco",
		},
	)
	RowsUnchanged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "soja_rows_unchanged_total",
			Help: "Total de linhas sem alteração",
		},
	)
	Runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soja_runs_total",
			Help: "Execuções por resultado",
		},
		[]string{"outcome"},
	)
)

func init() {
	Registry.MustRegister(RecordsExtracted, RowsInserted, RowsUpdated, RowsUnchanged, Runs)
}

// ObserveMerge adds the merge counts of one run.
func ObserveMerge(c model.Counts) {
	RowsInserted.Add(float64(c.Inserted))
	RowsUpdated.Add(float64(c.Updated))
	RowsUnchanged.Add(float64(c.Unchanged))
}

func ObserveRun(outcome string) {
	Runs.WithLabelValues(outcome).Inc()
}

func Start(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			log.Printf("[Metrics] servidor encerrado: %v", err)
		}
	}()
}

// Push sends the current values to a Pushgateway, for runs that end before
// anything could scrape them.
func Push(ctx context.Context, url, runID string) error {
	return push.New(url, pushJob).
		Gatherer(Registry).
		Grouping("instance", runID).
		PushContext(ctx)
}
