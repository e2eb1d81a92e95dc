package prom

import "github.com/prometheus/client_golang/prometheus"

var (
	SubjectsDiscovered = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "batchfit_subjects_selected",
		Help: "number of subjects selected for the current batch run",
	})

	ChunksProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "batchfit_chunks_processed_total",
		Help: "voxel chunks computed by the fitting worker",
	})

	ChunksSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "batchfit_chunks_skipped_total",
		Help: "voxel chunks skipped because their output already existed",
	})

	ModelFitFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "batchfit_model_fit_failures_total",
		Help: "per subject per model fit runs that ended in an error",
	})

	ModelFitsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "batchfit_model_fits_completed_total",
		Help: "per subject per model fit runs that merged successfully",
	})
)

// runs before the /metrics route is defined in cmd/root.go
func init() {
	_ = prometheus.Register(SubjectsDiscovered)
	_ = prometheus.Register(ChunksProcessed)
	_ = prometheus.Register(ChunksSkipped)
	_ = prometheus.Register(ModelFitFailures)
	_ = prometheus.Register(ModelFitsCompleted)
}
