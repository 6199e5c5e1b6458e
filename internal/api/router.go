package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"visit-scheduler-service/internal/api/handlers"
	"visit-scheduler-service/internal/platform/metrics"
	"visit-scheduler-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(store ports.StateStore, est ports.Estimator, hours ports.HoursChecker) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	listHandler := &handlers.ListHandler{Store: store}
	scheduleHandler := &handlers.ScheduleHandler{
		Store: store,
		Est:   est,
		Hours: hours,
	}
	exportHandler := &handlers.ExportHandler{Store: store}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/lists", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			listHandler.Remove(w, r)
			return
		}
		listHandler.Upload(w, r)
	})
	mux.HandleFunc("/pubs", listHandler.List)

	mux.HandleFunc("/schedule", scheduleHandler.Get)
	mux.HandleFunc("/schedule/plan", scheduleHandler.Plan)
	mux.HandleFunc("/schedule/remove", scheduleHandler.RemoveVisit)
	mux.HandleFunc("/schedule/visit", scheduleHandler.UpdateVisit)
	mux.HandleFunc("/schedule/reschedule", scheduleHandler.Reschedule)
	mux.HandleFunc("/schedule/add-anyway", scheduleHandler.AddAnyway)
	mux.HandleFunc("/schedule/day", scheduleHandler.DeleteDay)

	mux.HandleFunc("/schedule/export/ics", exportHandler.ICS)
	mux.HandleFunc("/schedule/export/xlsx", exportHandler.XLSX)

	return loggingMiddleware(mux)
}
