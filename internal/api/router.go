package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/afterglow3292/portops/internal/api/recovery"
	"github.com/afterglow3292/portops/internal/engine"
	"github.com/afterglow3292/portops/internal/metrics"
	"github.com/afterglow3292/portops/internal/refcache"
	"github.com/afterglow3292/portops/internal/services"
	"github.com/afterglow3292/portops/internal/store"
)

// NewRouter wires every API route over the given store. The lock table,
// capacity ledger and reference cache are shared across services so the
// consistency rules see one view of in-flight operations.
func NewRouter(st store.Store, locks *engine.LockTable, ledger *engine.Ledger, cache *refcache.Cache, log zerolog.Logger, healthRep HealthReporter) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)
	router.Use(metricsMiddleware)

	// Domain services
	shipSvc := services.NewShipService(st, locks, cache, log)
	portSvc := services.NewPortService(st, locks, cache, log)
	berthSvc := services.NewBerthService(st, locks, cache, log)
	voyageSvc := services.NewVoyageService(st, locks, log)
	cargoSvc := services.NewCargoService(st, locks, ledger, cache, log)
	warehouseSvc := services.NewWarehouseService(st, locks, cache, log)
	taskSvc := services.NewTaskService(st, locks, log)
	statsSvc := services.NewStatsService(st, log)

	// Handlers
	healthHandler := NewHealthHandler(healthRep)
	shipHandler := NewShipHandler(shipSvc)
	portHandler := NewPortHandler(portSvc, statsSvc)
	berthHandler := NewBerthHandler(berthSvc)
	voyageHandler := NewVoyageHandler(voyageSvc)
	cargoHandler := NewCargoHandler(cargoSvc, statsSvc)
	warehouseHandler := NewWarehouseHandler(warehouseSvc, statsSvc)
	taskHandler := NewTaskHandler(taskSvc)

	// Health and metrics
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Ship endpoints
	router.HandleFunc("/api/ships", shipHandler.Create).Methods("POST")
	router.HandleFunc("/api/ships", shipHandler.List).Methods("GET")
	router.HandleFunc("/api/ships/{id}", shipHandler.Get).Methods("GET")
	router.HandleFunc("/api/ships/{id}", shipHandler.Update).Methods("PUT")
	router.HandleFunc("/api/ships/{id}", shipHandler.Delete).Methods("DELETE")

	// Port endpoints
	router.HandleFunc("/api/ports", portHandler.Create).Methods("POST")
	router.HandleFunc("/api/ports", portHandler.List).Methods("GET")
	router.HandleFunc("/api/ports/{id}", portHandler.Get).Methods("GET")
	router.HandleFunc("/api/ports/{id}", portHandler.Update).Methods("PUT")
	router.HandleFunc("/api/ports/{id}", portHandler.Delete).Methods("DELETE")
	router.HandleFunc("/api/ports/{id}/occupancy", portHandler.Occupancy).Methods("GET")

	// Berth assignment endpoints
	router.HandleFunc("/api/berths", berthHandler.Create).Methods("POST")
	router.HandleFunc("/api/berths", berthHandler.List).Methods("GET")
	router.HandleFunc("/api/berths/{id}", berthHandler.Get).Methods("GET")
	router.HandleFunc("/api/berths/{id}", berthHandler.Update).Methods("PUT")
	router.HandleFunc("/api/berths/{id}", berthHandler.Delete).Methods("DELETE")
	router.HandleFunc("/api/berths/{id}/status", berthHandler.UpdateStatus).Methods("PATCH")

	// Voyage plan endpoints
	router.HandleFunc("/api/voyages", voyageHandler.Create).Methods("POST")
	router.HandleFunc("/api/voyages", voyageHandler.List).Methods("GET")
	router.HandleFunc("/api/voyages/{id}", voyageHandler.Get).Methods("GET")
	router.HandleFunc("/api/voyages/{id}", voyageHandler.Update).Methods("PUT")
	router.HandleFunc("/api/voyages/{id}", voyageHandler.Delete).Methods("DELETE")
	router.HandleFunc("/api/voyages/{id}/status", voyageHandler.UpdateStatus).Methods("PATCH")

	// Cargo endpoints (stats route registered before the {id} routes)
	router.HandleFunc("/api/cargo/stats/monthly", cargoHandler.MonthlyStats).Methods("GET")
	router.HandleFunc("/api/cargo", cargoHandler.Create).Methods("POST")
	router.HandleFunc("/api/cargo", cargoHandler.List).Methods("GET")
	router.HandleFunc("/api/cargo/{id}", cargoHandler.Get).Methods("GET")
	router.HandleFunc("/api/cargo/{id}", cargoHandler.Update).Methods("PUT")
	router.HandleFunc("/api/cargo/{id}", cargoHandler.Delete).Methods("DELETE")

	// Warehouse endpoints
	router.HandleFunc("/api/warehouses", warehouseHandler.Create).Methods("POST")
	router.HandleFunc("/api/warehouses", warehouseHandler.List).Methods("GET")
	router.HandleFunc("/api/warehouses/{id}", warehouseHandler.Get).Methods("GET")
	router.HandleFunc("/api/warehouses/{id}", warehouseHandler.Update).Methods("PUT")
	router.HandleFunc("/api/warehouses/{id}", warehouseHandler.Delete).Methods("DELETE")
	router.HandleFunc("/api/warehouses/{id}/usage", warehouseHandler.Usage).Methods("GET")

	// Transport task endpoints
	router.HandleFunc("/api/transport-tasks", taskHandler.Create).Methods("POST")
	router.HandleFunc("/api/transport-tasks", taskHandler.List).Methods("GET")
	router.HandleFunc("/api/transport-tasks/{id}", taskHandler.Get).Methods("GET")
	router.HandleFunc("/api/transport-tasks/{id}", taskHandler.Update).Methods("PUT")
	router.HandleFunc("/api/transport-tasks/{id}", taskHandler.Delete).Methods("DELETE")
	router.HandleFunc("/api/transport-tasks/{id}/status", taskHandler.UpdateStatus).Methods("PATCH")

	return router
}
