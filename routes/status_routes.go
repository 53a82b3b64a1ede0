package routes

import (
	"piggies_server/controllers"
	"piggies_server/services"

	"github.com/gorilla/mux"
)

// RegisterStatusRoutes sets up routes for presence operations under /api/status
func RegisterStatusRoutes(r *mux.Router, statusService *services.StatusService) {
	controller := controllers.NewStatusController(statusService)

	statusRouter := r.PathPrefix("/api/status").Subrouter()
	statusRouter.HandleFunc("", controller.HandleUpdateStatus).Methods("PATCH")
}
