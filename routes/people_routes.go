package routes

import (
	"piggies_server/controllers"
	"piggies_server/services"

	"github.com/gorilla/mux"
)

// RegisterPeopleRoutes sets up routes for browsing people under /api/people
func RegisterPeopleRoutes(r *mux.Router, peopleService *services.PeopleService) {
	controller := controllers.NewPeopleController(peopleService)

	peopleRouter := r.PathPrefix("/api/people").Subrouter()
	peopleRouter.HandleFunc("/visible", controller.HandleListVisible).Methods("GET")
	peopleRouter.HandleFunc("/nearby", controller.HandleSearchNearby).Methods("POST")
}
