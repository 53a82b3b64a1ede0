package routes

import (
	"piggies_server/controllers"
	"piggies_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes sets up routes for identity operations under /api/users
func RegisterUserRoutes(r *mux.Router, userService *services.UserService) {
	controller := controllers.NewUserController(userService)

	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.HandleFunc("/ensure", controller.HandleEnsureUser).Methods("POST")
	userRouter.HandleFunc("/purge-legacy", controller.HandlePurgeLegacyUsers).Methods("POST")
	userRouter.HandleFunc("/{userId}", controller.HandleGetUser).Methods("GET")
}
