package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"piggies_server/services"

	"github.com/gorilla/mux"
)

// UserController struct
type UserController struct {
	UserService *services.UserService
}

// NewUserController initializes the user controller
func NewUserController(service *services.UserService) *UserController {
	return &UserController{UserService: service}
}

// HandleEnsureUser - Returns the identity record for an email, creating it on first contact
func (c *UserController) HandleEnsureUser(w http.ResponseWriter, r *http.Request) {
	var request struct {
		EmailID  string `json:"emailId"`
		FullName string `json:"fullName"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if request.EmailID == "" {
		http.Error(w, `{"error": "emailId is required"}`, http.StatusBadRequest)
		return
	}

	user, err := c.UserService.EnsureUser(r.Context(), request.EmailID, request.FullName)
	if err != nil {
		log.Printf("❌ Failed to ensure user: %v", err)
		http.Error(w, `{"error": "Failed to ensure user"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// HandleGetUser - Fetch a user by id
func (c *UserController) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	user, err := c.UserService.GetUser(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to fetch user %s: %v", userID, err)
		http.Error(w, `{"error": "Failed to fetch user"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error": "User not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// HandlePurgeLegacyUsers - Removes malformed legacy user records missing an email
func (c *UserController) HandlePurgeLegacyUsers(w http.ResponseWriter, r *http.Request) {
	purged, err := c.UserService.PurgeLegacyUsers(r.Context())
	if err != nil {
		log.Printf("❌ Failed to purge legacy users: %v", err)
		http.Error(w, `{"error": "Failed to purge legacy users"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"purged": purged})
}
