package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"piggies_server/models"
	"piggies_server/services"

	"github.com/gorilla/mux"
)

// ProfileController struct
type ProfileController struct {
	ProfileService *services.ProfileService
}

// NewProfileController initializes the profile controller
func NewProfileController(service *services.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: service}
}

// HandleGetProfile - Fetch a profile by the owning user's id
func (c *ProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.ProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to fetch profile for %s: %v", userID, err)
		http.Error(w, `{"error": "Failed to fetch profile"}`, http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.Error(w, `{"error": "Profile not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// HandleUpsertProfile - Create or replace the caller's profile
func (c *ProfileController) HandleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// The path parameter is authoritative for the owning user.
	profile.UserID = mux.Vars(r)["userId"]
	if profile.UserID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	stored, err := c.ProfileService.UpsertProfile(r.Context(), profile)
	if err != nil {
		log.Printf("❌ Failed to store profile for %s: %v", profile.UserID, err)
		http.Error(w, `{"error": "Failed to store profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stored)
}
