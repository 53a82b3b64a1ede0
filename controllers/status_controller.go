package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"piggies_server/services"
)

// StatusController struct
type StatusController struct {
	StatusService *services.StatusService
}

// NewStatusController initializes the status controller
func NewStatusController(service *services.StatusService) *StatusController {
	return &StatusController{StatusService: service}
}

// HandleUpdateStatus - Upsert the caller's presence record
func (c *StatusController) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var update services.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if update.UserID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	statusID, err := c.StatusService.UpdateStatus(r.Context(), update)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, `{"error": "User not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Failed to update status for %s: %v", update.UserID, err)
		http.Error(w, `{"error": "Failed to update status"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"statusId": statusID})
}
