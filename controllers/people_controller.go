package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"piggies_server/services"
)

// PeopleController struct
type PeopleController struct {
	PeopleService *services.PeopleService
}

// NewPeopleController initializes the people controller
func NewPeopleController(service *services.PeopleService) *PeopleController {
	return &PeopleController{PeopleService: service}
}

// HandleListVisible - List every visible profile, most recently seen first
func (c *PeopleController) HandleListVisible(w http.ResponseWriter, r *http.Request) {
	people, err := c.PeopleService.ListVisibleProfiles(r.Context())
	if err != nil {
		log.Printf("❌ Failed to list visible profiles: %v", err)
		http.Error(w, `{"error": "Failed to list visible profiles"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(people)
}

// HandleSearchNearby - Run the filtered, distance-sorted nearby search
func (c *PeopleController) HandleSearchNearby(w http.ResponseWriter, r *http.Request) {
	var query services.NearbyQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	people, err := c.PeopleService.SearchNearby(r.Context(), query)
	if err != nil {
		log.Printf("❌ Nearby search failed: %v", err)
		http.Error(w, `{"error": "Failed to search nearby people"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(people)
}
