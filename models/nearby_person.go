package models

// NearbyPerson is the candidate summary returned from visible-profile
// listings and nearby searches. Distance is in miles and nil when either
// party has no usable location.
type NearbyPerson struct {
	UserID         string   `json:"userId"`
	Name           string   `json:"name"`
	AvatarURL      string   `json:"avatarUrl,omitempty"`
	Description    string   `json:"description,omitempty"`
	ActivityStatus string   `json:"activityStatus,omitempty"`
	HostingStatus  string   `json:"hostingStatus,omitempty"`
	LastSeen       string   `json:"lastSeen,omitempty"`
	Distance       *float64 `json:"distance,omitempty"`
}
