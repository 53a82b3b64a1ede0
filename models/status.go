package models

// Activity states
const (
	ActivityOnline    = "online"
	ActivityLooking   = "looking"
	ActivityTraveling = "traveling"
	ActivityInvisible = "invisible"
)

// Hosting states
const (
	HostingCanHost         = "canHost"
	HostingCanTravel       = "canTravel"
	HostingCanHostOrTravel = "canHostOrTravel"
	HostingCarPlay         = "carPlay"
	HostingHotelRoom       = "hotelRoom"
	HostingPublicPlace     = "publicPlace"
	HostingNone            = "none"
)

// Status is a user's ephemeral presence record, upserted lazily on the first
// status update. Coordinates are pointers: an absent coordinate means
// "unknown", never (0, 0).
type Status struct {
	UserID                string   `dynamodbav:"userId" json:"userId"`
	ActivityStatus        string   `dynamodbav:"activityStatus,omitempty" json:"activityStatus,omitempty"`
	HostingStatus         string   `dynamodbav:"hostingStatus,omitempty" json:"hostingStatus,omitempty"`
	IsVisible             bool     `dynamodbav:"isVisible" json:"isVisible"`
	IsLocationEnabled     bool     `dynamodbav:"isLocationEnabled" json:"isLocationEnabled"`
	Latitude              *float64 `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude             *float64 `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`
	LocationRandomization float64  `dynamodbav:"locationRandomization" json:"locationRandomization"` // feet
	LastSeen              string   `dynamodbav:"lastSeen,omitempty" json:"lastSeen,omitempty"`
}

// HasCoordinates reports whether the status carries a usable location.
// Coordinates are only meaningful while location sharing is enabled.
func (s *Status) HasCoordinates() bool {
	return s.IsLocationEnabled && s.Latitude != nil && s.Longitude != nil
}

// StatusTable is the DynamoDB table name for presence records
const StatusTable = "Status"
