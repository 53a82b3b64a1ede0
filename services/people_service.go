package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"piggies_server/models"
	"piggies_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// OnlineWindow is how recent lastSeen must be for a user to count as online.
const OnlineWindow = 5 * time.Minute

type PeopleService struct {
	Store       DocumentStore
	Users       *UserService
	Profiles    *ProfileService
	Attachments AttachmentResolver
}

// NearbyQuery is a nearby-people search request. Latitude/Longitude are the
// viewer's true coordinates (nil when the viewer shares no location, in
// which case every distance is unknown). MaxDistance is in miles.
type NearbyQuery struct {
	ViewerID    string   `json:"viewerId,omitempty"`
	SearchTerm  string   `json:"searchTerm,omitempty"`
	OnlineOnly  bool     `json:"onlineOnly,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	MaxDistance *float64 `json:"maxDistance,omitempty"`
}

// visibleCandidate pairs the presentation summary with the status record it
// was built from, so the nearby assembler can still reach the candidate's
// coordinates and obfuscation radius.
type visibleCandidate struct {
	person   models.NearbyPerson
	status   models.Status
	userName string
}

// ListVisibleProfiles returns every visible profile ordered by recency of
// last-seen, with display data joined from the profile (falling back to the
// identity record).
func (ps *PeopleService) ListVisibleProfiles(ctx context.Context) ([]models.NearbyPerson, error) {
	candidates, err := ps.fetchVisible(ctx)
	if err != nil {
		return nil, err
	}

	people := make([]models.NearbyPerson, 0, len(candidates))
	for _, candidate := range candidates {
		people = append(people, candidate.person)
	}
	return people, nil
}

// SearchNearby runs the nearby-people pipeline: fetch visible candidates,
// apply the text and online filters, obfuscate both parties' coordinates
// independently, compute distances, apply the radius cutoff, and sort by
// distance ascending with unknown-distance entries last in their original
// relative order.
func (ps *PeopleService) SearchNearby(ctx context.Context, query NearbyQuery) ([]models.NearbyPerson, error) {
	candidates, err := ps.fetchVisible(ctx)
	if err != nil {
		return nil, err
	}
	visibleCount := len(candidates)

	if query.SearchTerm != "" {
		term := strings.ToLower(query.SearchTerm)
		filtered := candidates[:0]
		for _, candidate := range candidates {
			if strings.Contains(strings.ToLower(candidate.person.Name), term) ||
				strings.Contains(strings.ToLower(candidate.userName), term) ||
				strings.Contains(strings.ToLower(candidate.person.Description), term) {
				filtered = append(filtered, candidate)
			}
		}
		candidates = filtered
	}

	if query.OnlineOnly {
		filtered := candidates[:0]
		for _, candidate := range candidates {
			if isOnline(candidate.status.LastSeen) {
				filtered = append(filtered, candidate)
			}
		}
		candidates = filtered
	}

	if query.Latitude != nil && query.Longitude != nil {
		viewerRadius := 0.0
		if query.ViewerID != "" {
			viewerKey := map[string]types.AttributeValue{
				"userId": &types.AttributeValueMemberS{Value: query.ViewerID},
			}
			if item, err := ps.Store.GetItem(ctx, models.StatusTable, viewerKey); err == nil {
				viewerRadius = extractRandomization(item)
			}
		}
		viewerLat, viewerLon := utils.ObfuscateCoordinate(*query.Latitude, *query.Longitude, viewerRadius)

		for i := range candidates {
			status := &candidates[i].status
			if !status.HasCoordinates() {
				continue
			}
			candidateLat, candidateLon := utils.ObfuscateCoordinate(*status.Latitude, *status.Longitude, status.LocationRandomization)
			distance := utils.CalculateDistance(viewerLat, viewerLon, candidateLat, candidateLon, utils.UnitMiles)
			candidates[i].person.Distance = &distance
		}
	}

	if query.MaxDistance != nil {
		// A radius query asks for people provably within the radius, so
		// candidates whose distance is unknown are excluded too.
		filtered := candidates[:0]
		for _, candidate := range candidates {
			if candidate.person.Distance != nil && *candidate.person.Distance <= *query.MaxDistance {
				filtered = append(filtered, candidate)
			}
		}
		candidates = filtered
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].person.Distance, candidates[j].person.Distance
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})

	people := make([]models.NearbyPerson, 0, len(candidates))
	for _, candidate := range candidates {
		if query.ViewerID != "" && candidate.person.UserID == query.ViewerID {
			continue
		}
		people = append(people, candidate.person)
	}

	log.Printf("🔍 Nearby search returned %d of %d visible candidates", len(people), visibleCount)
	return people, nil
}

// fetchVisible scans the status table for visible records, newest lastSeen
// first, and joins display data. Records whose owning user is gone are
// skipped rather than surfaced as errors.
func (ps *PeopleService) fetchVisible(ctx context.Context) ([]visibleCandidate, error) {
	filterExpression := "#isVisible = :isVisible"
	expressionValues := map[string]types.AttributeValue{
		":isVisible": &types.AttributeValueMemberBOOL{Value: true},
	}
	expressionNames := map[string]string{
		"#isVisible": "isVisible",
	}

	var statuses []models.Status
	if err := ps.Store.ScanWithFilter(ctx, models.StatusTable, filterExpression, expressionValues, expressionNames, nil, &statuses); err != nil {
		return nil, fmt.Errorf("failed to fetch visible statuses: %w", err)
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].LastSeen > statuses[j].LastSeen
	})

	candidates := make([]visibleCandidate, 0, len(statuses))
	for _, status := range statuses {
		user, err := ps.Users.GetUser(ctx, status.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			continue // owning user deleted
		}

		profile, err := ps.Profiles.GetProfile(ctx, status.UserID)
		if err != nil {
			return nil, err
		}

		name := user.FullName
		description := ""
		avatarKey := user.AvatarKey
		if profile != nil {
			if profile.DisplayName != "" {
				name = profile.DisplayName
			}
			description = profile.Description
			if profile.AvatarKey != "" {
				avatarKey = profile.AvatarKey
			}
		}

		avatarURL := ""
		if avatarKey != "" && ps.Attachments != nil {
			url, err := ps.Attachments.GenerateReadURL(ctx, avatarKey)
			if err != nil {
				log.Printf("⚠️ Failed to resolve avatar for %s: %v", status.UserID, err)
			} else {
				avatarURL = url
			}
		}

		candidates = append(candidates, visibleCandidate{
			person: models.NearbyPerson{
				UserID:         status.UserID,
				Name:           name,
				AvatarURL:      avatarURL,
				Description:    description,
				ActivityStatus: status.ActivityStatus,
				HostingStatus:  status.HostingStatus,
				LastSeen:       status.LastSeen,
			},
			status:   status,
			userName: user.FullName,
		})
	}

	return candidates, nil
}

func isOnline(lastSeen string) bool {
	if lastSeen == "" {
		return false
	}
	seen, err := time.Parse(time.RFC3339, lastSeen)
	if err != nil {
		return false
	}
	return time.Since(seen) <= OnlineWindow
}

func extractRandomization(item map[string]types.AttributeValue) float64 {
	if attr, ok := item["locationRandomization"]; ok {
		if number, ok := attr.(*types.AttributeValueMemberN); ok {
			if radius, err := strconv.ParseFloat(number.Value, 64); err == nil {
				return radius
			}
		}
	}
	return 0
}
