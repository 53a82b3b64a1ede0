package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"piggies_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type StatusService struct {
	Store DocumentStore
	Users *UserService
}

// StatusUpdate carries the optional fields of a status patch; nil fields are
// left untouched on the stored record.
type StatusUpdate struct {
	UserID                string   `json:"userId"`
	ActivityStatus        *string  `json:"activityStatus,omitempty"`
	HostingStatus         *string  `json:"hostingStatus,omitempty"`
	IsVisible             *bool    `json:"isVisible,omitempty"`
	IsLocationEnabled     *bool    `json:"isLocationEnabled,omitempty"`
	Latitude              *float64 `json:"latitude,omitempty"`
	Longitude             *float64 `json:"longitude,omitempty"`
	LocationRandomization *float64 `json:"locationRandomization,omitempty"`
}

// UpdateStatus upserts the caller's presence record: patch when it exists,
// create it lazily on the first update. lastSeen is refreshed on every call.
// Fails when the target user record is absent.
func (ss *StatusService) UpdateStatus(ctx context.Context, update StatusUpdate) (string, error) {
	if update.UserID == "" {
		return "", errors.New("userId is required")
	}

	user, err := ss.Users.GetUser(ctx, update.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("%w: %s", ErrUserNotFound, update.UserID)
	}

	fields := map[string]interface{}{
		"lastSeen": time.Now().UTC().Format(time.RFC3339),
	}
	if update.ActivityStatus != nil {
		fields["activityStatus"] = *update.ActivityStatus
	}
	if update.HostingStatus != nil {
		fields["hostingStatus"] = *update.HostingStatus
	}
	if update.IsVisible != nil {
		fields["isVisible"] = *update.IsVisible
	}
	if update.IsLocationEnabled != nil {
		fields["isLocationEnabled"] = *update.IsLocationEnabled
	}
	if update.Latitude != nil {
		fields["latitude"] = *update.Latitude
	}
	if update.Longitude != nil {
		fields["longitude"] = *update.Longitude
	}
	if update.LocationRandomization != nil {
		fields["locationRandomization"] = *update.LocationRandomization
	}

	setClauses := make([]string, 0, len(fields))
	expressionValues := make(map[string]types.AttributeValue, len(fields))
	expressionNames := make(map[string]string, len(fields))
	for name, value := range fields {
		marshaled, err := attributevalue.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("failed to marshal status field %s: %w", name, err)
		}
		setClauses = append(setClauses, "#"+name+" = :"+name)
		expressionValues[":"+name] = marshaled
		expressionNames["#"+name] = name
	}
	updateExpression := "SET " + strings.Join(setClauses, ", ")

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: update.UserID},
	}
	if _, err := ss.Store.UpdateItem(ctx, models.StatusTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		return "", fmt.Errorf("failed to update status: %w", err)
	}

	// One status per user, so the user id doubles as the status id.
	return update.UserID, nil
}

// GetStatus retrieves a user's presence record. Returns nil when the user
// has never updated their status.
func (ss *StatusService) GetStatus(ctx context.Context, userID string) (*models.Status, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ss.Store.GetItem(ctx, models.StatusTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var status models.Status
	if err := attributevalue.UnmarshalMap(item, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}
	return &status, nil
}
