package services

import (
	"context"
	"errors"
	"fmt"

	"piggies_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type ProfileService struct {
	Store DocumentStore
}

// GetProfile retrieves a profile by the owning user's ID. Returns nil when
// the user has not created one yet.
func (ps *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ps.Store.GetItem(ctx, models.ProfilesTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// UpsertProfile writes the full profile record. The table is keyed by
// userId, so concurrent first-writers cannot produce a duplicate profile;
// the later write simply wins.
func (ps *ProfileService) UpsertProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	if profile.UserID == "" {
		return nil, errors.New("userId is required")
	}

	if err := ps.Store.PutItem(ctx, models.ProfilesTable, profile); err != nil {
		return nil, fmt.Errorf("failed to store profile: %w", err)
	}
	return &profile, nil
}
