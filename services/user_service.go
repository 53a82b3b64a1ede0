package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"piggies_server/models"
	"piggies_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type UserService struct {
	Store DocumentStore
}

// GetUser retrieves a user by ID. Returns nil (not an error) when the user
// does not exist, so read paths can skip dangling references.
func (us *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := us.Store.GetItem(ctx, models.UsersTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail looks a user up through the email GSI. Returns nil when no
// user carries the email.
func (us *UserService) GetUserByEmail(ctx context.Context, emailID string) (*models.User, error) {
	keyCondition := "emailId = :emailId"
	expressionValues := map[string]types.AttributeValue{
		":emailId": &types.AttributeValueMemberS{Value: emailID},
	}

	items, err := us.Store.QueryItemsWithIndex(ctx, models.UsersTable, models.UsersByEmailIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(items[0], &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// EnsureUser returns the user with the given email, creating the identity
// record on first contact.
func (us *UserService) EnsureUser(ctx context.Context, emailID, fullName string) (*models.User, error) {
	if emailID == "" {
		return nil, errors.New("emailId is required")
	}

	existing, err := us.GetUserByEmail(ctx, emailID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	user := models.User{
		UserID:    uuid.New().String(),
		EmailID:   emailID,
		FullName:  fullName,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := us.Store.PutItem(ctx, models.UsersTable, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("✅ Created user %s for %s", user.UserID, emailID)
	return &user, nil
}

// PurgeLegacyUsers deletes malformed legacy user records that carry no
// email. Returns the number of records removed.
func (us *UserService) PurgeLegacyUsers(ctx context.Context) (int, error) {
	var orphans []models.User
	err := us.Store.ScanWithFilter(ctx, models.UsersTable, "", nil, nil, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "emailId") == ""
	}, &orphans)
	if err != nil {
		return 0, fmt.Errorf("failed to scan for legacy users: %w", err)
	}

	purged := 0
	for _, orphan := range orphans {
		key := map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: orphan.UserID},
		}
		if err := us.Store.DeleteItem(ctx, models.UsersTable, key); err != nil {
			log.Printf("❌ Failed to delete legacy user %s: %v", orphan.UserID, err)
			continue
		}
		purged++
	}

	log.Printf("🧹 Purged %d legacy user records", purged)
	return purged, nil
}
