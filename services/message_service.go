package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"piggies_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// messageKeyAttributes is the Messages table key schema, used to build
// continuation cursors.
var messageKeyAttributes = []string{"conversationId", "createdAt"}

type MessageService struct {
	Store       DocumentStore
	Users       *UserService
	Profiles    *ProfileService
	Attachments AttachmentResolver
}

// MessagePageRequest selects one page of a conversation's messages. Cursor
// is the ContinueCursor of the previous page, empty for the first one.
type MessagePageRequest struct {
	Limit  int32
	Cursor string
}

// ListMessages fetches one newest-first page of a conversation's messages,
// annotated with sender display data and resolved attachment URLs. Every
// call is stateless and idempotent for a given cursor. Annotation failures
// degrade per item and never fail the page.
func (ms *MessageService) ListMessages(ctx context.Context, conversationID string, request MessagePageRequest) (*models.MessagePage, error) {
	if conversationID == "" {
		return nil, errors.New("conversationId is required")
	}

	limit := request.Limit
	if limit <= 0 {
		limit = 50
	}

	var startKey map[string]types.AttributeValue
	if request.Cursor != "" {
		decoded, err := decodeCursor(request.Cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", err)
		}
		startKey = decoded
	}

	keyCondition := "#conversationId = :conversationId"
	expressionValues := map[string]types.AttributeValue{
		":conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	expressionNames := map[string]string{
		"#conversationId": "conversationId",
	}

	items, nextKey, err := ms.Store.QueryItemsPaginated(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, limit, false, startKey, messageKeyAttributes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	senderCache := make(map[string]senderDisplay)
	views := make([]models.MessageView, 0, len(messages))
	for _, message := range messages {
		view := models.MessageView{Message: message}

		sender, ok := senderCache[message.SenderID]
		if !ok {
			sender = ms.resolveSender(ctx, message.SenderID)
			senderCache[message.SenderID] = sender
		}
		view.SenderName = sender.name
		view.SenderAvatarURL = sender.avatarURL

		if (message.Format == models.FormatImage || message.Format == models.FormatVideo) && message.AttachmentKey != "" {
			if ms.Attachments == nil {
				view.AttachmentUnavailable = true
			} else if url, err := ms.Attachments.GenerateReadURL(ctx, message.AttachmentKey); err != nil {
				log.Printf("⚠️ Failed to resolve attachment %s: %v", message.AttachmentKey, err)
				view.AttachmentUnavailable = true
			} else {
				view.AttachmentURL = url
			}
		}

		views = append(views, view)
	}

	page := &models.MessagePage{
		Messages: views,
		IsDone:   nextKey == nil,
	}
	if nextKey != nil {
		cursor, err := encodeCursor(nextKey)
		if err != nil {
			return nil, err
		}
		page.ContinueCursor = cursor
	}
	return page, nil
}

// MarkMessagesRead appends the reader to the read-by set of every message in
// the conversation they did not send. Returns how many messages were newly
// marked.
func (ms *MessageService) MarkMessagesRead(ctx context.Context, conversationID, readerID string) (int, error) {
	if conversationID == "" || readerID == "" {
		return 0, errors.New("conversationId and userId are required")
	}

	keyCondition := "#conversationId = :conversationId"
	expressionValues := map[string]types.AttributeValue{
		":conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	expressionNames := map[string]string{
		"#conversationId": "conversationId",
	}

	marked := 0
	var startKey map[string]types.AttributeValue
	for {
		items, nextKey, err := ms.Store.QueryItemsPaginated(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, 100, true, startKey, messageKeyAttributes)
		if err != nil {
			return marked, fmt.Errorf("failed to fetch messages: %w", err)
		}

		var messages []models.Message
		if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
			return marked, fmt.Errorf("failed to parse messages: %w", err)
		}

		for _, message := range messages {
			if message.SenderID == readerID || message.ReadByUser(readerID) {
				continue
			}

			readBy, err := attributevalue.Marshal(append(message.ReadBy, readerID))
			if err != nil {
				return marked, fmt.Errorf("failed to marshal readBy: %w", err)
			}

			key := map[string]types.AttributeValue{
				"conversationId": &types.AttributeValueMemberS{Value: message.ConversationID},
				"createdAt":      &types.AttributeValueMemberS{Value: message.CreatedAt},
			}
			_, err = ms.Store.UpdateItem(ctx, models.MessagesTable, "SET #readBy = :readBy", key,
				map[string]types.AttributeValue{":readBy": readBy},
				map[string]string{"#readBy": "readBy"})
			if err != nil {
				log.Printf("❌ Failed to mark message %s as read: %v", message.MessageID, err)
				continue
			}
			marked++
		}

		if nextKey == nil {
			return marked, nil
		}
		startKey = nextKey
	}
}

type senderDisplay struct {
	name      string
	avatarURL string
}

// resolveSender joins the sender's display name and avatar, profile values
// overriding the identity record. A vanished sender degrades to empty
// display data rather than failing the listing.
func (ms *MessageService) resolveSender(ctx context.Context, senderID string) senderDisplay {
	display := senderDisplay{}

	user, err := ms.Users.GetUser(ctx, senderID)
	if err != nil || user == nil {
		return display
	}
	display.name = user.FullName
	avatarKey := user.AvatarKey

	profile, err := ms.Profiles.GetProfile(ctx, senderID)
	if err == nil && profile != nil {
		if profile.DisplayName != "" {
			display.name = profile.DisplayName
		}
		if profile.AvatarKey != "" {
			avatarKey = profile.AvatarKey
		}
	}

	if avatarKey != "" && ms.Attachments != nil {
		if url, err := ms.Attachments.GenerateReadURL(ctx, avatarKey); err == nil {
			display.avatarURL = url
		}
	}
	return display
}

// Cursors are the page boundary key, JSON-encoded then base64url-encoded so
// clients can treat them as opaque strings.

func encodeCursor(key map[string]types.AttributeValue) (string, error) {
	flat := make(map[string]string, len(key))
	for name, value := range key {
		stringValue, ok := value.(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("unsupported cursor attribute type for %s", name)
		}
		flat[name] = stringValue.Value
	}
	raw, err := json.Marshal(flat)
	if err != nil {
		return "", fmt.Errorf("failed to encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, err
	}
	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	key := make(map[string]types.AttributeValue, len(flat))
	for name, value := range flat {
		key[name] = &types.AttributeValueMemberS{Value: value}
	}
	return key, nil
}
