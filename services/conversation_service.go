package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"piggies_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ErrSelfConversation rejects operations that would pair a user with
// themselves.
var ErrSelfConversation = errors.New("cannot start a conversation with yourself")

type ConversationService struct {
	Store DocumentStore
}

// GetOrCreateConversation returns the id of the two-party thread for the
// given participants, creating it on first contact. The pair is sorted
// before lookup, so argument order never matters, and creation goes through
// a conditional write keyed on the pair, so concurrent first-contact sends
// from both sides converge on one thread.
func (cs *ConversationService) GetOrCreateConversation(ctx context.Context, userA, userB string) (string, error) {
	if userA == "" || userB == "" {
		return "", errors.New("both participant ids are required")
	}
	if userA == userB {
		return "", ErrSelfConversation
	}

	pairKey := models.PairKey(userA, userB)
	key := map[string]types.AttributeValue{
		"participantPairKey": &types.AttributeValueMemberS{Value: pairKey},
	}

	item, err := cs.Store.GetItem(ctx, models.ConversationsTable, key)
	if err == nil {
		var existing models.Conversation
		if err := attributevalue.UnmarshalMap(item, &existing); err != nil {
			return "", fmt.Errorf("failed to unmarshal conversation: %w", err)
		}
		return existing.ConversationID, nil
	}
	if !errors.Is(err, ErrItemNotFound) {
		return "", err
	}

	one, two := userA, userB
	if two < one {
		one, two = two, one
	}
	conversation := models.Conversation{
		ParticipantPairKey: pairKey,
		ConversationID:     uuid.New().String(),
		ParticipantOneID:   one,
		ParticipantTwoID:   two,
		LastMessageTime:    time.Now().UTC().Format(time.RFC3339),
	}

	err = cs.Store.PutItemIfAbsent(ctx, models.ConversationsTable, conversation, "participantPairKey")
	if err == nil {
		log.Printf("💬 Created conversation %s for pair %s", conversation.ConversationID, pairKey)
		return conversation.ConversationID, nil
	}
	if !errors.Is(err, ErrItemExists) {
		return "", err
	}

	// Lost the creation race; the winner's record is authoritative.
	item, err = cs.Store.GetItem(ctx, models.ConversationsTable, key)
	if err != nil {
		return "", err
	}
	var winner models.Conversation
	if err := attributevalue.UnmarshalMap(item, &winner); err != nil {
		return "", fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return winner.ConversationID, nil
}

// SendMessage appends a message between two users, creating their
// conversation on first contact, and advances the conversation's
// last-message pointer. Returns the new message's id.
func (cs *ConversationService) SendMessage(ctx context.Context, senderID, receiverID, content, format, attachmentKey string) (string, error) {
	if format == "" {
		format = models.FormatText
	}
	switch format {
	case models.FormatText:
		if content == "" {
			return "", errors.New("content is required for text messages")
		}
	case models.FormatImage, models.FormatVideo:
		if attachmentKey == "" {
			return "", errors.New("attachmentKey is required for media messages")
		}
	default:
		return "", fmt.Errorf("unknown message format: %s", format)
	}

	conversationID, err := cs.GetOrCreateConversation(ctx, senderID, receiverID)
	if err != nil {
		return "", err
	}

	message := models.Message{
		ConversationID: conversationID,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339Nano),
		MessageID:      uuid.New().String(),
		SenderID:       senderID,
		Content:        content,
		Format:         format,
		AttachmentKey:  attachmentKey,
		ReadBy:         []string{senderID},
	}
	if err := cs.Store.PutItem(ctx, models.MessagesTable, message); err != nil {
		return "", fmt.Errorf("failed to store message: %w", err)
	}

	// The pointer patch is a separate write. If it fails the message is
	// still listable; only the conversation preview goes stale.
	pairKey := models.PairKey(senderID, receiverID)
	key := map[string]types.AttributeValue{
		"participantPairKey": &types.AttributeValueMemberS{Value: pairKey},
	}
	updateExpression := "SET #lastMessageId = :lastMessageId, #lastMessageTime = :lastMessageTime"
	expressionValues := map[string]types.AttributeValue{
		":lastMessageId":   &types.AttributeValueMemberS{Value: message.MessageID},
		":lastMessageTime": &types.AttributeValueMemberS{Value: message.CreatedAt},
	}
	expressionNames := map[string]string{
		"#lastMessageId":   "lastMessageId",
		"#lastMessageTime": "lastMessageTime",
	}
	if _, err := cs.Store.UpdateItem(ctx, models.ConversationsTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		log.Printf("⚠️ Message %s stored but last-message pointer not updated: %v", message.MessageID, err)
	}

	return message.MessageID, nil
}

// GetConversation retrieves a conversation by the participant pair. Returns
// nil when the two users have never messaged each other.
func (cs *ConversationService) GetConversation(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	key := map[string]types.AttributeValue{
		"participantPairKey": &types.AttributeValueMemberS{Value: models.PairKey(userA, userB)},
	}

	item, err := cs.Store.GetItem(ctx, models.ConversationsTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var conversation models.Conversation
	if err := attributevalue.UnmarshalMap(item, &conversation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conversation, nil
}
