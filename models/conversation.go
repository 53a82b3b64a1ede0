package models

// Conversation is a two-party message thread. The table is keyed by the
// sorted participant pair, so lookups are order-independent and a conditional
// put can guarantee at most one thread per pair.
type Conversation struct {
	ParticipantPairKey string `dynamodbav:"participantPairKey" json:"participantPairKey"`
	ConversationID     string `dynamodbav:"conversationId" json:"conversationId"`
	ParticipantOneID   string `dynamodbav:"participantOneId" json:"participantOneId"`
	ParticipantTwoID   string `dynamodbav:"participantTwoId" json:"participantTwoId"`
	LastMessageID      string `dynamodbav:"lastMessageId,omitempty" json:"lastMessageId,omitempty"`
	LastMessageTime    string `dynamodbav:"lastMessageTime,omitempty" json:"lastMessageTime,omitempty"`
}

// ConversationsTable is the DynamoDB table name for conversations
const ConversationsTable = "Conversations"

// PairKey returns the order-independent lookup key for a participant pair.
func PairKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + "#" + userB
}
