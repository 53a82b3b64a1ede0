package models

// Message formats
const (
	FormatText  = "text"
	FormatImage = "image"
	FormatVideo = "video"
)

// Message belongs to exactly one conversation. CreatedAt is the sort key
// (RFC3339Nano keeps concurrent sends distinct). Messages are append-only;
// only ReadBy is ever mutated.
type Message struct {
	ConversationID string   `dynamodbav:"conversationId" json:"conversationId"`
	CreatedAt      string   `dynamodbav:"createdAt" json:"createdAt"`
	MessageID      string   `dynamodbav:"messageId" json:"messageId"`
	SenderID       string   `dynamodbav:"senderId" json:"senderId"`
	Content        string   `dynamodbav:"content,omitempty" json:"content,omitempty"`
	Format         string   `dynamodbav:"format" json:"format"`
	AttachmentKey  string   `dynamodbav:"attachmentKey,omitempty" json:"attachmentKey,omitempty"`
	ReadBy         []string `dynamodbav:"readBy,omitempty" json:"readBy,omitempty"`
}

// ReadByUser reports whether userID has already seen the message.
func (m *Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// MessagesTable is the DynamoDB table name for messages
const MessagesTable = "Messages"
