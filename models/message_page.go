package models

// MessageView is a message annotated with the sender's display data and, for
// media formats, a resolved temporary download URL.
type MessageView struct {
	Message
	SenderName            string `json:"senderName,omitempty"`
	SenderAvatarURL       string `json:"senderAvatarUrl,omitempty"`
	AttachmentURL         string `json:"attachmentUrl,omitempty"`
	AttachmentUnavailable bool   `json:"attachmentUnavailable,omitempty"`
}

// MessagePage is one page of a reverse-chronological message listing.
// Exhaustion is signaled by IsDone, never by an empty page.
type MessagePage struct {
	Messages       []MessageView `json:"messages"`
	IsDone         bool          `json:"isDone"`
	ContinueCursor string        `json:"continueCursor,omitempty"`
}
