package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"piggies_server/services"
	"strconv"
)

// ChatController struct
type ChatController struct {
	Conversations *services.ConversationService
	Messages      *services.MessageService
}

// NewChatController initializes the chat controller
func NewChatController(conversations *services.ConversationService, messages *services.MessageService) *ChatController {
	return &ChatController{Conversations: conversations, Messages: messages}
}

// HandleGetOrCreateConversation - Resolve the thread id for a participant pair
func (c *ChatController) HandleGetOrCreateConversation(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ParticipantOneID string `json:"participantOneId"`
		ParticipantTwoID string `json:"participantTwoId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	conversationID, err := c.Conversations.GetOrCreateConversation(r.Context(), request.ParticipantOneID, request.ParticipantTwoID)
	if err != nil {
		if errors.Is(err, services.ErrSelfConversation) {
			http.Error(w, `{"error": "Cannot start a conversation with yourself"}`, http.StatusBadRequest)
			return
		}
		log.Printf("❌ Failed to resolve conversation: %v", err)
		http.Error(w, `{"error": "Failed to resolve conversation"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"conversationId": conversationID})
}

// HandleSendMessage - Handles sending a new message
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SenderID      string `json:"senderId"`
		ReceiverID    string `json:"receiverId"`
		Content       string `json:"content"`
		Format        string `json:"format"`
		AttachmentKey string `json:"attachmentKey"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if request.SenderID == "" || request.ReceiverID == "" {
		http.Error(w, `{"error": "Missing required fields: senderId, receiverId"}`, http.StatusBadRequest)
		return
	}

	messageID, err := c.Conversations.SendMessage(r.Context(), request.SenderID, request.ReceiverID, request.Content, request.Format, request.AttachmentKey)
	if err != nil {
		if errors.Is(err, services.ErrSelfConversation) {
			http.Error(w, `{"error": "Cannot message yourself"}`, http.StatusBadRequest)
			return
		}
		log.Printf("❌ Failed to send message: %v", err)
		http.Error(w, `{"error": "Failed to send message"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"messageId": messageID})
}

// HandleListMessages - Fetch one newest-first page of a conversation's messages
func (c *ChatController) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := r.URL.Query().Get("conversationId")
	if conversationID == "" {
		http.Error(w, `{"error": "conversationId is required"}`, http.StatusBadRequest)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	page, err := c.Messages.ListMessages(r.Context(), conversationID, services.MessagePageRequest{
		Limit:  int32(limit),
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		log.Printf("❌ Failed to list messages for %s: %v", conversationID, err)
		http.Error(w, `{"error": "Failed to list messages"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}

// HandleMarkMessagesRead - Mark messages received by user as read
func (c *ChatController) HandleMarkMessagesRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		UserID         string `json:"userId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	marked, err := c.Messages.MarkMessagesRead(r.Context(), request.ConversationID, request.UserID)
	if err != nil {
		log.Printf("❌ Failed to mark messages as read: %v", err)
		http.Error(w, `{"error": "Failed to mark messages as read"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"marked": marked})
}
