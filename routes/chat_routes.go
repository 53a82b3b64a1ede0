package routes

import (
	"piggies_server/controllers"
	"piggies_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for chat-related operations under /api/chat
func RegisterChatRoutes(r *mux.Router, conversationService *services.ConversationService, messageService *services.MessageService) {
	controller := controllers.NewChatController(conversationService, messageService)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.HandleFunc("/conversation", controller.HandleGetOrCreateConversation).Methods("POST")
	chatRouter.HandleFunc("/message", controller.HandleSendMessage).Methods("POST")
	chatRouter.HandleFunc("/messages", controller.HandleListMessages).Methods("GET")
	chatRouter.HandleFunc("/messages/mark-read", controller.HandleMarkMessagesRead).Methods("POST")
}
