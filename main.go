package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"piggies_server/routes"
	"piggies_server/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env when present; real deployments rely on the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize S3 service for avatar/attachment URLs
	s3Service := &services.S3Service{
		Client: services.InitializeS3Client(),
		Bucket: os.Getenv("S3_BUCKET_NAME"),
	}

	// Initialize Services
	userService := &services.UserService{Store: dynamoService}
	profileService := &services.ProfileService{Store: dynamoService}
	statusService := &services.StatusService{Store: dynamoService, Users: userService}
	peopleService := &services.PeopleService{
		Store:       dynamoService,
		Users:       userService,
		Profiles:    profileService,
		Attachments: s3Service,
	}
	conversationService := &services.ConversationService{Store: dynamoService}
	messageService := &services.MessageService{
		Store:       dynamoService,
		Users:       userService,
		Profiles:    profileService,
		Attachments: s3Service,
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Piggies")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterUserRoutes(r, userService)
	routes.RegisterProfileRoutes(r, profileService)
	routes.RegisterStatusRoutes(r, statusService)
	routes.RegisterPeopleRoutes(r, peopleService)
	routes.RegisterChatRoutes(r, conversationService, messageService)
	routes.RegisterS3Routes(r, s3Service)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
