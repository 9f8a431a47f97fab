package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"teamup_server/routes"
	"teamup_server/services"
	"teamup_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and the shared store
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	store := &services.DynamoStore{Dynamo: dynamoService}
	log.Println("DynamoDB client initialized.")

	// External collaborators of the review pipeline
	githubService := &services.GitHubService{Token: os.Getenv("GITHUB_TOKEN")}
	aiService := &services.OpenAIService{
		APIKey: os.Getenv("OPENAI_API_KEY"),
		Model:  openAIModel(),
	}

	// Initialize Services
	projectService := &services.ProjectService{Dynamo: dynamoService}
	participantService := &services.ParticipantService{Store: store}
	chatService := &services.ChatService{Dynamo: dynamoService}
	reviewService := &services.ReviewService{
		Store:     store,
		Projects:  projectService,
		Artifacts: githubService,
		AI:        aiService,
	}
	if archive := services.NewArtifactArchiveFromEnv(); archive != nil {
		reviewService.Archive = archive
	}
	matchmakingService := &services.MatchmakingService{
		Participants: store,
		Matches:      store,
		Projects:     projectService,
		Reviews:      reviewService,
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
		fmt.Fprintln(w, "Welcome to TeamUp")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterParticipantRoutes(r, participantService)
	routes.RegisterMatchmakingRoutes(r, matchmakingService)
	routes.RegisterChatRoutes(r, chatService)

	// Socket.IO server for live conversation delivery
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("Socket server stopped: %v", err)
		}
	}()
	defer socketServer.Close()
	r.Handle("/socket.io/", socketServer)

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

func openAIModel() string {
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		return model
	}
	return "gpt-4o-mini"
}
