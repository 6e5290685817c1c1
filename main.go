package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"marketplace-project/backend/handlers"
	"marketplace-project/backend/logging"
	"marketplace-project/backend/middleware"
	"marketplace-project/backend/repositories"
	"marketplace-project/backend/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Marketplace Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)

	taskRepo := repositories.NewTaskRepository(db)
	bidRepo := repositories.NewBidRepository(db)
	userRepo := repositories.NewUserRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	paymentRepo := repositories.NewPaymentOrderRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	gatewayBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "PaymentGatewayCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	razorpayKeyID := os.Getenv("RAZORPAY_KEY_ID")
	razorpayKeySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	razorpayAPIURL := os.Getenv("RAZORPAY_API_URL")
	if razorpayAPIURL == "" {
		razorpayAPIURL = "https://api.razorpay.com"
	}
	gateway := services.NewRazorpayClient(razorpayAPIURL, razorpayKeyID, razorpayKeySecret, &http.Client{Timeout: 10 * time.Second}, gatewayBreaker)

	userService := services.NewUserService(userRepo, walletRepo, taskRepo, bidRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)
	bidService := services.NewBidService(bidRepo, taskRepo, userRepo)
	aiService := services.NewAIService(bidRepo, taskRepo, userRepo)
	walletService := services.NewWalletService(walletRepo)
	paymentService := services.NewPaymentService(paymentRepo, bidRepo, taskRepo, walletRepo, gateway, razorpayKeyID, razorpayKeySecret)
	reviewService := services.NewReviewService(reviewRepo, taskRepo, userRepo)
	dashboardService := services.NewDashboardService(taskRepo, bidRepo, userRepo, walletRepo, paymentRepo)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	bidHandler := handlers.NewBidHandler(bidService)
	aiHandler := handlers.NewAIHandler(aiService)
	walletHandler := handlers.NewWalletHandler(walletService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	r := mux.NewRouter()

	// Public routes.
	r.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/open", taskHandler.GetOpenTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/search", taskHandler.SearchTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/category/{category}", taskHandler.GetTasksByCategory).Methods(http.MethodGet)
	r.HandleFunc("/api/categories", taskHandler.GetCategories).Methods(http.MethodGet)
	r.HandleFunc("/api/dashboard/platform-stats", dashboardHandler.GetPlatformStats).Methods(http.MethodGet)

	// Authenticated routes.
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(middleware.JWTAuthMiddleware)

	protected.HandleFunc("/auth/verify", authHandler.Verify).Methods(http.MethodGet)

	protected.HandleFunc("/api/users/profile", userHandler.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/api/users/profile", userHandler.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/api/users/change-password", userHandler.ChangePassword).Methods(http.MethodPut)
	protected.HandleFunc("/api/users/profile/stats", userHandler.GetStats).Methods(http.MethodGet)
	protected.HandleFunc("/api/users/search", userHandler.SearchUsers).Methods(http.MethodGet)
	protected.HandleFunc("/api/users/top-rated", userHandler.GetTopRated).Methods(http.MethodGet)
	protected.HandleFunc("/api/users/{id}", userHandler.GetUserByID).Methods(http.MethodGet)

	protected.HandleFunc("/api/tasks/create", taskHandler.CreateTask).Methods(http.MethodPost)
	protected.HandleFunc("/api/tasks/my-tasks", taskHandler.GetMyTasks).Methods(http.MethodGet)
	protected.HandleFunc("/api/tasks/assigned-to-me", taskHandler.GetAssignedTasks).Methods(http.MethodGet)
	protected.HandleFunc("/api/tasks/{id}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	protected.HandleFunc("/api/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	protected.HandleFunc("/api/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	protected.HandleFunc("/api/tasks/{id}/start", taskHandler.StartTask).Methods(http.MethodPut)
	protected.HandleFunc("/api/tasks/{id}/complete", taskHandler.CompleteTask).Methods(http.MethodPut)

	protected.HandleFunc("/api/bids/place", bidHandler.PlaceBid).Methods(http.MethodPost)
	protected.HandleFunc("/api/bids/my-bids", bidHandler.GetMyBids).Methods(http.MethodGet)
	protected.HandleFunc("/api/bids/task/{taskId}", bidHandler.GetBidsForTask).Methods(http.MethodGet)
	protected.HandleFunc("/api/bids/accept/{id}", bidHandler.AcceptBid).Methods(http.MethodPost)
	protected.HandleFunc("/api/bids/reject/{id}", bidHandler.RejectBid).Methods(http.MethodPost)
	protected.HandleFunc("/api/bids/{id}", bidHandler.DeleteBid).Methods(http.MethodDelete)

	protected.HandleFunc("/api/ai/rank-bids/{taskId}", aiHandler.RankBids).Methods(http.MethodPost)

	protected.HandleFunc("/api/wallet", walletHandler.GetWallet).Methods(http.MethodGet)
	protected.HandleFunc("/api/wallet/add-money", walletHandler.AddMoney).Methods(http.MethodPost)

	protected.HandleFunc("/api/payment/create-order", paymentHandler.CreateOrder).Methods(http.MethodPost)
	protected.HandleFunc("/api/payment/verify", paymentHandler.VerifyPayment).Methods(http.MethodPost)

	protected.HandleFunc("/api/reviews/submit", reviewHandler.SubmitReview).Methods(http.MethodPost)
	protected.HandleFunc("/api/reviews/user/{userId}", reviewHandler.GetReviewsForUser).Methods(http.MethodGet)
	protected.HandleFunc("/api/reviews/task/{taskId}", reviewHandler.GetReviewsForTask).Methods(http.MethodGet)
	protected.HandleFunc("/api/reviews/{id}", reviewHandler.DeleteReview).Methods(http.MethodDelete)

	protected.HandleFunc("/api/dashboard/stats", dashboardHandler.GetUserDashboard).Methods(http.MethodGet)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
