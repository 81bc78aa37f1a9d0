package container

import (
	"log/slog"

	"github.com/Ahmad9bh/party2book-api/internal/config"
	"github.com/Ahmad9bh/party2book-api/internal/models"
	"github.com/Ahmad9bh/party2book-api/internal/services"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger *slog.Logger
	Config *config.Config
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	UserService    *services.UserService
	VenueService   *services.VenuesService
	BookingService *services.BookingService
	StatsService   *services.StatsService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
) *Container {
	// Initialize repositories
	supa := models.SupabaseNewRepo(supabaseClient, cfg.SupabaseURL, cfg.SupabaseAnonKey)
	mongo := models.MongodbNewRepo(mongoDBClient)

	userService := services.NewUserService(supa)
	venueService := services.NewVenuesService(supa)
	bookingService := services.NewBookingService(supa, supa, mongo)
	statsService := services.NewStatsService(supa, supa)

	return &Container{
		Logger:         logger,
		Config:         cfg,
		SupabaseClient: supabaseClient,
		MongoDBClient:  mongoDBClient,
		UserService:    userService,
		VenueService:   venueService,
		BookingService: bookingService,
		StatsService:   statsService,
	}
}
