package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lumenlabs/studyportal/internal/config"
	"github.com/lumenlabs/studyportal/internal/db"
	"github.com/lumenlabs/studyportal/internal/repository"
	"github.com/lumenlabs/studyportal/internal/service"
	"github.com/lumenlabs/studyportal/internal/storage"
	"github.com/lumenlabs/studyportal/internal/study"
)

type App struct {
	Cfg *config.Config
	DB  *sqlx.DB

	UserRepo    repository.UserRepository
	ProfileRepo repository.ProfileRepository

	Manager         *study.Manager
	Relay           *study.MessageRelay
	FeedbackService *service.FeedbackService
	UploadService   *service.UploadService
	AdminService    *service.AdminService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	feedbackRepository := repository.NewFeedbackRepository(database)
	uploadRepository := repository.NewUploadRepository(database)
	messageRepository := repository.NewMessageRepository(database)

	// Storage
	blobStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Study engine + services
	manager := study.NewManager(profileRepository, messageRepository, cfg.AutoSaveDebounce, cfg.PollInterval)
	relay := study.NewMessageRelay(messageRepository)
	feedbackService := service.NewFeedbackService(feedbackRepository, profileRepository)
	uploadService := service.NewUploadService(uploadRepository, profileRepository, blobStorage, cfg.S3PresignExpiry)
	adminService := service.NewAdminService(userRepository, profileRepository)

	return &App{
		Cfg:             cfg,
		DB:              database,
		UserRepo:        userRepository,
		ProfileRepo:     profileRepository,
		Manager:         manager,
		Relay:           relay,
		FeedbackService: feedbackService,
		UploadService:   uploadService,
		AdminService:    adminService,
	}, nil
}

func (a *App) Close() error {
	if a.Manager != nil {
		a.Manager.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
