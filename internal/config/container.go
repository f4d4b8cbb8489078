package config

import (
	"time"

	"batch-scanner/internal/domain"
	"batch-scanner/internal/repository"
	"batch-scanner/internal/scanner"
	"batch-scanner/internal/service"
	"batch-scanner/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	CaptureDevice  domain.CaptureDevice
	PageStore      domain.PageStore
	Assembler      domain.OutputAssembler
	SessionService domain.SessionController
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	device := scanner.NewSANEClient(
		config.GetScanBinary(),
		time.Duration(config.GetScanTimeout())*time.Second,
		appLogger,
	)
	pageStore := repository.NewMemoryPageStore()
	assembler := service.NewAssembler(appLogger)
	sessionService := service.NewSessionService(
		device,
		pageStore,
		assembler,
		appLogger,
		config.GetMaxSessionPages(),
	)

	return &Container{
		Config:         config,
		Logger:         appLogger,
		CaptureDevice:  device,
		PageStore:      pageStore,
		Assembler:      assembler,
		SessionService: sessionService,
	}
}
