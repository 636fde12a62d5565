package bootstrap

import (
	"time"

	"dermoscan-be/internal/config"
	"dermoscan-be/internal/controller"
	"dermoscan-be/internal/gateway"
	"dermoscan-be/internal/pkg/logger"
	"dermoscan-be/internal/session"
	"dermoscan-be/internal/workflow"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	AuthController           controller.IAuthController
	PatientController        controller.IPatientController
	ClassificationController controller.IClassificationController

	// Background consumer, run by main.
	Refresher workflow.IRefresher

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.LogLevel, cfg.App.Environment == "production")

	// Gateways. "None" swaps a backend for fixture data.
	var auth gateway.IAuthGateway
	if cfg.Backends.Auth == gateway.BypassAddress {
		sysLogger.Warn("bootstrap", "bypassing auth backend", nil)
		auth = gateway.NewFixtureAuthGateway()
	} else {
		auth = gateway.NewAuthGateway(cfg.Backends.Auth)
	}

	var directory gateway.IDirectoryGateway
	if cfg.Backends.Directory == gateway.BypassAddress {
		sysLogger.Warn("bootstrap", "bypassing directory backend", nil)
		directory = gateway.NewFixtureDirectoryGateway()
	} else {
		directory = gateway.NewDirectoryGateway(cfg.Backends.Directory)
	}

	var classifier gateway.IClassifierGateway
	if cfg.Backends.Classifier == gateway.BypassAddress {
		sysLogger.Warn("bootstrap", "bypassing classifier backend", nil)
		classifier = gateway.NewFixtureClassifierGateway()
	} else {
		classifier = gateway.NewClassifierGateway(cfg.Backends.Classifier)
	}

	// Event bus for the edge-triggered refresh signals. Buffered so a slow
	// prefetch never backpressures the publishing workflow step.
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)

	sessions := session.NewRepository(12 * time.Hour)

	navigator := workflow.NewNavigator(sessions, auth, directory, classifier, pubSub, sysLogger)
	refresher := workflow.NewRefresher(pubSub, sessions, directory, sysLogger)

	return &Container{
		AuthController:           controller.NewAuthController(navigator),
		PatientController:        controller.NewPatientController(navigator),
		ClassificationController: controller.NewClassificationController(navigator),
		Refresher:                refresher,
		Logger:                   sysLogger,
	}
}
