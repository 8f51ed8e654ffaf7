package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"auraflux-be/internal/config"
	"auraflux-be/internal/controller"
	"auraflux-be/internal/handler"
	"auraflux-be/internal/pkg/logger"
	"auraflux-be/internal/repository/implementation"
	"auraflux-be/internal/repository/unitofwork"
	"auraflux-be/internal/service"
	"auraflux-be/internal/websocket"
	"auraflux-be/pkg/agent"
	"auraflux-be/pkg/guard"
	"auraflux-be/pkg/llm/factory"
	pktNats "auraflux-be/pkg/nats"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	WorkflowController     controller.IWorkflowController
	KnowledgeController    controller.IKnowledgeController
	NotificationController controller.INotificationController

	// Background workers (exposed for main.go to run)
	DialogueWorker   service.IDialogueWorker
	RefinementWorker service.IRefinementWorker
	StabilityWorker  service.IStabilityWorker

	// WebSockets & notifications
	RealtimeHandler *handler.RealtimeHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus (in-process pipeline)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisherService := service.NewPublisherService(pubSub)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	redisUp := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		redisUp = false
	}

	// Analysis guard. Redis makes it cluster-wide; without it each
	// instance guards only its own sessions.
	var sessionGuard guard.SessionGuard
	if redisUp {
		sessionGuard = guard.NewRedisGuard(rdb, "workflow")
	} else {
		sessionGuard = guard.NewMemoryGuard()
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	var hubRedis *redis.Client
	if redisUp {
		hubRedis = rdb
	}
	wsHub := websocket.NewHub(hubRedis, wsLogger)
	go wsHub.Run()

	// LLM
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	ag := agent.NewAgent(llmProvider)

	// 3. Services
	authService := service.NewAuthService(uowFactory)
	workflowService := service.NewWorkflowService(uowFactory, publisherService, natsPub, cfg.Workflow, sysLogger)
	knowledgeService := service.NewKnowledgeService(uowFactory, natsPub, sysLogger)

	// Pipeline workers
	dialogueWorker := service.NewDialogueWorker(pubSub, uowFactory, ag, wsHub, publisherService, cfg.Workflow, sysLogger)
	refinementWorker := service.NewRefinementWorker(pubSub, ag, sessionGuard, publisherService, natsPub, cfg.Workflow, sysLogger)
	stabilityWorker := service.NewStabilityWorker(pubSub, uowFactory, wsHub, natsPub, sysLogger)

	// 3.5 Notification system
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, service.NewHubDelivery(wsHub), wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	realtimeHandler := handler.NewRealtimeHandler(wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		AuthController:         controller.NewAuthController(authService),
		WorkflowController:     controller.NewWorkflowController(workflowService),
		KnowledgeController:    controller.NewKnowledgeController(knowledgeService),
		NotificationController: controller.NewNotificationController(notifService),

		DialogueWorker:   dialogueWorker,
		RefinementWorker: refinementWorker,
		StabilityWorker:  stabilityWorker,

		RealtimeHandler: realtimeHandler,
		WebSocketHub:    wsHub,
	}
}
