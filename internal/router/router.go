package router

import (
	"board-sync-api/internal/auth"
	"board-sync-api/internal/client"
	"board-sync-api/internal/handler"
	"board-sync-api/internal/metrics"
	"board-sync-api/internal/middleware"
	"board-sync-api/internal/ordering"
	"board-sync-api/internal/permission"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/repository"
	"board-sync-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config holds router configuration
type Config struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Hub         *realtime.Hub
	Tokens      *auth.TokenService
	Storage     client.S3ClientInterface
	BasePath    string
	CORSOrigins []string
	Realtime    realtime.GatewayConfig
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewWithRegistry(prometheus.NewRegistry(), cfg.Logger)
	}
	if cfg.Hub == nil {
		cfg.Hub = realtime.NewHub(cfg.Logger, realtime.WithMetrics(cfg.Metrics))
	}

	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Prometheus metrics endpoint
	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	} else {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)

	// Initialize repositories
	userRepo := repository.NewUserRepository(cfg.DB)
	boardRepo := repository.NewBoardRepository(cfg.DB)
	memberRepo := repository.NewMemberRepository(cfg.DB)
	listRepo := repository.NewListRepository(cfg.DB)
	cardRepo := repository.NewCardRepository(cfg.DB)
	labelRepo := repository.NewLabelRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)
	attachmentRepo := repository.NewAttachmentRepository(cfg.DB)

	evaluator := permission.NewEvaluator(boardRepo, memberRepo)
	engine := ordering.NewEngine(listRepo, cardRepo)

	// Initialize services
	userService := service.NewUserService(userRepo, boardRepo, cfg.Tokens, cfg.Hub)
	memberService := service.NewMemberService(memberRepo, userRepo, evaluator, cfg.Hub, cfg.Logger)
	boardService := service.NewBoardService(
		boardRepo,
		listRepo,
		cardRepo,
		labelRepo,
		memberService,
		evaluator,
		cfg.Hub,
		cfg.Metrics,
		cfg.Logger,
	)
	listService := service.NewListService(listRepo, cardRepo, engine, evaluator, cfg.Hub, cfg.Logger)
	cardService := service.NewCardService(cardRepo, listRepo, engine, evaluator, cfg.Hub, cfg.Metrics, cfg.Logger)
	labelService := service.NewLabelService(labelRepo, cardRepo, evaluator, cfg.Hub, cfg.Logger)
	commentService := service.NewCommentService(commentRepo, cardRepo, userRepo, evaluator, cfg.Hub, cfg.Logger)
	attachmentService := service.NewAttachmentService(attachmentRepo, cardRepo, cfg.Storage, evaluator, cfg.Hub, cfg.Logger)

	gateway := realtime.NewGateway(cfg.Hub, cfg.Tokens, userRepo, evaluator, cfg.Realtime, cfg.Metrics, cfg.Logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, cfg.Logger)
	userHandler := handler.NewUserHandler(userService, cfg.Logger)
	boardHandler := handler.NewBoardHandler(boardService, memberService, cfg.Logger)
	listHandler := handler.NewListHandler(listService, cfg.Logger)
	cardHandler := handler.NewCardHandler(cardService, cfg.Logger)
	labelHandler := handler.NewLabelHandler(labelService, cfg.Logger)
	commentHandler := handler.NewCommentHandler(commentService, cfg.Logger)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService, cfg.Logger)
	wsHandler := handler.NewWSHandler(gateway)

	// API routes group
	api := r.Group(cfg.BasePath)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
	}

	// The token travels in the query string, so the gateway authenticates on its own.
	api.GET("/ws/boards/:boardId", wsHandler.HandleBoard)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.Tokens, userRepo))

	users := protected.Group("/users")
	{
		users.GET("/me", userHandler.GetMe)
		users.PUT("/me", userHandler.UpdateMe)
		users.DELETE("/me", userHandler.DeleteMe)
	}

	boards := protected.Group("/boards")
	{
		boards.GET("", boardHandler.ListBoards)
		boards.POST("", boardHandler.CreateBoard)
		boards.GET("/:boardId", boardHandler.GetBoard)
		boards.PUT("/:boardId", boardHandler.UpdateBoard)
		boards.DELETE("/:boardId", boardHandler.DeleteBoard)

		boards.GET("/:boardId/members", boardHandler.ListMembers)
		boards.POST("/:boardId/members", boardHandler.AddMember)
		boards.DELETE("/:boardId/members/:userId", boardHandler.RemoveMember)

		boards.GET("/:boardId/lists", listHandler.GetLists)
		boards.POST("/:boardId/lists", listHandler.CreateList)

		boards.GET("/:boardId/labels", labelHandler.GetBoardLabels)
	}

	lists := protected.Group("/lists")
	{
		lists.POST("/reorder", listHandler.ReorderLists)
		lists.GET("/:listId", listHandler.GetList)
		lists.PUT("/:listId", listHandler.UpdateList)
		lists.DELETE("/:listId", listHandler.DeleteList)

		lists.GET("/:listId/cards", cardHandler.GetCards)
		lists.POST("/:listId/cards", cardHandler.CreateCard)
		lists.POST("/:listId/cards/reorder", cardHandler.ReorderCards)
	}

	cards := protected.Group("/cards")
	{
		cards.GET("/:cardId", cardHandler.GetCard)
		cards.PUT("/:cardId", cardHandler.UpdateCard)
		cards.DELETE("/:cardId", cardHandler.DeleteCard)
		cards.POST("/:cardId/move", cardHandler.MoveCard)

		cards.POST("/:cardId/assignees", cardHandler.AddAssignee)
		cards.DELETE("/:cardId/assignees/:userId", cardHandler.RemoveAssignee)

		cards.GET("/:cardId/labels", labelHandler.GetCardLabels)
		cards.POST("/:cardId/labels", labelHandler.AddLabelToCard)
		cards.DELETE("/:cardId/labels/:labelId", labelHandler.RemoveLabelFromCard)

		cards.GET("/:cardId/comments", commentHandler.GetComments)
		cards.POST("/:cardId/comments", commentHandler.CreateComment)

		cards.POST("/:cardId/attachments/presigned-url", attachmentHandler.GeneratePresignedURL)
	}

	labels := protected.Group("/labels")
	{
		labels.PUT("/:labelId", labelHandler.UpdateLabel)
		labels.DELETE("/:labelId", labelHandler.DeleteLabel)
	}

	comments := protected.Group("/comments")
	{
		comments.PUT("/:commentId", commentHandler.UpdateComment)
		comments.DELETE("/:commentId", commentHandler.DeleteComment)
	}

	attachments := protected.Group("/attachments")
	{
		attachments.POST("/:attachmentId/confirm", attachmentHandler.ConfirmUpload)
		attachments.DELETE("/:attachmentId", attachmentHandler.DeleteAttachment)
	}

	return r
}
