package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
	"github.com/warbler/web-go/controllers"
	"github.com/warbler/web-go/middleware"
	"github.com/warbler/web-go/templates"
	"github.com/warbler/web-go/utils"
	"gorm.io/gorm"
)

// Options carries what the router needs from main.
type Options struct {
	DB        *gorm.DB
	Sessions  sessions.Store
	Metrics   *utils.Metrics
	Images    controllers.ImageStore // nil disables profile image uploads
	StaticDir string
}

// NewRouter builds the engine with templates, middleware and every route.
func NewRouter(opts Options) (*gin.Engine, error) {
	if opts.Metrics == nil {
		opts.Metrics = utils.NewMetrics()
	}

	tmpl, err := templates.Load()
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		gin.RecoveryWithWriter(utils.GinWriter()),
		middleware.RequestLogger(opts.Metrics),
		middleware.NoCache(),
		middleware.Sessions(opts.Sessions),
		middleware.CurrentUser(opts.DB),
	)

	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	}

	SetupRoutes(r, opts)
	return r, nil
}

func SetupRoutes(r *gin.Engine, opts Options) {
	// Initialize controllers
	var uploads *controllers.UploadController
	if opts.Images != nil {
		uploads = controllers.NewUploadController(opts.Images)
	}
	homeController := controllers.NewHomeController(opts.DB)
	authController := controllers.NewAuthController(opts.DB, opts.Metrics)
	userController := controllers.NewUserController(opts.DB, opts.Metrics, uploads)
	interactionController := controllers.NewInteractionController(opts.DB, opts.Metrics)
	messageController := controllers.NewMessageController(opts.DB, opts.Metrics)
	validationController := controllers.NewValidationController(opts.DB)

	r.GET("/", homeController.Home)
	r.GET("/health", homeController.Health)
	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	r.NoRoute(homeController.NotFound)

	SetupAuthRoutes(r, authController)
	SetupValidationRoutes(r, validationController)

	// Routes that need a logged-in user
	protected := middleware.RequireUser(opts.Metrics)

	SetupUserRoutes(r, protected, userController)
	SetupInteractionRoutes(r, protected, interactionController)
	SetupMessageRoutes(r, protected, messageController)
}
