package server

import (
	"strings"
	"time"

	"cineva.app/movieadmin/internal/config"
	"cineva.app/movieadmin/internal/handler"
	"cineva.app/movieadmin/internal/middleware"
	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/internal/repository"
	"cineva.app/movieadmin/internal/service"
	"cineva.app/movieadmin/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, fileStorage storage.FileStorage) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	operationRepo := repository.NewOperationRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	tokenSvc, err := service.NewTokenService(userRepo, cfg.TokenSigningKey, cfg.TokenEncryptionKey)
	if err != nil {
		return nil, err
	}

	authorizer := service.NewAuthzService(userRepo, operationRepo)

	authSvc := service.NewAuthService(userRepo, roleRepo, tokenSvc, redisClient, cfg.RateLimitLogin)
	userSvc := service.NewUserService(userRepo, roleRepo)
	roleSvc := service.NewRoleService(roleRepo, operationRepo)
	operationSvc := service.NewOperationService(operationRepo, authorizer)
	movieSvc := service.NewMovieService(movieRepo, fileStorage)
	commentSvc := service.NewCommentService(commentRepo, movieRepo)
	ratingSvc := service.NewRatingService(ratingRepo, movieRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	roleHandler := handler.NewRoleHandler(roleSvc)
	operationHandler := handler.NewOperationHandler(operationSvc, authorizer)
	movieHandler := handler.NewMovieHandler(movieSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)
	ratingHandler := handler.NewRatingHandler(ratingSvc)

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(tokenSvc, authorizer)

	api := router.Group("/api/v1")

	// Public routes (no auth required)
	api.POST("/sign-in", authHandler.SignIn)
	api.POST("/sign-up", authHandler.SignUp)
	api.GET("/files", movieHandler.ServeFile)

	api.GET("/movies", movieHandler.ListMovies)
	api.GET("/movies/comments", commentHandler.ListComments)
	api.GET("/movies/ratings", ratingHandler.ListRatings)
	api.GET("/movies/:id", movieHandler.GetMovie)
	api.GET("/movies/:id/download", movieHandler.Download)
	api.GET("/movies/:id/comments/all", commentHandler.GetAllComments)
	api.GET("/movies/:id/comments/:commentId", commentHandler.GetComment)
	api.GET("/movies/:id/ratings/all", ratingHandler.GetAllRatings)
	api.GET("/movies/:id/ratings/:ratingId", ratingHandler.GetRating)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/change-password", authHandler.ChangePassword)
		protected.GET("/profile", authHandler.GetProfile)
		protected.PUT("/profile", authHandler.UpdateProfile)

		protected.GET("/operations/verify", operationHandler.VerifyOperation)
		protected.GET("/operations/all", operationHandler.ListCatalog)
		protected.GET("/operations/my", operationHandler.ListUserOperations)
		protected.GET("/operations", operationHandler.ListOperations)

		protected.GET("/roles/all", roleHandler.ListAssignableRoles)

		// Per-user routes only require a valid credential; the account
		// management list and create are operation-gated below.
		protected.GET("/users/:id", userHandler.GetUser)
		protected.PUT("/users/:id", userHandler.UpdateUser)
		protected.DELETE("/users/:id", userHandler.DeleteUser)

		protected.GET("/users", authMiddleware.RequireOperation(model.OpListUsers), userHandler.ListUsers)
		protected.POST("/users", authMiddleware.RequireOperation(model.OpAddUser), userHandler.AddUser)

		protected.GET("/roles", authMiddleware.RequireOperation(model.OpListRoles), roleHandler.ListRoles)
		protected.POST("/roles", authMiddleware.RequireOperation(model.OpAddRole), roleHandler.CreateRole)
		protected.GET("/roles/:id", authMiddleware.RequireOperation(model.OpUpdateRole), roleHandler.GetRole)
		protected.PUT("/roles/:id", authMiddleware.RequireOperation(model.OpUpdateRole), roleHandler.UpdateRole)
		protected.DELETE("/roles/:id", authMiddleware.RequireOperation(model.OpDeleteRole), roleHandler.DeleteRole)

		protected.POST("/movies", authMiddleware.RequireOperation(model.OpAddMovies), movieHandler.AddMovie)
		protected.POST("/movies/:id/video", authMiddleware.RequireOperation(model.OpAddMovies), movieHandler.UploadVideo)
		protected.POST("/movies/:id/images", authMiddleware.RequireOperation(model.OpAddMovies), movieHandler.AddImage)
		protected.PUT("/movies/:id", authMiddleware.RequireOperation(model.OpUpdateMovies), movieHandler.UpdateMovie)
		protected.PUT("/movies/:id/images/:imageId", authMiddleware.RequireOperation(model.OpUpdateMovies), movieHandler.UpdateImage)
		protected.DELETE("/movies/:id", authMiddleware.RequireOperation(model.OpDeleteMovies), movieHandler.DeleteMovie)
		protected.DELETE("/movies/:id/images/:imageId", authMiddleware.RequireOperation(model.OpDeleteMovies), movieHandler.DeleteImage)

		protected.POST("/movies/comments", authMiddleware.RequireOperation(model.OpAddComments), commentHandler.AddComment)
		protected.PUT("/movies/:id/comments/:commentId", authMiddleware.RequireOperation(model.OpUpdateComments), commentHandler.UpdateComment)
		protected.DELETE("/movies/:id/comments/:commentId", authMiddleware.RequireOperation(model.OpDeleteComments), commentHandler.DeleteComment)

		protected.POST("/movies/ratings", authMiddleware.RequireOperation(model.OpAddRatings), ratingHandler.AddRating)
		protected.PUT("/movies/:id/ratings/:ratingId", authMiddleware.RequireOperation(model.OpUpdateRatings), ratingHandler.UpdateRating)
		protected.DELETE("/movies/:id/ratings/:ratingId", authMiddleware.RequireOperation(model.OpDeleteRatings), ratingHandler.DeleteRating)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}, nil
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Engine exposes the router, mostly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
