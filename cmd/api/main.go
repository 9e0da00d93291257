package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"webquote/internal/config"
	"webquote/internal/database"
	"webquote/internal/middleware"
	"webquote/internal/modules/auth"
	"webquote/internal/modules/catalog"
	"webquote/internal/modules/quote"
	"webquote/internal/modules/report"
	"webquote/internal/modules/user"
	jwtsvc "webquote/internal/pkg/jwt"
	"webquote/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	projectTypeRepo := repository.NewProjectTypeRepository(db)
	featureRepo := repository.NewFeatureRepository(db)
	pageRepo := repository.NewPageRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	reportRepo := repository.NewReportRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	catalogHandler := catalog.NewHandler(catalog.NewService(projectTypeRepo, featureRepo, pageRepo))
	quoteHandler := quote.NewHandler(quote.NewService(quoteRepo, featureRepo, pageRepo, projectTypeRepo))
	reportHandler := report.NewHandler(report.NewService(reportRepo))
	userHandler := user.NewHandler(user.NewService(userRepo))

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)

		// any authenticated user
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterRoutes(protected)
			catalogHandler.RegisterRoutes(protected)
			quoteHandler.RegisterRoutes(protected)
		}

		// admin only
		adminGated := v1.Group("/")
		adminGated.Use(middleware.Auth(j), middleware.AdminOnly())
		{
			catalogHandler.RegisterAdminRoutes(adminGated)
			reportHandler.RegisterRoutes(adminGated)
			userHandler.RegisterRoutes(adminGated)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
