package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "conciliador/docs"
	"conciliador/internal/config"
	"conciliador/internal/handler"
	"conciliador/internal/matcher"
	"conciliador/internal/middleware"
	"conciliador/internal/repository"
	"conciliador/internal/service"
	"conciliador/pkg/logger"
)

// @title Bookkeeping Reconciliation API
// @version 1.0
// @description API for reconciling sales/purchase journal entries against cash and bank ledgers

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.LogLevel)
	logger.GetLogger().Info("Starting Bookkeeping Reconciliation Service")

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	logger.GetLogger().Info("Database connection established")

	runRepo := repository.NewRunRepository(db)
	engine := matcher.NewEngine(cfg.Engine)
	reconService := service.NewReconciliationService(runRepo, engine, nil)

	reconHandler := handler.NewReconciliationHandler(reconService)
	workbookHandler := handler.NewWorkbookHandler()

	router := setupRouter(reconHandler, workbookHandler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.GetLogger().WithField("address", addr).Info("Server starting")

	if err := router.Run(addr); err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to start server")
	}
}

func connectDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func setupRouter(reconHandler *handler.ReconciliationHandler, workbookHandler *handler.WorkbookHandler) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		workbooks := v1.Group("/workbooks")
		{
			workbooks.POST("/sheets", workbookHandler.ListSheets)
			workbooks.POST("/preview", workbookHandler.Preview)
		}

		reconciliation := v1.Group("/reconcile")
		{
			reconciliation.POST("", reconHandler.Reconcile)
			reconciliation.GET("/runs/:run_id", reconHandler.GetRunStatus)
			reconciliation.GET("/runs/:run_id/report", reconHandler.GetRunReport)
		}
	}

	return router
}
