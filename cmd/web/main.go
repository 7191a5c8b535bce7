// cmd/web/main.go
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/LuisEduardoPedra/metasVendas/internal/api/handlers"
	"github.com/LuisEduardoPedra/metasVendas/internal/api/middleware"
	"github.com/LuisEduardoPedra/metasVendas/internal/api/responses"
	"github.com/LuisEduardoPedra/metasVendas/internal/config"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/auth"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/goals"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/sales"
	"github.com/LuisEduardoPedra/metasVendas/internal/core/spreadsheet"
	"github.com/LuisEduardoPedra/metasVendas/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// importRole é a permissão exigida para gravar dados.
const importRole = "importar"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuração inválida: %v", err)
	}
	if err := responses.InitLogger(cfg.LogLevel, cfg.Env); err != nil {
		log.Fatalf("Erro ao inicializar logger: %v", err)
	}
	defer responses.Sync()
	logger := responses.Logger()

	decimal.MarshalJSONWithoutQuotes = true
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	firestoreClient, err := store.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreDatabaseID)
	if err != nil {
		logger.Fatal("Erro ao conectar ao Firestore", zap.Error(err))
	}
	defer firestoreClient.Close()
	logger.Info("Conectado ao Firestore", zap.String("database", cfg.FirestoreDatabaseID))
	fs := store.NewFirestore(firestoreClient, logger)

	var salesStore sales.SalesStore = fs
	if cfg.SalesBackend == config.SalesBackendPostgres {
		pool, err := store.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Erro ao conectar ao Postgres", zap.Error(err))
		}
		defer pool.Close()
		pg := store.NewPostgresSales(pool)
		if err := pg.Migrate(ctx); err != nil {
			logger.Fatal("Erro ao preparar tabela de vendas", zap.Error(err))
		}
		salesStore = pg
		logger.Info("Vendas transacionais no Postgres")
	}

	engine := goals.NewEngine(goals.Config{
		GrowthRate:         decimal.NewFromFloat(cfg.GoalGrowthRate),
		WeeksPerMonth:      cfg.GoalWeeksPerMonth,
		WorkingDaysPerWeek: cfg.GoalWorkingDays,
	})
	salesService := sales.NewService(salesStore, fs, fs, engine, cfg.CacheTTL, logger.Named("sales"))
	importService := spreadsheet.NewService(logger.Named("import"))
	authService := auth.NewService(fs, []byte(cfg.JWTSecret), cfg.TokenTTL)

	authHandler := handlers.NewAuthHandler(authService)
	importHandler := handlers.NewImportHandler(importService, salesService, cfg.MaxUploadMB<<20)
	goalsHandler := handlers.NewGoalsHandler(salesService)

	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadMB << 20
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/login", authHandler.Login)
		protected := apiV1.Group("/")
		protected.Use(middleware.AuthMiddleware([]byte(cfg.JWTSecret)))
		{
			protected.POST("/import", importHandler.HandleImport)
			protected.GET("/goals", goalsHandler.GetGoals)
			protected.GET("/revenue", goalsHandler.GetRevenue)
			protected.POST("/sales/import", middleware.PermissionMiddleware(importRole), goalsHandler.HandleSalesImport)
		}
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("Servidor iniciado", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Falha ao iniciar o servidor", zap.Error(err))
	}
}
