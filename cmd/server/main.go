package main

import (
	"context"
	"log"
	"time"

	config "shopsense-api/configs"
	"shopsense-api/internal/handlers"
	"shopsense-api/internal/services"
	"shopsense-api/pkg/gemini"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()

	// APIキーが無い状態では一切の機能が動かないため、ここで起動を止める
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Geminiクライアントの初期化（起動時に1回だけ構築し、以後は注入して使い回す）
	geminiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize Gemini client: %v", err)
	}

	// サービスの初期化
	geminiService := services.NewGeminiService(geminiClient)
	session := services.NewSession()
	assistantService := services.NewAssistantService(geminiService, session)
	alertEngine := services.NewDealAlertEngine(session, time.Duration(cfg.AlertIntervalSeconds)*time.Second)

	// 価格下落シミュレーションを開始
	go alertEngine.Run(ctx)

	// ハンドラーの初期化
	assistantHandler := handlers.NewAssistantHandler(assistantService)
	preferenceHandler := handlers.NewPreferenceHandler(session)
	alertHandler := handlers.NewAlertHandler(alertEngine)
	exportHandler := handlers.NewExportHandler(session, alertEngine)

	// Ginルーターの初期化
	r := gin.Default()
	r.Use(cors.Default())

	// ヘルスチェックエンドポイント
	r.GET("/health", handlers.HealthCheck)

	// APIバージョン1のルートグループ
	v1 := r.Group("/api/v1")
	{
		// 会話API
		assistant := v1.Group("/assistant")
		{
			assistant.POST("/chat", assistantHandler.Chat)
			assistant.GET("/messages", assistantHandler.GetMessages)
			assistant.POST("/summarize", assistantHandler.Summarize)
			assistant.GET("/summary", assistantHandler.GetSummary)
		}

		// ユーザー設定API
		v1.GET("/preferences", preferenceHandler.GetPreferences)
		v1.PUT("/preferences", preferenceHandler.UpdatePreferences)

		// 価格監視アラートAPI
		alerts := v1.Group("/alerts")
		{
			alerts.GET("", alertHandler.GetAlerts)
			alerts.POST("", alertHandler.RegisterAlert)
			alerts.DELETE("/:id", alertHandler.RemoveAlert)
		}

		// 管理者向けAPI
		admin := v1.Group("/admin")
		{
			admin.GET("/export", exportHandler.ExportWorkbook)
		}
	}

	log.Printf("Starting ShopSense API server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
