package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	config "shopsense-api/configs"
	"shopsense-api/internal/handlers"
	"shopsense-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	// テスト環境の設定
	gin.SetMode(gin.TestMode)

	// .envファイルを読み込み（テスト環境では無視される可能性がある）
	godotenv.Load("../../.env")

	// テスト実行
	code := m.Run()

	// 終了
	os.Exit(code)
}

func TestApplicationSetup(t *testing.T) {
	// 設定の読み込みテスト
	cfg := config.LoadConfig()
	assert.NotNil(t, cfg, "Config should not be nil")
	assert.NotEmpty(t, cfg.GeminiModel, "GeminiModel should have a default")
	assert.Greater(t, cfg.AlertIntervalSeconds, 0, "AlertIntervalSeconds should be positive")

	// セッションとオーケストレーターの初期化テスト
	session := services.NewSession()
	assert.NotNil(t, session, "Session should not be nil")
	assert.Len(t, session.Messages(), 1, "Session should be seeded with a greeting")
}

func TestConfigValidationBlocksStartupWithoutKey(t *testing.T) {
	os.Unsetenv("GEMINI_API_KEY")

	cfg := config.LoadConfig()
	assert.Error(t, cfg.Validate(), "Validate should fail without GEMINI_API_KEY")
}

func TestRouterSetup(t *testing.T) {
	// ルーターの初期化
	r := gin.New()

	// ヘルスチェックエンドポイント
	r.GET("/health", handlers.HealthCheck)

	// ヘルスチェックのテスト
	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
