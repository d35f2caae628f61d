package handlers

import (
	"errors"
	"net/http"

	"shopsense-api/internal/models"
	"shopsense-api/internal/services"

	"github.com/gin-gonic/gin"
)

// AssistantHandler 会話・レビュー要約ハンドラー
type AssistantHandler struct {
	assistant *services.AssistantService
}

// NewAssistantHandler 新しい会話ハンドラーを作成
func NewAssistantHandler(assistant *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{
		assistant: assistant,
	}
}

// Chat ユーザーの買い物クエリを1ターン処理します
func (ah *AssistantHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストの形式が正しくありません: " + err.Error()})
		return
	}

	messages, err := ah.assistant.SendMessage(c.Request.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "メッセージが空です。"})
		case errors.Is(err, services.ErrRequestInFlight):
			// 処理中の再送信は受け付けない。状態は何も変わらない。
			c.JSON(http.StatusConflict, gin.H{"error": "前のリクエストが完了するまでお待ちください。"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

// GetMessages 会話履歴全体を返します
func (ah *AssistantHandler) GetMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": ah.assistant.Session().Messages()})
}

// Summarize 商品レビューの要約を生成します
func (ah *AssistantHandler) Summarize(c *gin.Context) {
	var req models.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストの形式が正しくありません: " + err.Error()})
		return
	}

	summary := ah.assistant.SummarizeProduct(c.Request.Context(), req.ProductName)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"product_name": req.ProductName,
		"summary":      summary,
	})
}

// GetSummary 要約パネルの現在の状態を返します
func (ah *AssistantHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": ah.assistant.Session().Summary()})
}
