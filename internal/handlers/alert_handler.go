package handlers

import (
	"net/http"

	"shopsense-api/internal/models"
	"shopsense-api/internal/services"

	"github.com/gin-gonic/gin"
)

// AlertHandler 価格監視アラートハンドラー
type AlertHandler struct {
	engine *services.DealAlertEngine
}

// NewAlertHandler 新しいアラートハンドラーを作成
func NewAlertHandler(engine *services.DealAlertEngine) *AlertHandler {
	return &AlertHandler{
		engine: engine,
	}
}

// GetAlerts アクティブなアラート一覧を返します
func (ah *AlertHandler) GetAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "alerts": ah.engine.Alerts()})
}

// RegisterAlert 商品の最安オファーに対するアラートを登録します。
// 登録できない場合（オファーなし・同名の既存アラート）もエラーにはせず、現状の一覧を返します。
func (ah *AlertHandler) RegisterAlert(c *gin.Context) {
	var req models.RegisterAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストの形式が正しくありません: " + err.Error()})
		return
	}

	alert, created := ah.engine.RegisterAlert(req.Product)
	if !created {
		c.JSON(http.StatusOK, gin.H{"success": true, "created": false, "alerts": ah.engine.Alerts()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "created": true, "alert": alert})
}

// RemoveAlert IDが一致するアラートを削除します。存在しなくてもエラーにはしません。
func (ah *AlertHandler) RemoveAlert(c *gin.Context) {
	ah.engine.RemoveAlert(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"success": true, "alerts": ah.engine.Alerts()})
}
