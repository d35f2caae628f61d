package handlers

import (
	"net/http"

	"shopsense-api/internal/models"
	"shopsense-api/internal/services"

	"github.com/gin-gonic/gin"
)

// PreferenceHandler ユーザー設定ハンドラー
type PreferenceHandler struct {
	session *services.Session
}

// NewPreferenceHandler 新しい設定ハンドラーを作成
func NewPreferenceHandler(session *services.Session) *PreferenceHandler {
	return &PreferenceHandler{
		session: session,
	}
}

// GetPreferences 現在のユーザー設定を返します
func (ph *PreferenceHandler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": ph.session.Preferences()})
}

// UpdatePreferences ユーザー設定を置き換えます。
// ブランド欄はカンマ区切りの生文字列で受け取り、ここでパースします。
func (ph *PreferenceHandler) UpdatePreferences(c *gin.Context) {
	var req models.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストの形式が正しくありません: " + err.Error()})
		return
	}

	ph.session.SetBudget(req.Budget)
	ph.session.SetPreferredBrands(services.ParseBrandList(req.PreferredBrands))
	ph.session.SetSustainabilityFocus(req.SustainabilityFocus)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": ph.session.Preferences()})
}
