package handlers

import (
	"fmt"
	"net/http"
	"time"

	"shopsense-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 会話履歴とアラートのエクスポートハンドラー
type ExportHandler struct {
	session *services.Session
	engine  *services.DealAlertEngine
}

// NewExportHandler 新しいエクスポートハンドラーを作成
func NewExportHandler(session *services.Session, engine *services.DealAlertEngine) *ExportHandler {
	return &ExportHandler{
		session: session,
		engine:  engine,
	}
}

// ExportWorkbook 会話履歴とアクティブなアラートをExcelワークブックとして出力します
func (eh *ExportHandler) ExportWorkbook(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	const conversationSheet = "Conversation"
	const alertsSheet = "DealAlerts"

	if err := f.SetSheetName("Sheet1", conversationSheet); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Excelシートの作成に失敗しました。"})
		return
	}
	if _, err := f.NewSheet(alertsSheet); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Excelシートの作成に失敗しました。"})
		return
	}

	// 会話シート
	headers := []string{"ID", "Sender", "Type", "Text", "Products"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(conversationSheet, cell, h)
	}
	for i, msg := range eh.session.Messages() {
		row := i + 2
		f.SetCellValue(conversationSheet, fmt.Sprintf("A%d", row), msg.ID)
		f.SetCellValue(conversationSheet, fmt.Sprintf("B%d", row), string(msg.Sender))
		f.SetCellValue(conversationSheet, fmt.Sprintf("C%d", row), string(msg.Type))
		f.SetCellValue(conversationSheet, fmt.Sprintf("D%d", row), msg.Text)
		f.SetCellValue(conversationSheet, fmt.Sprintf("E%d", row), len(msg.Products))
	}

	// アラートシート
	alertHeaders := []string{"ID", "ProductName", "TargetPrice"}
	for i, h := range alertHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(alertsSheet, cell, h)
	}
	for i, alert := range eh.engine.Alerts() {
		row := i + 2
		f.SetCellValue(alertsSheet, fmt.Sprintf("A%d", row), alert.ID)
		f.SetCellValue(alertsSheet, fmt.Sprintf("B%d", row), alert.ProductName)
		f.SetCellValue(alertsSheet, fmt.Sprintf("C%d", row), alert.TargetPrice)
	}

	filename := fmt.Sprintf("shopsense_export_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Excelファイルの書き出しに失敗しました。"})
		return
	}
}
