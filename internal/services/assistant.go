package services

import (
	"context"
	"errors"
	"strings"

	"shopsense-api/internal/models"
)

var (
	// ErrEmptyMessage 空（または空白のみ）の入力
	ErrEmptyMessage = errors.New("message is empty")
	// ErrRequestInFlight 前のレコメンドリクエストが未完了
	ErrRequestInFlight = errors.New("a recommendation request is already in progress")
)

// AssistantService 会話オーケストレーター。
// 1ターンの流れ: ユーザーメッセージ追記 → レコメンド呼び出し → AIメッセージ追記。
// 処理中の再送信は無視します（キューイングしない）。
type AssistantService struct {
	ai      AssistantAI
	session *Session
}

// NewAssistantService 新しい会話オーケストレーターを作成
func NewAssistantService(ai AssistantAI, session *Session) *AssistantService {
	return &AssistantService{
		ai:      ai,
		session: session,
	}
}

// Session このオーケストレーターが所有するセッションを返します
func (as *AssistantService) Session() *Session {
	return as.session
}

// SendMessage ユーザー入力1件を処理し、このターンで追記されたメッセージを返します。
// レコメンド失敗時もAIメッセージは追記されます（本文はエラーメッセージ、商品なし）。
func (as *AssistantService) SendMessage(ctx context.Context, text string) ([]models.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	if !as.session.TryBeginRequest() {
		return nil, ErrRequestInFlight
	}
	defer as.session.EndRequest()

	userMsg := as.session.AppendUserMessage(trimmed)

	result, err := as.ai.Recommend(ctx, trimmed, as.session.Preferences())

	var aiMsg models.Message
	if err != nil {
		aiMsg = as.session.AppendAIMessage(err.Error(), nil)
	} else {
		aiMsg = as.session.AppendAIMessage(result.ResponseText, result.Products)
	}

	return []models.Message{userMsg, aiMsg}, nil
}

// SummarizeProduct レビュー要約サブフローを実行します。
// 会話のターンとは独立しており、再入可能です。処理中に別の商品が選択された場合、
// 先行リクエストはキャンセルされず、後から完了した方の結果が残ります。
func (as *AssistantService) SummarizeProduct(ctx context.Context, productName string) string {
	as.session.BeginSummary(productName)

	text, err := as.ai.SummarizeReviews(ctx, productName)
	if err != nil {
		text = err.Error()
	}

	as.session.CompleteSummary(text)
	return text
}
