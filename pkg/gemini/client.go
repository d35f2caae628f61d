package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Client はGemini APIへのリクエストを管理します。
// 商品レコメンドは構造化JSON（responseSchema）で、レビュー要約はプレーンテキストで取得します。
type Client struct {
	client *genai.Client
	model  string
}

// NewClient は新しいGeminiクライアントを作成します
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key が設定されていません")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの作成に失敗: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// --- データ構造定義 ---

// Offer ワイヤ上のオファー
type Offer struct {
	Source string `json:"source"`
	Price  string `json:"price"`
	URL    string `json:"url"`
}

// Product ワイヤ上の商品
type Product struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Offers      []Offer `json:"offers"`
}

// RecommendationResult 構造化レコメンドレスポンス
type RecommendationResult struct {
	ResponseText string    `json:"response_text"`
	Products     []Product `json:"products"`
}

// --- メソッド定義 ---

// GenerateProductRecommendations 商品レコメンドを生成
// クエリとユーザー設定をプロンプトに埋め込み、スキーマ検証付きJSONを要求します。
func (c *Client) GenerateProductRecommendations(ctx context.Context, query, budget string, preferredBrands []string, sustainabilityFocus bool) (*RecommendationResult, error) {
	sustainability := "No"
	if sustainabilityFocus {
		sustainability = "Yes"
	}

	prompt := fmt.Sprintf(
		`Based on the user query "%s" and preferences: Budget - %s, Preferred Brands - %s, Sustainability Focus - %s, find 3 to 5 relevant products. For each product, provide offers from at least two sources like Amazon and Flipkart if possible. Provide a brief conversational opening before the product list.`,
		query, budget, strings.Join(preferredBrands, ", "), sustainability)

	generateConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   recommendationSchema(),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), generateConfig)
	if err != nil {
		return nil, fmt.Errorf("Gemini API 呼び出しに失敗: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return nil, err
	}

	var result RecommendationResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &result); err != nil {
		return nil, fmt.Errorf("レスポンスのJSON解析に失敗: %w", err)
	}

	if err := validateResult(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// SummarizeReviews 商品レビューの要約を生成
// 応答は "Pros:" / "Cons:" セクションを含むプレーンテキストを想定しています。
func (c *Client) SummarizeReviews(ctx context.Context, productName string) (string, error) {
	prompt := fmt.Sprintf(
		`You are an expert product review analyst. Summarize the key pros and cons for the product "%s". Structure your response with 'Pros:' and 'Cons:' sections. Provide a balanced overview based on common customer feedback points like performance, build quality, and value for money. Keep it concise.`,
		productName)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API 呼び出しに失敗: %w", err)
	}

	return extractText(resp)
}

// extractText レスポンスの全テキストパートを連結して返します
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("Geminiからの応答が空です")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("Geminiからの応答にコンテンツがありません")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("Geminiからの応答が空です")
	}
	return text, nil
}

// validateResult 受信したレコメンドが必須フィールドを満たすか検証します。
// 形の崩れたレスポンスを信用せず、リクエスト失敗として扱います。
func validateResult(result *RecommendationResult) error {
	if result.ResponseText == "" {
		return fmt.Errorf("レスポンスに response_text がありません")
	}
	for i, p := range result.Products {
		if p.Name == "" {
			return fmt.Errorf("products[%d] に name がありません", i)
		}
		for j, o := range p.Offers {
			if o.Price == "" {
				return fmt.Errorf("products[%d].offers[%d] に price がありません", i, j)
			}
		}
	}
	return nil
}

// IsInvalidCredential 認証情報が不正な場合のエラーかどうかを判定します
func IsInvalidCredential(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"API key not valid",
		"API_KEY_INVALID",
		"UNAUTHENTICATED",
		"PERMISSION_DENIED",
		"401",
		"403",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
