package services

import (
	"context"
	"errors"
	"log"
	"time"

	"shopsense-api/internal/models"
	"shopsense-api/pkg/gemini"
)

// 利用者に表示する固定メッセージ。失敗の詳細はログにのみ残します。
const (
	MsgRecommendFailed   = "I had trouble finding products. Please try again."
	MsgInvalidCredential = "Your API key appears to be invalid. Please check your configuration."
	MsgSummaryFailed     = "Could not generate a review summary at this time."
)

const requestTimeout = 60 * time.Second

// RecommendationResult レコメンド結果（ドメイン型）
type RecommendationResult struct {
	ResponseText string
	Products     []models.Product
}

// AssistantAI 会話オーケストレーターが利用する生成AIの契約
type AssistantAI interface {
	Recommend(ctx context.Context, query string, prefs models.Preferences) (*RecommendationResult, error)
	SummarizeReviews(ctx context.Context, productName string) (string, error)
}

// GeminiService Gemini APIサービス。
// クライアントのエラーをここで握りつぶし、利用者向けの固定メッセージに変換します。リトライはしません。
type GeminiService struct {
	client *gemini.Client
}

// NewGeminiService 新しいGeminiサービスを作成
func NewGeminiService(client *gemini.Client) *GeminiService {
	return &GeminiService{
		client: client,
	}
}

// Recommend クエリとユーザー設定から商品レコメンドを取得します
func (gs *GeminiService) Recommend(ctx context.Context, query string, prefs models.Preferences) (*RecommendationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	result, err := gs.client.GenerateProductRecommendations(ctx, query, prefs.Budget, prefs.PreferredBrands, prefs.SustainabilityFocus)
	if err != nil {
		log.Printf("Error generating product recommendations: %v", err)
		if gemini.IsInvalidCredential(err) {
			return nil, errors.New(MsgInvalidCredential)
		}
		return nil, errors.New(MsgRecommendFailed)
	}

	products := make([]models.Product, len(result.Products))
	for i, p := range result.Products {
		offers := make([]models.Offer, len(p.Offers))
		for j, o := range p.Offers {
			offers[j] = models.Offer{
				Source: normalizeSource(o.Source),
				Price:  o.Price,
				URL:    o.URL,
			}
		}
		products[i] = models.Product{
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			Offers:      offers,
		}
	}

	return &RecommendationResult{
		ResponseText: result.ResponseText,
		Products:     products,
	}, nil
}

// SummarizeReviews 商品レビューの要約を取得します
func (gs *GeminiService) SummarizeReviews(ctx context.Context, productName string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	summary, err := gs.client.SummarizeReviews(ctx, productName)
	if err != nil {
		log.Printf("Error summarizing reviews: %v", err)
		return "", errors.New(MsgSummaryFailed)
	}
	return summary, nil
}

// normalizeSource スキーマ上はenumだが、未知の値はOtherに寄せます
func normalizeSource(source string) models.ECommerceSource {
	switch models.ECommerceSource(source) {
	case models.SourceAmazon:
		return models.SourceAmazon
	case models.SourceFlipkart:
		return models.SourceFlipkart
	default:
		return models.SourceOther
	}
}
