package models

import "github.com/google/uuid"

// ECommerceSource 商品オファーの提供元
type ECommerceSource string

const (
	SourceAmazon   ECommerceSource = "Amazon"
	SourceFlipkart ECommerceSource = "Flipkart"
	SourceOther    ECommerceSource = "Other"
)

// Offer 1つの提供元における価格とリンク。受信後は不変。
type Offer struct {
	Source ECommerceSource `json:"source"`
	Price  string          `json:"price"`
	URL    string          `json:"url"`
}

// Product AIが返す商品候補。メッセージに添付された後は不変。
type Product struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Offers      []Offer `json:"offers"`
}

// Sender メッセージの送信者
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// MessageType メッセージの種別
type MessageType string

const (
	TypeMessage MessageType = "message"
	TypeAlert   MessageType = "alert"
)

// Message 会話の1エントリ。会話は追記専用で、並び順は時系列。
type Message struct {
	ID       string      `json:"id"`
	Sender   Sender      `json:"sender"`
	Type     MessageType `json:"type"`
	Text     string      `json:"text"`
	Products []Product   `json:"products,omitempty"`
}

// Preferences ユーザーの購買条件。セッション中は常に1インスタンス。
type Preferences struct {
	Budget              string   `json:"budget"`
	PreferredBrands     []string `json:"preferred_brands"`
	SustainabilityFocus bool     `json:"sustainability_focus"`
}

// DefaultPreferences セッション開始時の初期値を返します
func DefaultPreferences() Preferences {
	return Preferences{
		Budget:              "under $500",
		PreferredBrands:     []string{},
		SustainabilityFocus: false,
	}
}

// DealAlert 商品の最安値に対する価格監視。商品名ごとに最大1件。
type DealAlert struct {
	ID          string `json:"id"`
	ProductName string `json:"product_name"`
	TargetPrice string `json:"target_price"`
}

// NewID メッセージ・アラート用の一意なIDを生成します
func NewID() string {
	return uuid.NewString()
}

// ChatRequest represents an incoming chat request
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// SummarizeRequest represents a review summary request
type SummarizeRequest struct {
	ProductName string `json:"product_name" binding:"required"`
}

// PreferencesRequest 設定更新リクエスト。ブランド欄はカンマ区切りの生文字列。
type PreferencesRequest struct {
	Budget              string `json:"budget"`
	PreferredBrands     string `json:"preferred_brands"`
	SustainabilityFocus bool   `json:"sustainability_focus"`
}

// RegisterAlertRequest アラート登録リクエスト
type RegisterAlertRequest struct {
	Product Product `json:"product" binding:"required"`
}
