package services

import (
	"strings"
	"sync"

	"shopsense-api/internal/models"
)

// GreetingText セッション開始時にAIから送る挨拶メッセージ
const GreetingText = "Hello! I am your futuristic shopping assistant. How can I help you find the perfect product today?"

// SummaryState レビュー要約パネルの状態スナップショット
type SummaryState struct {
	ProductName string `json:"product_name"`
	Summary     string `json:"summary"`
	Loading     bool   `json:"loading"`
}

// Session はセッション単位の可変状態（設定・会話・要約パネル）を保持します。
// 元の実装はUIイベントループ上で直列実行されていたため暗黙に原子的でしたが、
// ここではHTTPハンドラーとアラートタイマーが並行に触るので、1つのミューテックスで直列化します。
type Session struct {
	mu       sync.Mutex
	prefs    models.Preferences
	messages []models.Message
	loading  bool
	summary  SummaryState
}

// NewSession 挨拶メッセージ入りの新しいセッションを作成します
func NewSession() *Session {
	return &Session{
		prefs: models.DefaultPreferences(),
		messages: []models.Message{
			{
				ID:     "init",
				Sender: models.SenderAI,
				Type:   models.TypeMessage,
				Text:   GreetingText,
			},
		},
	}
}

// Messages 会話全体のスナップショットを返します
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]models.Message, len(s.messages))
	copy(snapshot, s.messages)
	return snapshot
}

// AppendUserMessage ユーザーのメッセージを会話に追記します
func (s *Session) AppendUserMessage(text string) models.Message {
	return s.append(models.Message{
		ID:     models.NewID(),
		Sender: models.SenderUser,
		Type:   models.TypeMessage,
		Text:   text,
	})
}

// AppendAIMessage AIの応答メッセージを会話に追記します
func (s *Session) AppendAIMessage(text string, products []models.Product) models.Message {
	return s.append(models.Message{
		ID:       models.NewID(),
		Sender:   models.SenderAI,
		Type:     models.TypeMessage,
		Text:     text,
		Products: products,
	})
}

// AppendAlertMessage 価格下落アラートのメッセージを会話に追記します
func (s *Session) AppendAlertMessage(text string) models.Message {
	return s.append(models.Message{
		ID:     models.NewID(),
		Sender: models.SenderAI,
		Type:   models.TypeAlert,
		Text:   text,
	})
}

func (s *Session) append(msg models.Message) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, msg)
	return msg
}

// TryBeginRequest レコメンドリクエストの開始を試みます。
// すでに処理中ならfalseを返し、呼び出し側は入力を無視します（多重リクエストは作らない）。
func (s *Session) TryBeginRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return false
	}
	s.loading = true
	return true
}

// EndRequest レコメンドリクエストの完了を記録します
func (s *Session) EndRequest() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
}

// Loading レコメンドリクエストが処理中かどうかを返します
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

// BeginSummary 対象商品を選択し、前回の要約をクリアします
func (s *Session) BeginSummary(productName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summary = SummaryState{
		ProductName: productName,
		Loading:     true,
	}
}

// CompleteSummary 要約結果（またはエラーメッセージ）を保存します。
// 処理中のリクエストはキャンセルしないため、複数が競合した場合は最後に完了したものが残ります。
func (s *Session) CompleteSummary(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summary.Summary = text
	s.summary.Loading = false
}

// Summary 要約パネルの状態スナップショットを返します
func (s *Session) Summary() SummaryState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summary
}

// Preferences 現在のユーザー設定を返します
func (s *Session) Preferences() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.prefs
	prefs.PreferredBrands = append([]string{}, s.prefs.PreferredBrands...)
	return prefs
}

// SetBudget 予算を更新します。設定値は全体を置き換えます。
func (s *Session) SetBudget(budget string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = models.Preferences{
		Budget:              budget,
		PreferredBrands:     s.prefs.PreferredBrands,
		SustainabilityFocus: s.prefs.SustainabilityFocus,
	}
}

// SetPreferredBrands 優先ブランドを更新します
func (s *Session) SetPreferredBrands(brands []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = models.Preferences{
		Budget:              s.prefs.Budget,
		PreferredBrands:     brands,
		SustainabilityFocus: s.prefs.SustainabilityFocus,
	}
}

// SetSustainabilityFocus サステナビリティ重視フラグを更新します
func (s *Session) SetSustainabilityFocus(focus bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = models.Preferences{
		Budget:              s.prefs.Budget,
		PreferredBrands:     s.prefs.PreferredBrands,
		SustainabilityFocus: focus,
	}
}

// ParseBrandList カンマ区切りのブランド欄をパースします。
// トークンを順序維持でトリムし、空要素は捨てます。重複はそのまま残します。
func ParseBrandList(raw string) []string {
	brands := []string{}
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			brands = append(brands, token)
		}
	}
	return brands
}
