package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"shopsense-api/internal/models"
)

// AlertSink アラートメッセージの追記先（通常はSession）
type AlertSink interface {
	AppendAlertMessage(text string) models.Message
}

// DealAlertEngine 価格監視アラートの登録と、価格下落のシミュレーションを行います。
// 一定間隔のタイマーでアラートを1件ランダムに選び、目標価格の90%へ下落したことにして
// 会話へ通知し、そのアラートを削除します（発火は1回限り）。
type DealAlertEngine struct {
	mu       sync.Mutex
	alerts   []models.DealAlert
	sink     AlertSink
	interval time.Duration
	rearm    chan struct{}
	rng      *rand.Rand
}

// NewDealAlertEngine 新しいアラートエンジンを作成
func NewDealAlertEngine(sink AlertSink, interval time.Duration) *DealAlertEngine {
	return &DealAlertEngine{
		sink:     sink,
		interval: interval,
		rearm:    make(chan struct{}, 1),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RegisterAlert 商品の最安オファーを目標価格としてアラートを登録します。
// オファーが無い、価格を1つもパースできない、または同名のアラートが既にある場合は何もしません。
func (e *DealAlertEngine) RegisterAlert(product models.Product) (models.DealAlert, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(product.Offers) == 0 {
		return models.DealAlert{}, false
	}
	for _, alert := range e.alerts {
		if alert.ProductName == product.Name {
			return models.DealAlert{}, false
		}
	}

	best, ok := BestOffer(product.Offers)
	if !ok {
		return models.DealAlert{}, false
	}

	alert := models.DealAlert{
		ID:          models.NewID(),
		ProductName: product.Name,
		TargetPrice: best.Price,
	}
	e.alerts = append(e.alerts, alert)
	e.pokeRearm()
	return alert, true
}

// RemoveAlert IDが一致するアラートを削除します。存在しなければ何もしません。
func (e *DealAlertEngine) RemoveAlert(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.removeLocked(id)
	e.pokeRearm()
}

// Alerts アクティブなアラートのスナップショットを返します
func (e *DealAlertEngine) Alerts() []models.DealAlert {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := make([]models.DealAlert, len(e.alerts))
	copy(snapshot, e.alerts)
	return snapshot
}

// Run 価格下落シミュレーションのループを実行します。ctxのキャンセルで停止します。
// アラート集合が変化するたびにタイマーを張り直します。
func (e *DealAlertEngine) Run(ctx context.Context) {
	timer := time.NewTimer(e.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.rearm:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(e.interval)
		case <-timer.C:
			e.fire()
			timer.Reset(e.interval)
		}
	}
}

// fire アラートを1件選んで価格下落を通知し、そのアラートを削除します
func (e *DealAlertEngine) fire() {
	e.mu.Lock()

	if len(e.alerts) == 0 {
		e.mu.Unlock()
		return
	}

	alert := e.alerts[e.rng.Intn(len(e.alerts))]

	// 登録時に検証済みなので通らないはずだが、パース不能な価格で発火させない
	magnitude, ok := ParsePrice(alert.TargetPrice)
	if !ok {
		e.mu.Unlock()
		return
	}

	// 最新のリストから削除する。古いスナップショットを使うと、発火と同時に
	// ユーザーが削除したアラートを復活させてしまう。
	e.removeLocked(alert.ID)
	e.mu.Unlock()

	dropped := FormatAmount(magnitude * 0.9)
	symbol := CurrencySymbol(alert.TargetPrice)
	text := fmt.Sprintf(
		"📉 Price Drop Alert! %s is now %s%s (was %s). Grab the deal before it's gone!",
		alert.ProductName, symbol, dropped, alert.TargetPrice)

	e.sink.AppendAlertMessage(text)
}

func (e *DealAlertEngine) removeLocked(id string) {
	for i, alert := range e.alerts {
		if alert.ID == id {
			e.alerts = append(e.alerts[:i], e.alerts[i+1:]...)
			return
		}
	}
}

// pokeRearm タイマーの張り直しを要求します。ブロックはしません。
func (e *DealAlertEngine) pokeRearm() {
	select {
	case e.rearm <- struct{}{}:
	default:
	}
}
