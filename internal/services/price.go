package services

import (
	"math"
	"strconv"
	"strings"

	"shopsense-api/internal/models"
)

// ParsePrice 価格文字列から数値部分を取り出します。
// 数字と小数点以外の文字をすべて除去してからパースします。
// パースできない場合は ok=false（NaN相当）を返し、呼び出し側は比較・計算に使ってはいけません。
func ParsePrice(price string) (float64, bool) {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// CurrencySymbol 価格文字列から通貨記号を取り出します。
// 数字・小数点・桁区切り・空白を除去した残りが記号です。
func CurrencySymbol(price string) string {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatAmount 金額を小数点以下2桁で整形します
func FormatAmount(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
}

// BestOffer オファー列から最安値のオファーを選びます。
// 左から順に縮約し、厳密な小なり比較で更新するため、同額なら先に現れた方が勝ちます。
// 価格をパースできないオファーは最安値になれません。1件も選べなければ ok=false。
func BestOffer(offers []models.Offer) (models.Offer, bool) {
	var best models.Offer
	bestPrice := 0.0
	found := false

	for _, offer := range offers {
		price, ok := ParsePrice(offer.Price)
		if !ok {
			continue
		}
		if !found || price < bestPrice {
			best = offer
			bestPrice = price
			found = true
		}
	}

	return best, found
}
