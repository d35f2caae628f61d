package gemini

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateResult(t *testing.T) {
	result := &RecommendationResult{
		ResponseText: "Here are some options.",
		Products: []Product{
			{
				Name:        "WH-1000XM5",
				Description: "Headphones",
				ImageURL:    "https://picsum.photos/400/300",
				Offers:      []Offer{{Source: "Amazon", Price: "$299.00", URL: "https://example.com/a"}},
			},
		},
	}
	assert.NoError(t, validateResult(result))

	// response_text欠落は受け入れない
	assert.Error(t, validateResult(&RecommendationResult{}))

	// 商品名の欠落は受け入れない
	assert.Error(t, validateResult(&RecommendationResult{
		ResponseText: "ok",
		Products:     []Product{{Description: "nameless"}},
	}))

	// 価格のないオファーは受け入れない
	assert.Error(t, validateResult(&RecommendationResult{
		ResponseText: "ok",
		Products:     []Product{{Name: "X", Offers: []Offer{{Source: "Amazon", URL: "https://example.com"}}}},
	}))
}

func TestIsInvalidCredential(t *testing.T) {
	assert.True(t, IsInvalidCredential(errors.New("API key not valid. Please pass a valid API key.")))
	assert.True(t, IsInvalidCredential(errors.New("rpc error: code = Unauthenticated desc = API_KEY_INVALID")))
	assert.True(t, IsInvalidCredential(errors.New("googleapi: Error 403: PERMISSION_DENIED")))
	assert.False(t, IsInvalidCredential(errors.New("context deadline exceeded")))
	assert.False(t, IsInvalidCredential(nil))
}

func TestRecommendationSchemaShape(t *testing.T) {
	schema := recommendationSchema()

	assert.Contains(t, schema.Required, "response_text")
	assert.Contains(t, schema.Required, "products")

	products := schema.Properties["products"]
	assert.NotNil(t, products)
	assert.EqualValues(t, 3, *products.MinItems)
	assert.EqualValues(t, 5, *products.MaxItems)

	offers := products.Items.Properties["offers"]
	assert.NotNil(t, offers)
	assert.Contains(t, offers.Items.Properties["source"].Enum, "Amazon")
	assert.Contains(t, offers.Items.Properties["source"].Enum, "Flipkart")
	assert.Contains(t, offers.Items.Properties["source"].Enum, "Other")
}
