package gemini

import "google.golang.org/genai"

func int64Ptr(i int64) *int64 {
	return &i
}

// offerSchema オファーのレスポンススキーマ
func offerSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"source": {
				Type: genai.TypeString,
				Enum: []string{"Amazon", "Flipkart", "Other"},
			},
			"price": {
				Type:        genai.TypeString,
				Description: "Price with currency, e.g., '$189.99' or '₹14,500'.",
			},
			"url": {
				Type:        genai.TypeString,
				Description: "A dummy URL to the product page, e.g., https://example.com/product.",
			},
		},
		Required: []string{"source", "price", "url"},
	}
}

// productSchema 商品のレスポンススキーマ
func productSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name": {
				Type:        genai.TypeString,
				Description: "Full name of the product.",
			},
			"description": {
				Type:        genai.TypeString,
				Description: "A concise, compelling description of the product.",
			},
			"imageUrl": {
				Type:        genai.TypeString,
				Description: "A placeholder image URL from picsum.photos, e.g., https://picsum.photos/400/300.",
			},
			"offers": {
				Type:        genai.TypeArray,
				Description: "A list of offers for this product from different e-commerce sources.",
				Items:       offerSchema(),
				MinItems:    int64Ptr(1),
			},
		},
		Required: []string{"name", "description", "imageUrl", "offers"},
	}
}

// recommendationSchema レコメンド全体のレスポンススキーマ
func recommendationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"response_text": {
				Type:        genai.TypeString,
				Description: "A friendly, conversational text response to the user's query that introduces the products.",
			},
			"products": {
				Type:     genai.TypeArray,
				Items:    productSchema(),
				MinItems: int64Ptr(3),
				MaxItems: int64Ptr(5),
			},
		},
		Required:         []string{"response_text", "products"},
		PropertyOrdering: []string{"response_text", "products"},
	}
}
