package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shopsense-api/internal/models"

	"github.com/stretchr/testify/assert"
)

// stubAI テスト用のAssistantAI実装
type stubAI struct {
	recommendFn func(ctx context.Context, query string, prefs models.Preferences) (*RecommendationResult, error)
	summarizeFn func(ctx context.Context, productName string) (string, error)
}

func (s *stubAI) Recommend(ctx context.Context, query string, prefs models.Preferences) (*RecommendationResult, error) {
	return s.recommendFn(ctx, query, prefs)
}

func (s *stubAI) SummarizeReviews(ctx context.Context, productName string) (string, error) {
	return s.summarizeFn(ctx, productName)
}

func okRecommendation() *RecommendationResult {
	return &RecommendationResult{
		ResponseText: "Here are a few picks for you.",
		Products: []models.Product{
			{
				Name:        "WH-1000XM5",
				Description: "Noise cancelling headphones",
				ImageURL:    "https://picsum.photos/400/300",
				Offers: []models.Offer{
					{Source: models.SourceAmazon, Price: "$299.00", URL: "https://example.com/a"},
				},
			},
		},
	}
}

func TestSendMessageAppendsUserThenAI(t *testing.T) {
	ai := &stubAI{
		recommendFn: func(ctx context.Context, query string, prefs models.Preferences) (*RecommendationResult, error) {
			return okRecommendation(), nil
		},
	}
	assistant := NewAssistantService(ai, NewSession())

	turn, err := assistant.SendMessage(context.Background(), "  best headphones?  ")
	assert.NoError(t, err)
	assert.Len(t, turn, 2)
	assert.Equal(t, models.SenderUser, turn[0].Sender)
	assert.Equal(t, "best headphones?", turn[0].Text)
	assert.Equal(t, models.SenderAI, turn[1].Sender)
	assert.Len(t, turn[1].Products, 1)

	// 挨拶 + ユーザー + AI の順でちょうど3件
	messages := assistant.Session().Messages()
	assert.Len(t, messages, 3)
	assert.Equal(t, turn[0].ID, messages[1].ID)
	assert.Equal(t, turn[1].ID, messages[2].ID)
}

func TestSendMessageRejectsEmptyInput(t *testing.T) {
	ai := &stubAI{
		recommendFn: func(ctx context.Context, query string, prefs models.Preferences) (*RecommendationResult, error) {
			t.Fatal("recommend should not be called for empty input")
			return nil, nil
		},
	}
	assistant := NewAssistantService(ai, NewSession())

	_, err := assistant.SendMessage(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, assistant.Session().Messages(), 1)
}

func TestSendMessageFailureAppendsFixedErrorText(t *testing.T) {
	ai := &stubAI{
		recommendFn: func(ctx context.Context, query string, prefs models.Preferences) (*RecommendationResult, error) {
			return nil, errors.New(MsgRecommendFailed)
		},
	}
	assistant := NewAssistantService(ai, NewSession())

	turn, err := assistant.SendMessage(context.Background(), "best headphones?")
	assert.NoError(t, err)
	assert.Equal(t, MsgRecommendFailed, turn[1].Text)
	assert.Empty(t, turn[1].Products)

	// 失敗してもセッションは使い続けられる
	ai.recommendFn = func(ctx context.Context, query string, prefs models.Preferences) (*RecommendationResult, error) {
		return okRecommendation(), nil
	}
	turn, err = assistant.SendMessage(context.Background(), "try again")
	assert.NoError(t, err)
	assert.NotEmpty(t, turn[1].Products)
}

func TestSendMessageWhileLoadingIsNoOp(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	ai := &stubAI{
		recommendFn: func(ctx context.Context, query string, prefs models.Preferences) (*RecommendationResult, error) {
			close(started)
			<-release
			return okRecommendation(), nil
		},
	}
	assistant := NewAssistantService(ai, NewSession())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := assistant.SendMessage(context.Background(), "first")
		assert.NoError(t, err)
	}()

	<-started

	// 処理中の送信は無視され、ユーザーメッセージは追記されない
	_, err := assistant.SendMessage(context.Background(), "second")
	assert.ErrorIs(t, err, ErrRequestInFlight)
	assert.Len(t, assistant.Session().Messages(), 2) // 挨拶 + "first"

	close(release)
	wg.Wait()

	messages := assistant.Session().Messages()
	assert.Len(t, messages, 3)
	assert.Equal(t, "first", messages[1].Text)
}

func TestSummarizeProductStoresResult(t *testing.T) {
	ai := &stubAI{
		summarizeFn: func(ctx context.Context, productName string) (string, error) {
			return "Pros: great sound. Cons: pricey.", nil
		},
	}
	assistant := NewAssistantService(ai, NewSession())

	text := assistant.SummarizeProduct(context.Background(), "WH-1000XM5")
	assert.Contains(t, text, "Pros:")

	state := assistant.Session().Summary()
	assert.Equal(t, "WH-1000XM5", state.ProductName)
	assert.Equal(t, text, state.Summary)
	assert.False(t, state.Loading)
}

func TestSummarizeProductFailureStoresFixedText(t *testing.T) {
	ai := &stubAI{
		summarizeFn: func(ctx context.Context, productName string) (string, error) {
			return "", errors.New(MsgSummaryFailed)
		},
	}
	assistant := NewAssistantService(ai, NewSession())

	text := assistant.SummarizeProduct(context.Background(), "WH-1000XM5")
	assert.Equal(t, MsgSummaryFailed, text)
	assert.Equal(t, MsgSummaryFailed, assistant.Session().Summary().Summary)
}

func TestSummarizeLastWriteWins(t *testing.T) {
	started := make(chan string, 2)
	releaseA := make(chan struct{})
	releaseB := make(chan struct{})
	ai := &stubAI{
		summarizeFn: func(ctx context.Context, productName string) (string, error) {
			started <- productName
			if productName == "Product A" {
				<-releaseA
			} else {
				<-releaseB
			}
			return "summary of " + productName, nil
		},
	}
	assistant := NewAssistantService(ai, NewSession())

	doneA := make(chan struct{})
	doneB := make(chan struct{})
	go func() {
		defer close(doneA)
		assistant.SummarizeProduct(context.Background(), "Product A")
	}()
	waitForStart(t, started, "Product A")

	go func() {
		defer close(doneB)
		assistant.SummarizeProduct(context.Background(), "Product B")
	}()
	waitForStart(t, started, "Product B")

	// Bが先に完了し、Aが後から完了する。キャンセルはないため最後に完了したAが残る。
	close(releaseB)
	<-doneB
	close(releaseA)
	<-doneA

	state := assistant.Session().Summary()
	assert.Equal(t, "Product B", state.ProductName)
	assert.Equal(t, "summary of Product A", state.Summary)
	assert.False(t, state.Loading)
}

func waitForStart(t *testing.T, started chan string, want string) {
	t.Helper()
	select {
	case got := <-started:
		if got != want {
			t.Fatalf("expected %q to start, got %q", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q to start", want)
	}
}
