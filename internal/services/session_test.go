package services

import (
	"testing"

	"shopsense-api/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionSeedsGreeting(t *testing.T) {
	session := NewSession()

	messages := session.Messages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "init", messages[0].ID)
	assert.Equal(t, models.SenderAI, messages[0].Sender)
	assert.Equal(t, models.TypeMessage, messages[0].Type)
	assert.Equal(t, GreetingText, messages[0].Text)
}

func TestSessionDefaultPreferences(t *testing.T) {
	session := NewSession()

	prefs := session.Preferences()
	assert.Equal(t, "under $500", prefs.Budget)
	assert.Empty(t, prefs.PreferredBrands)
	assert.False(t, prefs.SustainabilityFocus)
}

func TestSessionPreferenceSetters(t *testing.T) {
	session := NewSession()

	session.SetBudget("under $1000")
	session.SetPreferredBrands([]string{"Sony", "Apple"})
	session.SetSustainabilityFocus(true)

	prefs := session.Preferences()
	assert.Equal(t, "under $1000", prefs.Budget)
	assert.Equal(t, []string{"Sony", "Apple"}, prefs.PreferredBrands)
	assert.True(t, prefs.SustainabilityFocus)
}

func TestParseBrandList(t *testing.T) {
	// 空要素は捨てる、順序は維持、重複排除はしない
	assert.Equal(t, []string{"Sony", "Apple", "Samsung"}, ParseBrandList(" Sony,  Apple ,,Samsung"))
	assert.Equal(t, []string{"Sony", "Sony"}, ParseBrandList("Sony,Sony"))
	assert.Empty(t, ParseBrandList(""))
	assert.Empty(t, ParseBrandList(" , , "))
}

func TestSessionAppendOrdering(t *testing.T) {
	session := NewSession()

	session.AppendUserMessage("best headphones?")
	session.AppendAIMessage("Here are some options.", []models.Product{{Name: "WH-1000XM5"}})
	session.AppendAlertMessage("price dropped")

	messages := session.Messages()
	assert.Len(t, messages, 4)
	assert.Equal(t, models.SenderUser, messages[1].Sender)
	assert.Equal(t, models.SenderAI, messages[2].Sender)
	assert.Equal(t, models.TypeAlert, messages[3].Type)

	// Messagesはスナップショットを返すので、呼び出し側の変更は影響しない
	messages[0].Text = "mutated"
	assert.Equal(t, GreetingText, session.Messages()[0].Text)
}

func TestSessionRequestFlag(t *testing.T) {
	session := NewSession()

	assert.True(t, session.TryBeginRequest())
	assert.False(t, session.TryBeginRequest())

	session.EndRequest()
	assert.True(t, session.TryBeginRequest())
}
