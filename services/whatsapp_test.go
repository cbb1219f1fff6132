package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hall-da-fama/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCelebrationMessage(t *testing.T) {
	msg := BuildCelebrationMessage(&models.DealNotification{
		DealName:    "Logcomex Premium",
		Amount:      12500.50,
		OwnerName:   "Ana Souza",
		SDRName:     "Bruno Lima",
		ProductName: "Premium",
	})

	assert.True(t, strings.HasPrefix(msg, "🎉 *CONTRATO ASSINADO!*"))
	assert.Contains(t, msg, "*Deal:* Logcomex Premium")
	assert.Contains(t, msg, "*EV:* Ana Souza")
	assert.Contains(t, msg, "*SDR:* Bruno Lima")
	assert.Contains(t, msg, "*Produto:* Premium")
	assert.Contains(t, msg, "💰 *Valor:* R$ ")
	// roles without a name stay out of the message
	assert.NotContains(t, msg, "*LDR:*")
}

func TestBuildCelebrationMessageCompanyFallback(t *testing.T) {
	msg := BuildCelebrationMessage(&models.DealNotification{
		DealName:    "Deal X",
		CompanyName: "Empresa XYZ",
	})
	assert.Contains(t, msg, "*Empresa:* Empresa XYZ")
	assert.NotContains(t, msg, "*Produto:*")
}

func TestCelebrationFileName(t *testing.T) {
	assert.Equal(t, "deal_celebration_logcomex-premium.png", CelebrationFileName("Logcomex Premium"))
	assert.Equal(t, "deal_celebration_deal.png", CelebrationFileName(""))
}

func newTestWhatsAppClient(baseURL string) *WhatsAppClient {
	return &WhatsAppClient{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Instance:    "RevOps",
		GroupID:     "1203@g.us",
		TextClient:  &http.Client{Timeout: 5 * time.Second},
		MediaClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSendDealCelebrationFallsBackToText(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("apikey"))
		paths = append(paths, r.URL.Path)

		if strings.Contains(r.URL.Path, "sendMedia") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "1203@g.us", payload["number"])
		assert.Contains(t, payload["text"], "CONTRATO ASSINADO")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestWhatsAppClient(server.URL)
	err := client.SendDealCelebration(context.Background(), &models.DealNotification{DealName: "Deal X"}, []byte("png-bytes"))
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, "/message/sendMedia/RevOps", paths[0])
	assert.Equal(t, "/message/sendText/RevOps", paths[1])
}

func TestSendDealCelebrationWithoutImageSendsTextOnly(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/message/sendText/RevOps", r.URL.Path)
	}))
	defer server.Close()

	client := newTestWhatsAppClient(server.URL)
	err := client.SendDealCelebration(context.Background(), &models.DealNotification{DealName: "Deal X"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSendDealCelebrationUnconfigured(t *testing.T) {
	client := &WhatsAppClient{}
	err := client.SendDealCelebration(context.Background(), &models.DealNotification{}, nil)
	assert.Error(t, err)
}
