// services/whatsapp.go
package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"hall-da-fama/models"
	"hall-da-fama/utils"

	"github.com/gosimple/slug"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ptBR localizes currency values in outgoing messages (1.234,56).
var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// WhatsAppClient sends messages to the sales group through an Evolution API
// instance. Text and media use separate timeouts since media uploads carry a
// base64 PNG.
type WhatsAppClient struct {
	BaseURL     string
	APIKey      string
	Instance    string
	GroupID     string
	TextClient  *http.Client
	MediaClient *http.Client
}

func NewWhatsAppClient() *WhatsAppClient {
	return &WhatsAppClient{
		BaseURL:     os.Getenv("EVOLUTION_API_URL"),
		APIKey:      os.Getenv("EVOLUTION_API_KEY"),
		Instance:    getEnvDefault("EVOLUTION_INSTANCE_NAME", "RevOps"),
		GroupID:     os.Getenv("ID_GRUPO_REVOPS"),
		TextClient:  &http.Client{Timeout: 10 * time.Second},
		MediaClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Configured reports whether the client has everything it needs to send.
func (c *WhatsAppClient) Configured() bool {
	return c.BaseURL != "" && c.APIKey != "" && c.GroupID != ""
}

func (c *WhatsAppClient) post(ctx context.Context, client *http.Client, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/message/%s/%s", c.BaseURL, path, c.Instance)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("Evolution API request failed: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("Evolution API returned status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}

// SendText sends a plain text message to the configured group.
func (c *WhatsAppClient) SendText(ctx context.Context, text string) error {
	return c.post(ctx, c.TextClient, "sendText", map[string]interface{}{
		"number": c.GroupID,
		"text":   text,
	})
}

// SendImage sends a PNG with a caption to the configured group.
func (c *WhatsAppClient) SendImage(ctx context.Context, image []byte, caption, fileName string) error {
	return c.post(ctx, c.MediaClient, "sendMedia", map[string]interface{}{
		"number":    c.GroupID,
		"mediatype": "image",
		"media":     base64.StdEncoding.EncodeToString(image),
		"caption":   caption,
		"fileName":  fileName,
	})
}

// BuildCelebrationMessage renders the deal-won announcement in the format
// the sales group expects.
func BuildCelebrationMessage(n *models.DealNotification) string {
	var b bytes.Buffer
	b.WriteString("🎉 *CONTRATO ASSINADO!*\n\n")
	b.WriteString(ptBR.Sprintf("💰 *Valor:* R$ %.2f\n", n.Amount))

	dealName := n.DealName
	if dealName == "" {
		dealName = "N/A"
	}
	fmt.Fprintf(&b, "📝 *Deal:* %s\n\n", dealName)

	b.WriteString("👥 *Time Vencedor:*\n")
	if n.OwnerName != "" {
		fmt.Fprintf(&b, "👔 *EV:* %s\n", n.OwnerName)
	}
	if n.SDRName != "" {
		fmt.Fprintf(&b, "📞 *SDR:* %s\n", n.SDRName)
	}
	if n.LDRName != "" {
		fmt.Fprintf(&b, "🎯 *LDR:* %s\n", n.LDRName)
	}

	if n.ProductName != "" {
		fmt.Fprintf(&b, "\n📦 *Produto:* %s\n", n.ProductName)
	} else if n.CompanyName != "" {
		fmt.Fprintf(&b, "\n🏢 *Empresa:* %s\n", n.CompanyName)
	}

	fmt.Fprintf(&b, "📅 *Data:* %s\n", time.Now().In(utils.BrazilTZ).Format("02/01/2006 15:04"))
	return b.String()
}

// CelebrationFileName builds a safe PNG filename from the deal name.
func CelebrationFileName(dealName string) string {
	s := slug.Make(dealName)
	if s == "" {
		s = "deal"
	}
	return fmt.Sprintf("deal_celebration_%s.png", s)
}

// SendDealCelebration announces a won deal. When an image is available it
// goes out with the message as caption; otherwise, or when the media send
// fails, the text goes out alone.
func (c *WhatsAppClient) SendDealCelebration(ctx context.Context, n *models.DealNotification, image []byte) error {
	if !c.Configured() {
		return fmt.Errorf("Evolution API is not configured (EVOLUTION_API_KEY / ID_GRUPO_REVOPS)")
	}

	msg := BuildCelebrationMessage(n)

	if len(image) > 0 {
		err := c.SendImage(ctx, image, msg, CelebrationFileName(n.DealName))
		if err == nil {
			log.Printf("[OK] Celebração enviada com imagem, deal %s", n.DealName)
			return nil
		}
		log.Printf("[AVISO] Falha ao enviar imagem de celebração, tentando texto: %v", err)
	}

	if err := c.SendText(ctx, msg); err != nil {
		return fmt.Errorf("failed to send celebration text: %w", err)
	}
	log.Printf("[OK] Celebração enviada, deal %s", n.DealName)
	return nil
}
