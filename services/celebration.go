// services/celebration.go
package services

import (
	"bytes"
	"context"
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
)

// CelebrationService produces the celebration card for a won deal. Rendering
// is delegated to an external image renderer; generated cards are archived
// in R2 so the marketing team can reuse them.
type CelebrationService struct {
	RendererURL string
	Config      *utils.ConfigStore
	HTTPClient  *http.Client
}

func NewCelebrationService(config *utils.ConfigStore) *CelebrationService {
	return &CelebrationService{
		RendererURL: os.Getenv("CELEBRATION_RENDERER_URL"),
		Config:      config,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// RenderImage asks the renderer for a celebration PNG. Returns nil bytes
// without error when no renderer is configured, so callers fall back to a
// text-only announcement.
func (s *CelebrationService) RenderImage(ctx context.Context, n *models.DealNotification) ([]byte, error) {
	if s.RendererURL == "" {
		return nil, nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"dealName":    n.DealName,
		"amount":      n.Amount,
		"ownerName":   n.OwnerName,
		"sdrName":     n.SDRName,
		"ldrName":     n.LDRName,
		"companyName": n.CompanyName,
		"productName": n.ProductName,
		"theme":       s.Config.CelebrationTheme().ActiveTheme,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode renderer payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.RendererURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build renderer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("renderer request failed: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("renderer returned status %d", resp.StatusCode)
	}

	image, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read renderer response: %w", err)
	}
	return image, nil
}

// Archive stores a rendered card in R2 under a date-prefixed key. Archiving
// is best effort and never blocks the celebration itself.
func (s *CelebrationService) Archive(ctx context.Context, n *models.DealNotification, image []byte) {
	if len(image) == 0 || !utils.R2Enabled() {
		return
	}

	name := slug.Make(n.DealName)
	if name == "" {
		name = n.ID
	}
	key := fmt.Sprintf("celebrations/%s/%s.png", utils.BrazilDay(time.Now()), name)

	url, err := utils.UploadBytesToR2(ctx, key, image, "image/png")
	if err != nil {
		log.Printf("[AVISO] Falha ao arquivar imagem de celebração: %v", err)
		return
	}
	log.Printf("[OK] Imagem de celebração arquivada: %s", url)
}
