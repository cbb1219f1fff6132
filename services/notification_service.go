// services/notification_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hall-da-fama/models"
	"hall-da-fama/utils"

	"gorm.io/gorm"
)

// ErrMissingDealID means the webhook payload had no recognizable deal id
// under any known alias; handlers map it to a 400.
var ErrMissingDealID = errors.New("dealId is required")

// Known alias lists for each logical webhook field. HubSpot workflows are
// configured by hand and have shipped every one of these spellings.
var (
	aliasDealID      = []string{"dealId", "deal_id", "hs_object_id"}
	aliasDealName    = []string{"dealName", "deal_name", "dealname"}
	aliasAmount      = []string{"amount", "valor_ganho"}
	aliasOwner       = []string{"ownerName", "owner_name", "analista_comercial"}
	aliasSDR         = []string{"sdrName", "sdr_name", "pr_vendedor"}
	aliasLDR         = []string{"ldrName", "ldr_name", "criado_por_"}
	aliasCompany     = []string{"companyName", "company_name", "associated_company_name"}
	aliasProduct     = []string{"produto_principal", "productName"}
	aliasClosedDate  = []string{"closedDate", "closed_date", "closedate"}
	aliasDealStage   = []string{"dealStage", "deal_stage", "dealstage"}
)

func firstAlias(payload map[string]interface{}, aliases []string) (string, bool) {
	for _, key := range aliases {
		if raw, ok := payload[key]; ok && raw != nil {
			switch v := raw.(type) {
			case string:
				if v != "" {
					return v, true
				}
			case float64:
				return strconv.FormatFloat(v, 'f', -1, 64), true
			}
		}
	}
	return "", false
}

// ParseDealWonPayload normalizes an inbound deal-won payload into a
// notification. Owner/SDR/LDR values may be CRM ids; they are resolved to
// names through the analyst mapping. Unparseable amounts count as zero.
func ParseDealWonPayload(payload map[string]interface{}) (*models.DealNotification, error) {
	dealID, ok := firstAlias(payload, aliasDealID)
	if !ok {
		return nil, ErrMissingDealID
	}

	amount := 0.0
	if rawAmount, ok := firstAlias(payload, aliasAmount); ok {
		if v, err := strconv.ParseFloat(rawAmount, 64); err == nil {
			amount = v
		}
	}

	dealName, _ := firstAlias(payload, aliasDealName)
	if dealName == "" {
		dealName = "Deal sem nome"
	}
	ownerID, _ := firstAlias(payload, aliasOwner)
	sdrID, _ := firstAlias(payload, aliasSDR)
	ldrID, _ := firstAlias(payload, aliasLDR)
	company, _ := firstAlias(payload, aliasCompany)
	productRaw, _ := firstAlias(payload, aliasProduct)
	stage, _ := firstAlias(payload, aliasDealStage)
	pipeline, _ := firstAlias(payload, []string{"pipeline"})
	// closed date is carried only inside the stored payload
	_, _ = firstAlias(payload, aliasClosedDate)

	rawPayload, err := json.Marshal(payload)
	if err != nil {
		rawPayload = []byte("{}")
	}

	return &models.DealNotification{
		ID:          dealID,
		DealName:    dealName,
		Amount:      amount,
		OwnerName:   utils.GetAnalystName(ownerID),
		SDRName:     utils.GetAnalystName(sdrID),
		LDRName:     utils.GetAnalystName(ldrID),
		CompanyName: company,
		ProductName: utils.NormalizeProductName(productRaw),
		Pipeline:    pipeline,
		DealStage:   stage,
		Payload:     string(rawPayload),
		ViewedBy:    "[]",
	}, nil
}

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Insert stores a notification unless the deal id is already known.
// Returns true when a new row was created, false for a duplicate delivery.
func (s *NotificationService) Insert(n *models.DealNotification) (bool, error) {
	var existing models.DealNotification
	err := s.DB.Select("id").Where("id = ?", n.ID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to check for existing notification: %w", err)
	}

	if err := s.DB.Create(n).Error; err != nil {
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}
	return true, nil
}

// PendingNotification is the shape the dashboard front end polls for.
type PendingNotification struct {
	ID          string  `json:"id"`
	DealName    string  `json:"dealName"`
	Amount      float64 `json:"amount"`
	OwnerName   string  `json:"ownerName"`
	SDRName     string  `json:"sdrName"`
	LDRName     string  `json:"ldrName"`
	CompanyName string  `json:"companyName"`
	ProductName string  `json:"productName"`
	Timestamp   string  `json:"timestamp"`
}

// FetchPending lists recent notifications, optionally excluding ones a
// client already viewed and ones created before a cutoff.
func (s *NotificationService) FetchPending(clientID string, since *time.Time, limit int) ([]PendingNotification, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	query := s.DB.Model(&models.DealNotification{})
	if since != nil {
		query = query.Where("created_at > ?", *since)
	}

	var rows []models.DealNotification
	if err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	out := make([]PendingNotification, 0, len(rows))
	for _, row := range rows {
		if clientID != "" && viewedByContains(row.ViewedBy, clientID) {
			continue
		}
		out = append(out, PendingNotification{
			ID:          row.ID,
			DealName:    row.DealName,
			Amount:      row.Amount,
			OwnerName:   row.OwnerName,
			SDRName:     row.SDRName,
			LDRName:     row.LDRName,
			CompanyName: row.CompanyName,
			ProductName: utils.NormalizeProductName(row.ProductName),
			Timestamp:   row.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// MarkViewed records that a client displayed the celebration for a deal.
// Returns true when the row was updated, false when already marked or the
// deal is unknown.
func (s *NotificationService) MarkViewed(dealID, clientID string) (bool, error) {
	if clientID == "" {
		return false, nil
	}

	updated := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var row models.DealNotification
		if err := tx.Where("id = ?", dealID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if viewedByContains(row.ViewedBy, clientID) {
			return nil
		}

		var viewers []string
		_ = json.Unmarshal([]byte(row.ViewedBy), &viewers)
		viewers = append(viewers, clientID)
		raw, err := json.Marshal(viewers)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.DealNotification{}).Where("id = ?", dealID).
			Update("viewed_by", string(raw)).Error; err != nil {
			return err
		}
		updated = true
		return nil
	})
	return updated, err
}

func viewedByContains(viewedBy, clientID string) bool {
	var viewers []string
	if err := json.Unmarshal([]byte(viewedBy), &viewers); err != nil {
		return false
	}
	for _, v := range viewers {
		if v == clientID {
			return true
		}
	}
	return false
}
