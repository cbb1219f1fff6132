package workers

import (
	"context"
	"log"
	"strconv"
	"time"

	"hall-da-fama/models"
	"hall-da-fama/services"
	"hall-da-fama/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// mirrorProperties are the CRM properties the local deals table carries.
var mirrorProperties = []string{
	"dealname", "pipeline", "dealstage", "amount", "valor_ganho",
	"tipo_de_receita", "tipo_de_negociacao", "closedate",
	"hubspot_owner_id", "analista_comercial", "pr_vendedor",
	"criado_por_", "data_de_agendamento",
}

// DealMirrorWorker keeps the local deals read-replica fresh by polling the
// CRM for recently modified deals and bulk-upserting them.
type DealMirrorWorker struct {
	Hub *services.HubSpotClient
	DB  *gorm.DB
}

func NewDealMirrorWorker(hub *services.HubSpotClient, db *gorm.DB) *DealMirrorWorker {
	return &DealMirrorWorker{Hub: hub, DB: db}
}

// dealToMirror maps a CRM property bag to a mirror row.
func dealToMirror(deal services.HubSpotDeal) models.DealMirror {
	row := models.DealMirror{
		HSObjectID:        deal.ID,
		DealName:          deal.Properties["dealname"],
		Pipeline:          deal.Properties["pipeline"],
		DealStage:         deal.Properties["dealstage"],
		TipoDeReceita:     deal.Properties["tipo_de_receita"],
		TipoDeNegociacao:  deal.Properties["tipo_de_negociacao"],
		HubspotOwnerID:    deal.Properties["hubspot_owner_id"],
		AnalistaComercial: deal.Properties["analista_comercial"],
		PRVendedor:        deal.Properties["pr_vendedor"],
		CriadoPor:         deal.Properties["criado_por_"],
	}
	if raw := deal.Properties["amount"]; raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			row.Amount = &v
		}
	}
	if raw := deal.Properties["valor_ganho"]; raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			row.ValorGanho = &v
		}
	}
	if raw := deal.Properties["closedate"]; raw != "" {
		if t, err := utils.ParseHubSpotTimestamp(raw); err == nil {
			row.CloseDate = &t
		}
	}
	if raw := deal.Properties["data_de_agendamento"]; raw != "" {
		if t, err := utils.ParseHubSpotTimestamp(raw); err == nil {
			row.DataDeAgendamento = &t
		}
	}
	return row
}

// SyncSince fetches deals modified since the cutoff and upserts them.
// Returns how many rows were written.
func (w *DealMirrorWorker) SyncSince(ctx context.Context, since time.Time) (int, error) {
	deals, err := w.Hub.SearchAllDeals(ctx, services.SearchRequest{
		FilterGroups: []services.SearchFilterGroup{{Filters: []services.SearchFilter{
			{PropertyName: "hs_lastmodifieddate", Operator: "GTE", Value: strconv.FormatInt(since.UnixMilli(), 10)},
		}}},
		Properties: mirrorProperties,
		Limit:      100,
	})
	if err != nil {
		return 0, err
	}
	if len(deals) == 0 {
		return 0, nil
	}

	rows := make([]models.DealMirror, 0, len(deals))
	for _, deal := range deals {
		rows = append(rows, dealToMirror(deal))
	}

	err = w.DB.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "hs_object_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"dealname", "pipeline", "dealstage", "amount", "valor_ganho",
				"tipo_de_receita", "tipo_de_negociacao", "closedate",
				"hubspot_owner_id", "analista_comercial", "pr_vendedor",
				"criado_por_", "data_de_agendamento", "updated_at",
			}),
		},
	).Create(&rows).Error
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// SyncStages refreshes the stage-id to label table from the CRM pipeline
// definitions.
func (w *DealMirrorWorker) SyncStages(ctx context.Context) error {
	pipelines, err := w.Hub.GetDealPipelines(ctx)
	if err != nil {
		return err
	}

	var rows []models.DealStagePipeline
	for _, p := range pipelines {
		for _, stage := range p.Stages {
			rows = append(rows, models.DealStagePipeline{
				StageID:       stage.ID,
				StageLabel:    stage.Label,
				PipelineID:    p.ID,
				PipelineLabel: p.Label,
				DealIsClosed:  stage.Metadata.IsClosed == "true",
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	return w.DB.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "stage_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"stage_label", "pipeline_id", "pipeline_label", "deal_isclosed",
			}),
		},
	).Create(&rows).Error
}

// Run polls the CRM until the context ends. The first sync covers the last
// 45 days so restarts rebuild the month's revenue window.
func (w *DealMirrorWorker) Run(ctx context.Context, pollInterval time.Duration) {
	log.Println("Starting deal mirror polling...")
	lastSyncTime := time.Now().UTC().Add(-45 * 24 * time.Hour)

	if err := w.SyncStages(ctx); err != nil {
		log.Printf("❌ Failed to sync pipeline stages: %v", err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Deal mirror polling stopped.")
			return
		case <-ticker.C:
			tickTime := time.Now().UTC()

			count, err := w.SyncSince(ctx, lastSyncTime)
			if err != nil {
				// keep the same window so the next tick retries it
				log.Printf("❌ Error syncing deals: %v", err)
				continue
			}

			if count > 0 {
				log.Printf("✅ Upserted %d deal(s) into the mirror.", count)
			}
			lastSyncTime = tickTime
		}
	}
}
