package models

import (
	"time"

	"gorm.io/gorm"
)

// DealMirror is the local read-replica row of a CRM deal, kept fresh by the
// deal mirror worker. SQL rankings and revenue rollups read from this table
// instead of hitting the CRM on every request.
type DealMirror struct {
	HSObjectID        string     `gorm:"column:hs_object_id;primaryKey" json:"hs_object_id"`
	DealName          string     `gorm:"column:dealname" json:"dealname"`
	Pipeline          string     `gorm:"index" json:"pipeline"`
	DealStage         string     `gorm:"column:dealstage;index" json:"dealstage"`
	Amount            *float64   `json:"amount,omitempty"`
	ValorGanho        *float64   `gorm:"column:valor_ganho" json:"valor_ganho,omitempty"`
	TipoDeReceita     string     `gorm:"column:tipo_de_receita" json:"tipo_de_receita"`
	TipoDeNegociacao  string     `gorm:"column:tipo_de_negociacao" json:"tipo_de_negociacao"`
	CloseDate         *time.Time `gorm:"column:closedate;index" json:"closedate,omitempty"`
	HubspotOwnerID    string     `gorm:"column:hubspot_owner_id" json:"hubspot_owner_id"`
	AnalistaComercial string     `gorm:"column:analista_comercial" json:"analista_comercial"`
	PRVendedor        string     `gorm:"column:pr_vendedor" json:"pr_vendedor"`
	CriadoPor         string     `gorm:"column:criado_por_" json:"criado_por_"`
	DataDeAgendamento *time.Time `gorm:"column:data_de_agendamento;index" json:"data_de_agendamento,omitempty"`

	Timestamps
}

func (DealMirror) TableName() string { return "deals" }

// DealStagePipeline maps CRM stage ids to their human labels, used to
// recognize won stages ("ganho", "faturamento", "aguardando") in SQL.
type DealStagePipeline struct {
	StageID       string `gorm:"column:stage_id;primaryKey" json:"stage_id"`
	StageLabel    string `gorm:"column:stage_label" json:"stage_label"`
	PipelineID    string `gorm:"column:pipeline_id" json:"pipeline_id"`
	PipelineLabel string `gorm:"column:pipeline_label" json:"pipeline_label"`
	DealIsClosed  bool   `gorm:"column:deal_isclosed" json:"deal_isclosed"`
}

func (DealStagePipeline) TableName() string { return "deal_stages_pipelines" }

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
