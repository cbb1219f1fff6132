// services/report_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"hall-da-fama/utils"
)

// ReportService assembles the end-of-day MVP summary and delivers it to the
// sales WhatsApp group.
type ReportService struct {
	Hall     *HallService
	WhatsApp *WhatsAppClient
}

func NewReportService(hall *HallService, whatsapp *WhatsAppClient) *ReportService {
	return &ReportService{Hall: hall, WhatsApp: whatsapp}
}

type mvpSection struct {
	title   string
	fetch   func(ctx context.Context) (*HallResult, error)
	byValue bool
}

// BuildDailyMVPReport queries the four realtime rankings and renders the
// report text. Sections whose query failed are skipped, not fatal.
func (s *ReportService) BuildDailyMVPReport(ctx context.Context) (string, error) {
	sections := []mvpSection{
		{"👔 *MVP EVs*", s.Hall.TopEVsToday, true},
		{"📞 *MVP SDRs (NEW)*", func(ctx context.Context) (*HallResult, error) {
			return s.Hall.TopSDRsToday(ctx, PipelineNew)
		}, false},
		{"📞 *MVP SDRs (Expansão)*", func(ctx context.Context) (*HallResult, error) {
			return s.Hall.TopSDRsToday(ctx, PipelineExpansao)
		}, false},
		{"🎯 *MVP LDRs*", s.Hall.TopLDRsToday, true},
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "🏆 *HALL DA FAMA - %s*\n", time.Now().In(utils.BrazilTZ).Format("02/01/2006"))

	rendered := 0
	for _, section := range sections {
		result, err := section.fetch(ctx)
		if err != nil {
			log.Printf("[AVISO] Relatório MVP: seção %q falhou: %v", section.title, err)
			continue
		}
		rendered++

		fmt.Fprintf(&b, "\n%s\n", section.title)
		if len(result.Data) == 0 {
			b.WriteString("_Sem resultados hoje_\n")
			continue
		}
		for _, entry := range result.Data {
			if section.byValue {
				ptBR.Fprintf(&b, "%d. %s - R$ %.2f (%d deals)\n",
					entry.Position, entry.UserName, entry.Revenue, entry.DealCount)
			} else {
				fmt.Fprintf(&b, "%d. %s - %d agendamentos\n",
					entry.Position, entry.UserName, entry.ScheduledCount)
			}
		}
	}

	if rendered == 0 {
		return "", fmt.Errorf("all MVP ranking queries failed")
	}
	return b.String(), nil
}

// SendDailyMVPReport builds and sends the report. Meant to run at 20h
// Brazil time, after the sales day closes.
func (s *ReportService) SendDailyMVPReport(ctx context.Context) error {
	report, err := s.BuildDailyMVPReport(ctx)
	if err != nil {
		return err
	}
	if !s.WhatsApp.Configured() {
		return fmt.Errorf("Evolution API is not configured, report not sent")
	}
	if err := s.WhatsApp.SendText(ctx, report); err != nil {
		return fmt.Errorf("failed to send MVP report: %w", err)
	}
	log.Println("[OK] Relatório diário de MVPs enviado")
	return nil
}
