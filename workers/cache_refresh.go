package workers

import (
	"context"
	"log"
	"time"

	"hall-da-fama/services"
	"hall-da-fama/utils"

	"github.com/go-co-op/gocron/v2"
)

// CacheRefreshWorker warms the dashboard cache on a schedule so TV screens
// polling with use_cache=true always hit fresh data, and fires the daily
// MVP report.
type CacheRefreshWorker struct {
	Cache   *services.Cache
	Hall    *services.HallService
	Revenue *services.RevenueService
	Reports *services.ReportService
}

func NewCacheRefreshWorker(cache *services.Cache, hall *services.HallService, revenue *services.RevenueService, reports *services.ReportService) *CacheRefreshWorker {
	return &CacheRefreshWorker{Cache: cache, Hall: hall, Revenue: revenue, Reports: reports}
}

// RefreshAll recomputes every cached payload. Failures leave the previous
// value in place.
func (w *CacheRefreshWorker) RefreshAll(ctx context.Context) {
	if data, err := w.Revenue.CurrentMonthRevenue(); err == nil {
		w.Cache.Set(services.CacheKeyRevenue, data)
	} else {
		log.Printf("[CACHE] Falha ao atualizar receita do mês: %v", err)
	}

	if data, err := w.Revenue.TodayRevenue(); err == nil {
		w.Cache.Set(services.CacheKeyRevenueToday, data)
	} else {
		log.Printf("[CACHE] Falha ao atualizar receita de hoje: %v", err)
	}

	if data, err := w.Revenue.PipelineToday(); err == nil {
		w.Cache.Set(services.CacheKeyPipelineToday, data)
	} else {
		log.Printf("[CACHE] Falha ao atualizar pipeline de hoje: %v", err)
	}

	if data, err := w.Hall.TopEVsToday(ctx); err == nil {
		w.Cache.Set(services.CacheKeyHallEVs, data)
	} else {
		log.Printf("[CACHE] Falha ao atualizar ranking de EVs: %v", err)
	}

	if data, err := w.Hall.TopSDRsToday(ctx, services.PipelineNew); err == nil {
		w.Cache.Set(services.CacheKeyHallSDRsNew, data)
	} else {
		log.Printf("[CACHE] Falha ao atualizar ranking de SDRs (NEW): %v", err)
	}

	if data, err := w.Hall.TopSDRsToday(ctx, services.PipelineExpansao); err == nil {
		w.Cache.Set(services.CacheKeyHallSDRsExp, data)
	} else {
		log.Printf("[CACHE] Falha ao atualizar ranking de SDRs (Expansão): %v", err)
	}

	if data, err := w.Hall.TopLDRsToday(ctx); err == nil {
		w.Cache.Set(services.CacheKeyHallLDRs, data)
	} else {
		log.Printf("[CACHE] Falha ao atualizar ranking de LDRs: %v", err)
	}

	log.Println("[CACHE] Atualização periódica concluída")
}

// Start schedules the 10 minute cache refresh and the 20h daily MVP report.
// Jobs stop when ctx ends.
func (w *CacheRefreshWorker) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler(gocron.WithLocation(utils.BrazilTZ))
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			w.RefreshAll(ctx)
		}),
	)
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(20, 0, 0))),
		gocron.NewTask(func() {
			if err := w.Reports.SendDailyMVPReport(ctx); err != nil {
				log.Printf("❌ Falha ao enviar relatório diário de MVPs: %v", err)
			}
		}),
	)
	if err != nil {
		return err
	}

	sched.Start()
	log.Println("[OK] Agendador iniciado (cache 10min, relatório MVP 20h)")

	go func() {
		<-ctx.Done()
		_ = sched.Shutdown()
	}()
	return nil
}
