// Package jobs contiene los trabajos programados de la aplicación. El dominio
// no tiene timers propios: el avance del rastreo simulado lo dispara este
// poller llamando a SimulateStep por cada entrega activa.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/tu-usuario/logistica-pro/internal/application/deliveries"
	"github.com/tu-usuario/logistica-pro/pkg/logger"
)

// TrackingSimulatorJob avanza periódicamente las entregas con rastreo activo.
type TrackingSimulatorJob struct {
	uc       *deliveries.UseCase
	cron     *cron.Cron
	interval int
	log      *logger.Logger
}

// NewTrackingSimulatorJob construye el job con el intervalo en segundos.
func NewTrackingSimulatorJob(uc *deliveries.UseCase, intervalSeconds int, log *logger.Logger) *TrackingSimulatorJob {
	if intervalSeconds <= 0 {
		intervalSeconds = 5
	}
	return &TrackingSimulatorJob{
		uc:       uc,
		cron:     cron.New(cron.WithSeconds()),
		interval: intervalSeconds,
		log:      log,
	}
}

// Start programa el poller. Cada tick lista las entregas con rastreo activo y
// simula un paso por cada una; los errores individuales se registran y no
// detienen el resto del lote.
func (j *TrackingSimulatorJob) Start() error {
	spec := fmt.Sprintf("*/%d * * * * *", j.interval)
	_, err := j.cron.AddFunc(spec, j.tick)
	if err != nil {
		return fmt.Errorf("programar simulador: %w", err)
	}
	j.cron.Start()
	j.log.Info().Int("interval_seconds", j.interval).Msg("simulador de rastreo iniciado")
	return nil
}

func (j *TrackingSimulatorJob) tick() {
	ctx := context.Background()
	ids, err := j.uc.ActiveTrackingIDs(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("simulador: listar entregas activas")
		return
	}
	for _, id := range ids {
		if _, err := j.uc.SimulateStep(ctx, id); err != nil {
			// una carrera con complete/cancel apaga el rastreo entre el
			// listado y el paso; no es un error del lote
			j.log.Warn().Err(err).Str("delivery_id", id).Msg("simulador: paso fallido")
		}
	}
}

// Stop detiene el poller.
func (j *TrackingSimulatorJob) Stop() {
	j.cron.Stop()
	j.log.Info().Msg("simulador de rastreo detenido")
}
