package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hugohenrick/gestao-obras/pkg/logger"
	"github.com/robfig/cron/v3"
)

// OverdueMarker é implementado por quem sabe marcar parcelas vencidas (purchase.Manager)
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, ref time.Time) (int64, error)
}

// OverdueJob marca periodicamente como vencidas as parcelas em aberto
type OverdueJob struct {
	marker  OverdueMarker
	logger  logger.Logger
	cron    *cron.Cron
	loc     *time.Location
	timeout time.Duration
	now     func() time.Time
}

// NewOverdueJob cria o agendamento com a expressão cron spec (5 campos) no fuso timezone
func NewOverdueJob(marker OverdueMarker, spec, timezone string, log logger.Logger) (*OverdueJob, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("fuso horário inválido %q: %w", timezone, err)
		}
		loc = l
	}

	job := &OverdueJob{
		marker:  marker,
		logger:  log,
		cron:    cron.New(cron.WithLocation(loc)),
		loc:     loc,
		timeout: 2 * time.Minute,
		now:     time.Now,
	}

	if _, err := job.cron.AddFunc(spec, func() { job.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("expressão cron inválida %q: %w", spec, err)
	}
	return job, nil
}

// Start inicia o agendador em segundo plano
func (j *OverdueJob) Start() {
	j.cron.Start()
	j.logger.Info("agendador de parcelas vencidas iniciado", "proximas", len(j.cron.Entries()))
}

// Stop para o agendador e aguarda a execução em andamento terminar
func (j *OverdueJob) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		j.logger.Warn("agendador encerrado antes do fim da execução em andamento")
	}
}

// Run executa uma rodada: parcelas em aberto com vencimento anterior a hoje passam a vencidas
func (j *OverdueJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	// "hoje" no fuso configurado, expresso como data
	y, m, d := j.now().In(j.loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	n, err := j.marker.MarkOverdue(ctx, today)
	if err != nil {
		j.logger.Error("erro ao marcar parcelas vencidas", "error", err)
		return
	}
	j.logger.Info("parcelas vencidas marcadas", "quantidade", n, "referencia", today.Format("2006-01-02"))
}
