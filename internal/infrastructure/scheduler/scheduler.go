// Package scheduler jobs en segundo plano con gocron: drenaje de la cola de
// email y cierre de temporizadores abandonados.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/jhoicas/kinetic/pkg/logger"
)

// EmailDrainer envía los emails encolados de proveedores asíncronos.
type EmailDrainer interface {
	DrainQueued(ctx context.Context, limit int) (int, error)
}

// TimerSweeper cierra los temporizadores abiertos más allá del máximo diario.
type TimerSweeper interface {
	CloseStaleTimers(ctx context.Context) (int, error)
}

// Config intervalos de los jobs. Un intervalo <= 0 desactiva el job.
type Config struct {
	EmailDrainInterval time.Duration
	EmailDrainBatch    int
	TimerSweepInterval time.Duration
	// JobTimeout acota cada ejecución; por defecto el propio intervalo.
	JobTimeout time.Duration
}

// Scheduler envuelve un gocron.Scheduler con los jobs de la aplicación.
type Scheduler struct {
	cron    gocron.Scheduler
	cfg     Config
	drainer EmailDrainer
	sweeper TimerSweeper
	log     *logger.Logger
}

// New registra los jobs sin arrancarlos. drainer o sweeper nil omiten su job.
func New(cfg Config, drainer EmailDrainer, sweeper TimerSweeper, log *logger.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.EmailDrainBatch <= 0 {
		cfg.EmailDrainBatch = 50
	}
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	s := &Scheduler{cron: cron, cfg: cfg, drainer: drainer, sweeper: sweeper, log: log.Component("scheduler")}

	if drainer != nil && cfg.EmailDrainInterval > 0 {
		if err := s.every("email-drain", cfg.EmailDrainInterval, s.DrainEmails); err != nil {
			return nil, err
		}
	}
	if sweeper != nil && cfg.TimerSweepInterval > 0 {
		if err := s.every("timer-sweep", cfg.TimerSweepInterval, s.SweepTimers); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// every registra un job en modo singleton: si la ejecución anterior sigue
// en curso, la siguiente se reprograma en vez de solaparse.
func (s *Scheduler) every(name string, interval time.Duration, run func(context.Context) (int, error)) error {
	timeout := s.cfg.JobTimeout
	if timeout <= 0 {
		timeout = interval
	}
	_, err := s.cron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			n, err := run(ctx)
			if err != nil {
				s.log.Error().Err(err).Str("job", name).Msg("[SCHEDULER] job failed")
				return
			}
			if n > 0 {
				s.log.Info().Str("job", name).Int("processed", n).Msg("[SCHEDULER] job done")
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("scheduler: job %s: %w", name, err)
	}
	return nil
}

// Jobs nombres de los jobs registrados.
func (s *Scheduler) Jobs() []string {
	jobs := s.cron.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

// DrainEmails una pasada del drenaje de la cola de email.
func (s *Scheduler) DrainEmails(ctx context.Context) (int, error) {
	if s.drainer == nil {
		return 0, errors.New("scheduler: email drainer not configured")
	}
	return s.drainer.DrainQueued(ctx, s.cfg.EmailDrainBatch)
}

// SweepTimers una pasada del cierre de temporizadores abandonados.
func (s *Scheduler) SweepTimers(ctx context.Context) (int, error) {
	if s.sweeper == nil {
		return 0, errors.New("scheduler: timer sweeper not configured")
	}
	return s.sweeper.CloseStaleTimers(ctx)
}

// Start arranca los jobs; no bloquea.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Strs("jobs", s.Jobs()).Msg("[SCHEDULER] started")
}

// Shutdown detiene los jobs y espera a que terminen los que están en curso.
func (s *Scheduler) Shutdown() error {
	if err := s.cron.Shutdown(); err != nil {
		return fmt.Errorf("scheduler: shutdown: %w", err)
	}
	return nil
}
