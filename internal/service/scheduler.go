package service

import (
	"context"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/logger"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/repository"
)

// ScheduleRunnerService fires due schedules in the background: on each
// tick it scans enabled schedules, dispatches the prescribed command
// for any schedule whose weekday and start minute match, and stamps
// last_run so a schedule fires at most once per minute slot.
type ScheduleRunnerService struct {
	scheduleRepo repository.ScheduleRepo
	publisher    CommandPublisher
	log          *logger.Logger
}

func NewScheduleRunnerService(scheduleRepo repository.ScheduleRepo, publisher CommandPublisher, log *logger.Logger) *ScheduleRunnerService {
	return &ScheduleRunnerService{scheduleRepo: scheduleRepo, publisher: publisher, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *ScheduleRunnerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.fireDue(ctx, now.UTC())
		}
	}
}

func (s *ScheduleRunnerService) fireDue(ctx context.Context, now time.Time) {
	schedules, err := s.scheduleRepo.ListEnabled(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("schedule_scan_failed", "err", err)
		}
		return
	}

	for _, sched := range schedules {
		if !dueNow(sched, now) {
			continue
		}
		s.fire(ctx, sched, now)
	}
}

func (s *ScheduleRunnerService) fire(ctx context.Context, sched models.Schedule, now time.Time) {
	cmd := DeviceCommand{Action: sched.Action}
	if sched.Action == models.ActionSetAngle {
		cmd.Angle = sched.Parameters.Angle
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishCommand(ctx, sched.DeviceID, cmd); err != nil {
		if s.log != nil {
			s.log.Errorw("schedule_fire_failed", "err", err, "schedule_id", sched.ID, "device_id", sched.DeviceID)
		}
		return
	}

	if err := s.scheduleRepo.MarkRun(ctx, sched.ID, now); err != nil && s.log != nil {
		s.log.Errorw("schedule_mark_run_failed", "err", err, "schedule_id", sched.ID)
	}
	if s.log != nil {
		s.log.Infow("schedule_fired", "schedule_id", sched.ID, "device_id", sched.DeviceID, "action", sched.Action)
	}
}
