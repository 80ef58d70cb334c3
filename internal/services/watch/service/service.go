// Package service runs the background supervisors: auto-shutdown,
// forgot-shutdown warnings, daily reminders, and credential reaping.
//
// Each supervisor is a ticker loop over a snapshot query. Every per-item
// failure is logged and skipped so one bad row never stalls the sweep.
//
// The watch process runs separately from the API, so the per-user keyed
// lock only serializes work within this process. The cross-process guard
// is the database: guarded updates on ended_at IS NULL and the one-open-
// session unique index.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"workclock/internal/adapters/notify"
	"workclock/internal/modkit/repokit"
	perr "workclock/internal/platform/errors"
	"workclock/internal/platform/logger"
	"workclock/internal/platform/synckit"
	"workclock/internal/platform/timex"
	holidaysdom "workclock/internal/services/holidays/domain"
	usersdom "workclock/internal/services/users/domain"
	"workclock/internal/services/watch/domain"
	"workclock/internal/services/watch/repo"
)

// Config carries the supervisor tunables; zero values take defaults
type Config struct {
	AutoShutdownInterval time.Duration
	ForgotInterval       time.Duration
	ReminderInterval     time.Duration
	ReapInterval         time.Duration

	// ReminderWindow is how far a local clock may sit from its target
	// time and still fire the reminder
	ReminderWindow time.Duration

	// ForgotThresholdPercent applies when the user has not set their own
	ForgotThresholdPercent int

	// ForgotHistory is how many completed sessions feed the trailing average
	ForgotHistory int
}

func (c Config) withDefaults() Config {
	if c.AutoShutdownInterval <= 0 {
		c.AutoShutdownInterval = 3 * time.Minute
	}
	if c.ForgotInterval <= 0 {
		c.ForgotInterval = 3 * time.Minute
	}
	if c.ReminderInterval <= 0 {
		c.ReminderInterval = time.Minute
	}
	if c.ReapInterval <= 0 {
		c.ReapInterval = 5 * time.Minute
	}
	if c.ReminderWindow <= 0 {
		c.ReminderWindow = time.Minute
	}
	if c.ForgotThresholdPercent <= 0 {
		c.ForgotThresholdPercent = 150
	}
	if c.ForgotHistory <= 0 {
		c.ForgotHistory = 30
	}
	return c
}

// bookkeeping caps keep the process bounded no matter how long it runs
const (
	warnedCap = 4096
	sentCap   = 16384
)

// Service defines the service contract for the watch process
type Service interface{ domain.RunnerPort }

// Svc implements the Service interface
type Svc struct {
	db     repokit.TxRunner
	repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	locks  *synckit.Keyed
	sink   notify.Sink

	holidays holidaysdom.CheckerPort
	sweeper  usersdom.SweeperPort
	cfg      Config

	// now is a seam for tests
	now func() time.Time

	// warned holds session IDs already given a forgot-shutdown warning
	warned *cappedSet

	// sent holds user|kind|local-date reminder keys; the date in the key
	// makes local-day rollover implicit
	sent *cappedSet
}

// New creates the watch service
// holidays and sweeper may be nil; the related behavior is skipped
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Storage],
	locks *synckit.Keyed,
	sink notify.Sink,
	holidays holidaysdom.CheckerPort,
	sweeper usersdom.SweeperPort,
	cfg Config,
) *Svc {
	if db == nil {
		panic("watch.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("watch.Service requires a non nil Repo binder")
	}
	if locks == nil {
		panic("watch.Service requires a non nil keyed mutex set")
	}
	if sink == nil {
		panic("watch.Service requires a non nil notification sink")
	}
	return &Svc{
		db:       db,
		repo:     binder.Bind(db),
		binder:   binder,
		locks:    locks,
		sink:     sink,
		holidays: holidays,
		sweeper:  sweeper,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
		warned:   newCappedSet(warnedCap),
		sent:     newCappedSet(sentCap),
	}
}

// Run starts all supervisors and blocks until ctx ends
func (s *Svc) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	start := func(name string, every time.Duration, tick func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, name, every, tick)
		}()
	}

	start("auto_shutdown", s.cfg.AutoShutdownInterval, s.AutoShutdownTick)
	start("forgot_shutdown", s.cfg.ForgotInterval, s.ForgotShutdownTick)
	start("reminders", s.cfg.ReminderInterval, s.ReminderTick)
	if s.sweeper != nil {
		start("credential_reaper", s.cfg.ReapInterval, s.ReapTick)
	}

	wg.Wait()
	return ctx.Err()
}

func (s *Svc) loop(ctx context.Context, name string, every time.Duration, tick func(context.Context) error) {
	l := logger.Named("watch").With().Str("supervisor", name).Logger()
	l.Info().Dur("every", every).Msg("supervisor started")

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Info().Msg("supervisor stopped")
			return
		case <-t.C:
			if err := tick(ctx); err != nil {
				l.Error().Err(err).Msg("tick failed")
			}
		}
	}
}

// AutoShutdownTick ends every open session that has outrun its owner's cap.
// The session is ended at started-at plus the cap, not at observation time
func (s *Svc) AutoShutdownTick(ctx context.Context) error {
	now := s.now().UTC()
	active, err := s.repo.ActiveSessions(ctx)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "load active sessions")
	}

	for _, a := range active {
		hours := a.CapFor()
		if hours == nil {
			continue
		}
		capDur := time.Duration(*hours * float64(time.Hour))
		if now.Sub(a.Session.StartedAt) <= capDur {
			continue
		}
		s.shutDown(ctx, a, capDur)
	}
	return nil
}

func (s *Svc) shutDown(ctx context.Context, a domain.ActiveSession, capDur time.Duration) {
	endedAt := a.Session.StartedAt.Add(capDur)
	key := a.Session.UserID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	var ended bool
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		ok, err := s.binder.Bind(q).End(ctx, a.Session.ID, endedAt)
		ended = ok
		return err
	})
	if err != nil {
		logger.Named("watch").Error().Err(err).
			Str("session_id", a.Session.ID.String()).
			Msg("auto-shutdown end failed")
		return
	}
	// already closed by the user between snapshot and lock
	if !ended {
		return
	}

	s.sink.Send(ctx, a.Session.UserID, notify.KindAutoShutdown,
		fmt.Sprintf("your %s session hit the %.1fh cap and was ended automatically",
			a.Session.State, capDur.Hours()))
}

// ForgotShutdownTick warns owners of sessions running well past their usual
// length, at most once per session
func (s *Svc) ForgotShutdownTick(ctx context.Context) error {
	now := s.now().UTC()
	active, err := s.repo.ActiveSessions(ctx)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "load active sessions")
	}

	for _, a := range active {
		if s.warned.Has(a.Session.ID.String()) {
			continue
		}
		threshold := s.cfg.ForgotThresholdPercent
		if a.ForgotThresholdPercent != nil {
			threshold = *a.ForgotThresholdPercent
		}

		hist, err := s.repo.RecentHistory(ctx, a.Session.UserID, a.Session.State, s.cfg.ForgotHistory)
		if err != nil {
			logger.Named("watch").Error().Err(err).
				Str("user_id", a.Session.UserID.String()).
				Msg("history load failed")
			continue
		}
		// no history, nothing to compare against
		if hist.Count == 0 {
			continue
		}

		limit := hist.AvgDuration * time.Duration(threshold) / 100
		elapsed := now.Sub(a.Session.StartedAt)
		if elapsed <= limit {
			continue
		}

		s.sink.Send(ctx, a.Session.UserID, notify.KindForgotShutdown,
			fmt.Sprintf("your %s session has been running for %s, well past your usual %s; forgot to stop it?",
				a.Session.State, elapsed.Round(time.Minute), hist.AvgDuration.Round(time.Minute)))
		s.warned.Add(a.Session.ID.String())
	}
	return nil
}

// ReminderTick fires lunch, end-of-day, and work-hours-complete reminders at
// each user's local clock, once per local day
func (s *Svc) ReminderTick(ctx context.Context) error {
	now := s.now().UTC()
	users, err := s.repo.ReminderUsers(ctx)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "load reminder users")
	}

	for _, u := range users {
		if err := s.remindUser(ctx, u, now); err != nil {
			logger.Named("watch").Error().Err(err).
				Str("user_id", u.ID.String()).
				Msg("reminder sweep failed for user")
		}
	}
	return nil
}

func (s *Svc) remindUser(ctx context.Context, u domain.ReminderUser, now time.Time) error {
	local := timex.Shift(now, u.UTCOffsetMinutes)
	localDate := local.Format("2006-01-02")

	if s.holidays != nil {
		day := timex.DayUTC(local)
		off, err := s.holidays.IsHolidayOn(ctx, u.ID, day)
		if err != nil {
			return err
		}
		if off {
			return nil
		}
	}

	if u.LunchReminderHour != nil && u.LunchReminderMinute != nil {
		s.remindAt(ctx, u, local, localDate, *u.LunchReminderHour, *u.LunchReminderMinute,
			notify.KindLunchReminder, "time for lunch")
	}
	if u.EndOfDayHour != nil && u.EndOfDayMinute != nil {
		s.remindAt(ctx, u, local, localDate, *u.EndOfDayHour, *u.EndOfDayMinute,
			notify.KindEndOfDayReminder, "the workday is over, time to head home")
	}
	if u.DailyTargetHours != nil {
		if err := s.checkDailyTarget(ctx, u, now, localDate); err != nil {
			return err
		}
	}
	return nil
}

// remindAt sends kind once per local day when the local clock sits within
// the reminder window of hour:minute
func (s *Svc) remindAt(
	ctx context.Context,
	u domain.ReminderUser,
	local time.Time,
	localDate string,
	hour, minute int,
	kind notify.Kind,
	message string,
) {
	target := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, time.UTC)
	diff := local.Sub(target)
	if diff < 0 {
		diff = -diff
	}
	if diff > s.cfg.ReminderWindow {
		return
	}

	key := reminderKey(u.ID, kind, localDate)
	if s.sent.Has(key) {
		return
	}
	s.sink.Send(ctx, u.ID, kind, message)
	s.sent.Add(key)
}

// checkDailyTarget fires work-hours-complete once the user's working time on
// the local day reaches their daily target
func (s *Svc) checkDailyTarget(ctx context.Context, u domain.ReminderUser, now time.Time, localDate string) error {
	key := reminderKey(u.ID, notify.KindWorkHoursComplete, localDate)
	if s.sent.Has(key) {
		return nil
	}

	local := timex.Shift(now, u.UTCOffsetMinutes)
	dayStartLocal := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	winStart := dayStartLocal.Add(-time.Duration(u.UTCOffsetMinutes) * time.Minute)
	winEnd := winStart.Add(24 * time.Hour)

	secs, err := s.repo.WorkedSeconds(ctx, u.ID, winStart, winEnd, now)
	if err != nil {
		return err
	}
	if secs < *u.DailyTargetHours*3600 {
		return nil
	}

	s.sink.Send(ctx, u.ID, notify.KindWorkHoursComplete,
		fmt.Sprintf("you have completed your %.1fh target for today", *u.DailyTargetHours))
	s.sent.Add(key)
	return nil
}

// ReapTick deletes expired or consumed registration credentials
func (s *Svc) ReapTick(ctx context.Context) error {
	n, err := s.sweeper.SweepCredentials(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Named("watch").Info().Int("deleted", n).Msg("reaped stale credentials")
	}
	return nil
}

func reminderKey(userID uuid.UUID, kind notify.Kind, localDate string) string {
	return userID.String() + "|" + string(kind) + "|" + localDate
}

// cappedSet is a bounded string set with FIFO eviction
type cappedSet struct {
	mu    sync.Mutex
	limit int
	set   map[string]struct{}
	order []string
}

func newCappedSet(limit int) *cappedSet {
	return &cappedSet{limit: limit, set: make(map[string]struct{})}
}

func (c *cappedSet) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.set[key]
	return ok
}

func (c *cappedSet) Add(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.set[key]; ok {
		return
	}
	c.set[key] = struct{}{}
	c.order = append(c.order, key)
	for len(c.order) > c.limit {
		delete(c.set, c.order[0])
		c.order = c.order[1:]
	}
}
