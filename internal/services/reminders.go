package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/terraincognita07/daybloom/internal/models"
	"go.uber.org/zap"
)

const (
	DefaultReminderPollInterval = 10 * time.Second

	ReminderKindPeriod = "period"
	ReminderKindClass  = "class"

	classReminderLeadMin  = 29.0
	classReminderLeadMax  = 31.0
	notifiedRetentionDays = 2

	periodReminderTitle = "🌸 温暖提醒"
	classReminderTitle  = "📚 上课提醒"
	unknownRoom         = "未知"
)

type reminderScheduleSource interface {
	Settings() (models.ScheduleSettings, error)
	Courses() ([]models.Course, error)
}

type reminderPeriodSource interface {
	Data(now time.Time) (models.PeriodData, error)
}

type ReminderMetrics struct {
	Ticks    prometheus.Counter
	Sent     *prometheus.CounterVec
	Failures *prometheus.CounterVec
}

// NewReminderMetrics builds the poller counters and registers them when a
// registerer is given.
func NewReminderMetrics(registerer prometheus.Registerer) *ReminderMetrics {
	metrics := &ReminderMetrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "daybloom",
			Name:      "reminder_ticks_total",
			Help:      "Poller ticks that evaluated reminders.",
		}),
		Sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "daybloom",
			Name:      "reminders_sent_total",
			Help:      "Reminders handed to the sender.",
		}, []string{"kind"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "daybloom",
			Name:      "reminder_send_failures_total",
			Help:      "Reminders the sender failed to deliver.",
		}, []string{"kind"}),
	}
	if registerer != nil {
		registerer.MustRegister(metrics.Ticks, metrics.Sent, metrics.Failures)
	}
	return metrics
}

type notifiedKey struct {
	Date string
	ID   string
}

// ReminderPoller checks the cycle phase and today's courses once per wall
// clock minute and sends each reminder at most once.
type ReminderPoller struct {
	schedule reminderScheduleSource
	period   reminderPeriodSource
	sender   Sender
	logger   *zap.Logger
	metrics  *ReminderMetrics
	location *time.Location
	interval time.Duration
	now      func() time.Time

	mu         sync.Mutex
	lastMinute time.Time
	notified   map[notifiedKey]struct{}
}

type ReminderPollerOption func(poller *ReminderPoller)

func WithReminderInterval(interval time.Duration) ReminderPollerOption {
	return func(poller *ReminderPoller) {
		if interval > 0 {
			poller.interval = interval
		}
	}
}

func WithReminderClock(now func() time.Time) ReminderPollerOption {
	return func(poller *ReminderPoller) {
		if now != nil {
			poller.now = now
		}
	}
}

func WithReminderMetrics(metrics *ReminderMetrics) ReminderPollerOption {
	return func(poller *ReminderPoller) {
		if metrics != nil {
			poller.metrics = metrics
		}
	}
}

func NewReminderPoller(schedule reminderScheduleSource, period reminderPeriodSource, sender Sender, logger *zap.Logger, location *time.Location, options ...ReminderPollerOption) *ReminderPoller {
	if sender == nil {
		sender = DisabledSender{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}

	poller := &ReminderPoller{
		schedule: schedule,
		period:   period,
		sender:   sender,
		logger:   logger.Named("reminders"),
		metrics:  NewReminderMetrics(nil),
		location: location,
		interval: DefaultReminderPollInterval,
		now:      time.Now,
		notified: make(map[notifiedKey]struct{}),
	}
	for _, option := range options {
		option(poller)
	}
	return poller
}

func (poller *ReminderPoller) Start(ctx context.Context) {
	go poller.Run(ctx)
}

// Run polls until ctx is cancelled.
func (poller *ReminderPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(poller.interval)
	defer ticker.Stop()

	poller.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poller.Tick(ctx)
		}
	}
}

// Tick evaluates reminders unless the wall clock minute has not advanced
// since the previous evaluation. It returns the number of reminders sent.
func (poller *ReminderPoller) Tick(ctx context.Context) int {
	now := poller.now().In(poller.location)
	minute := now.Truncate(time.Minute)

	poller.mu.Lock()
	if minute.Equal(poller.lastMinute) {
		poller.mu.Unlock()
		return 0
	}
	poller.lastMinute = minute
	poller.pruneLocked(DateAtLocation(now, poller.location))
	poller.mu.Unlock()

	poller.metrics.Ticks.Inc()

	pending := poller.pendingPeriodReminder(now)
	pending = append(pending, poller.pendingClassReminders(now)...)

	sent := 0
	for _, reminder := range pending {
		if !poller.claim(reminder.key) {
			continue
		}
		if err := poller.sender.Send(ctx, reminder.notification); err != nil {
			poller.metrics.Failures.WithLabelValues(reminder.notification.Kind).Inc()
			poller.logger.Warn("send reminder failed",
				zap.String("kind", reminder.notification.Kind),
				zap.String("id", reminder.key.ID),
				zap.Error(err),
			)
			continue
		}
		poller.metrics.Sent.WithLabelValues(reminder.notification.Kind).Inc()
		sent++
	}
	return sent
}

type pendingReminder struct {
	key          notifiedKey
	notification Notification
}

func (poller *ReminderPoller) pendingPeriodReminder(now time.Time) []pendingReminder {
	if poller.period == nil {
		return nil
	}
	data, err := poller.period.Data(now)
	if err != nil {
		poller.logger.Warn("load period data failed", zap.Error(err))
		return nil
	}

	today := DateAtLocation(now, poller.location)
	phase := ResolveCyclePhase(today, data)
	if phase.Phase != PhaseMenstrual {
		return nil
	}
	return []pendingReminder{{
		key: notifiedKey{Date: FormatDay(today), ID: ReminderKindPeriod},
		notification: Notification{
			Kind:  ReminderKindPeriod,
			Title: periodReminderTitle,
			Body:  fmt.Sprintf("今天是经期第 %d 天。记得多喝热水，注意保暖，不要太劳累哦~", phase.DayOfCycle),
		},
	}}
}

func (poller *ReminderPoller) pendingClassReminders(now time.Time) []pendingReminder {
	if poller.schedule == nil {
		return nil
	}
	settings, err := poller.schedule.Settings()
	if err != nil {
		poller.logger.Warn("load schedule settings failed", zap.Error(err))
		return nil
	}
	courses, err := poller.schedule.Courses()
	if err != nil {
		poller.logger.Warn("load courses failed", zap.Error(err))
		return nil
	}

	today := DateAtLocation(now, poller.location)
	dayKey := FormatDay(today)
	pending := make([]pendingReminder, 0)
	for _, course := range CoursesOnWeekday(courses, ISOWeekday(today)) {
		clock := ClockFromMinutes(SectionStartMinutes(course.StartSection, settings))
		startsAt := time.Date(today.Year(), today.Month(), today.Day(), clock.Hour, clock.Minute, 0, 0, poller.location)
		lead := startsAt.Sub(now).Minutes()
		if lead < classReminderLeadMin || lead > classReminderLeadMax {
			continue
		}

		room := course.Room
		if room == "" {
			room = unknownRoom
		}
		pending = append(pending, pendingReminder{
			key: notifiedKey{Date: dayKey, ID: course.ID},
			notification: Notification{
				Kind:  ReminderKindClass,
				Title: classReminderTitle,
				Body:  fmt.Sprintf("还有30分钟就要上【%s】了 (教室: %s)，快去准备一下吧！", course.Name, room),
			},
		})
	}
	return pending
}

// claim records key as notified and reports whether it was new. A failed
// delivery still counts, so a reminder is attempted once per event.
func (poller *ReminderPoller) claim(key notifiedKey) bool {
	poller.mu.Lock()
	defer poller.mu.Unlock()

	if _, ok := poller.notified[key]; ok {
		return false
	}
	poller.notified[key] = struct{}{}
	return true
}

func (poller *ReminderPoller) pruneLocked(today time.Time) {
	cutoff := FormatDay(today.AddDate(0, 0, -notifiedRetentionDays))
	for key := range poller.notified {
		if key.Date < cutoff {
			delete(poller.notified, key)
		}
	}
}

func (poller *ReminderPoller) notifiedCount() int {
	poller.mu.Lock()
	defer poller.mu.Unlock()
	return len(poller.notified)
}
