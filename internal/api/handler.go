package api

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/terraincognita07/daybloom/internal/logging"
	"github.com/terraincognita07/daybloom/internal/services"
	"go.uber.org/zap"
)

// Services bundles the domain services behind the HTTP surface.
type Services struct {
	Todos       *services.TodoService
	Schedule    *services.ScheduleService
	Calendar    *services.CalendarService
	Period      *services.PeriodService
	SpecialDays *services.SpecialDayService
	Export      *services.ExportService
	Suggester   services.TaskSuggester
}

type Options struct {
	Location     *time.Location
	Logger       *zap.Logger
	SecretKey    []byte
	LockPINHash  string
	CookieSecure bool
	Gatherer     prometheus.Gatherer
	Now          func() time.Time
}

type Handler struct {
	todos       *services.TodoService
	schedule    *services.ScheduleService
	calendar    *services.CalendarService
	period      *services.PeriodService
	specialDays *services.SpecialDayService
	export      *services.ExportService
	suggester   services.TaskSuggester

	location      *time.Location
	logger        *zap.Logger
	secretKey     []byte
	pinHash       string
	cookieSecure  bool
	gatherer      prometheus.Gatherer
	now           func() time.Time
	unlockLimiter *attemptLimiter
}

func NewHandler(svc Services, options Options) (*Handler, error) {
	if svc.Todos == nil || svc.Schedule == nil || svc.Calendar == nil || svc.Period == nil || svc.SpecialDays == nil || svc.Export == nil {
		return nil, errors.New("all organizer services are required")
	}
	if options.LockPINHash != "" && len(options.SecretKey) == 0 {
		return nil, errors.New("secret key is required when the lock is enabled")
	}

	location := options.Location
	if location == nil {
		location = time.Local
	}
	suggester := svc.Suggester
	if suggester == nil {
		suggester = services.StaticSuggester{}
	}
	gatherer := options.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	now := options.Now
	if now == nil {
		now = time.Now
	}

	return &Handler{
		todos:         svc.Todos,
		schedule:      svc.Schedule,
		calendar:      svc.Calendar,
		period:        svc.Period,
		specialDays:   svc.SpecialDays,
		export:        svc.Export,
		suggester:     suggester,
		location:      location,
		logger:        logging.OrNop(options.Logger).Named("api"),
		secretKey:     options.SecretKey,
		pinHash:       options.LockPINHash,
		cookieSecure:  options.CookieSecure,
		gatherer:      gatherer,
		now:           now,
		unlockLimiter: newAttemptLimiter(),
	}, nil
}

func (handler *Handler) currentTime() time.Time {
	return handler.now().In(handler.location)
}

func (handler *Handler) today() time.Time {
	return services.DateAtLocation(handler.now(), handler.location)
}
