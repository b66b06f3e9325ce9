package httpapi

import (
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/mlb-schedule/internal/platform/logging"
	"github.com/riskibarqy/mlb-schedule/internal/usecase"
)

type Handler struct {
	scheduleService *usecase.ScheduleService
	teamService     *usecase.TeamService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	scheduleService *usecase.ScheduleService,
	teamService *usecase.TeamService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scheduleService: scheduleService,
		teamService:     teamService,
		logger:          logger,
		validator:       newValidator(),
	}
}

// newValidator reports fields by their query parameter name and knows the
// calendar date format used by every date parameter.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("query"); name != "" {
			return name
		}
		return field.Name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return isCalendarDate(fl.Field().String())
	})
	return v
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
