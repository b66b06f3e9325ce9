package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/mlb-schedule/internal/domain/schedule"
	"github.com/riskibarqy/mlb-schedule/internal/usecase"
)

const (
	msgStartDateRequired = "startDate is required"
	msgEndDateRequired   = "endDate is required"
	msgStartDateInvalid  = "startDate is invalid. It should be formatted yyyy-mm-dd"
	msgEndDateInvalid    = "endDate is invalid. It should be formatted yyyy-mm-dd"
	msgDateRange         = "endDate must be on or after startDate"
	msgIncludeOdds       = `includeOdds must be either "true" or "false" if included`
)

var calendarDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type scheduleQueryRequest struct {
	StartDate   string `query:"startDate" validate:"required,isodate"`
	EndDate     string `query:"endDate" validate:"required,isodate"`
	IncludeOdds string `query:"includeOdds" validate:"omitempty,oneof=true false"`
}

// fieldChecks are evaluated in order and the first failing one is reported.
var fieldChecks = []struct {
	field   string
	tag     string
	message string
}{
	{field: "startDate", tag: "required", message: msgStartDateRequired},
	{field: "endDate", tag: "required", message: msgEndDateRequired},
	{field: "startDate", tag: "isodate", message: msgStartDateInvalid},
	{field: "endDate", tag: "isodate", message: msgEndDateInvalid},
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSchedule")
	defer span.End()

	query, err := h.parseScheduleQuery(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	days, err := h.scheduleService.GetSchedule(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "get schedule failed",
			"start_date", query.Start.Format(time.DateOnly),
			"end_date", query.End.Format(time.DateOnly),
			"include_odds", query.IncludeOdds,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}
	if days == nil {
		days = []schedule.Day{}
	}

	// the schedule body is the bare day array; only errors use the envelope
	writeJSON(ctx, w, http.StatusOK, days)
}

func (h *Handler) parseScheduleQuery(ctx context.Context, values url.Values) (usecase.ScheduleQuery, error) {
	ctx, span := startSpan(ctx, "httpapi.Handler.parseScheduleQuery")
	defer span.End()

	req := scheduleQueryRequest{
		StartDate:   values.Get("startDate"),
		EndDate:     values.Get("endDate"),
		IncludeOdds: values.Get("includeOdds"),
	}

	failed := make(map[string]string, 3)
	if err := h.validator.StructCtx(ctx, req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return usecase.ScheduleQuery{}, fmt.Errorf("%w: validate schedule query: %v", usecase.ErrInvalidInput, err)
		}
		for _, fe := range fieldErrs {
			failed[fe.Field()] = fe.Tag()
		}
	}

	for _, check := range fieldChecks {
		if failed[check.field] == check.tag {
			return usecase.ScheduleQuery{}, newRequestError(check.message)
		}
	}

	start, _ := time.Parse(time.DateOnly, req.StartDate)
	end, _ := time.Parse(time.DateOnly, req.EndDate)
	if end.Before(start) {
		return usecase.ScheduleQuery{}, newRequestError(msgDateRange)
	}
	if _, bad := failed["includeOdds"]; bad {
		return usecase.ScheduleQuery{}, newRequestError(msgIncludeOdds)
	}

	return usecase.ScheduleQuery{
		Start:       start,
		End:         end,
		IncludeOdds: req.IncludeOdds == "true",
	}, nil
}

// isCalendarDate accepts yyyy-mm-dd strings naming a real day.
func isCalendarDate(value string) bool {
	if !calendarDatePattern.MatchString(value) {
		return false
	}
	_, err := time.Parse(time.DateOnly, value)
	return err == nil
}
