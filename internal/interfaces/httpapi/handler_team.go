package httpapi

import (
	"net/http"

	"github.com/riskibarqy/mlb-schedule/internal/domain/team"
)

type teamDTO struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamService.ListTeams(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeamByAbbreviation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamByAbbreviation")
	defer span.End()

	abbreviation := r.PathValue("abbreviation")
	item, err := h.teamService.GetTeamByAbbreviation(ctx, abbreviation)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "abbreviation", abbreviation, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		Name:         v.Name,
		Abbreviation: v.Abbreviation,
	}
}
