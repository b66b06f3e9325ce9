package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/mlb-schedule/internal/domain/team"
)

type TeamService struct {
	catalog team.Catalog
}

func NewTeamService(catalog team.Catalog) *TeamService {
	return &TeamService{catalog: catalog}
}

func (s *TeamService) ListTeams(ctx context.Context) ([]team.Team, error) {
	_, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	if s.catalog == nil {
		return []team.Team{}, nil
	}
	return s.catalog.List(), nil
}

// GetTeamByAbbreviation looks a team up by its abbreviation, case-insensitively.
func (s *TeamService) GetTeamByAbbreviation(ctx context.Context, abbreviation string) (team.Team, error) {
	_, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeamByAbbreviation")
	defer span.End()

	abbreviation = strings.TrimSpace(abbreviation)
	if abbreviation == "" {
		return team.Team{}, fmt.Errorf("%w: abbreviation is required", ErrInvalidInput)
	}
	if s.catalog != nil {
		for _, item := range s.catalog.List() {
			if strings.EqualFold(item.Abbreviation, abbreviation) {
				return item, nil
			}
		}
	}
	return team.Team{}, fmt.Errorf("%w: team abbreviation=%s", ErrNotFound, abbreviation)
}
