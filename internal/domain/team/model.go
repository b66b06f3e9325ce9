package team

import (
	"fmt"
	"strings"
)

// Team is an MLB club as named by both upstream providers.
type Team struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if strings.TrimSpace(t.Abbreviation) == "" {
		return fmt.Errorf("team abbreviation is required")
	}

	return nil
}
