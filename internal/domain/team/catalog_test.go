package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticCatalog_List(t *testing.T) {
	teams := NewStaticCatalog().List()
	require.Len(t, teams, 30)

	seenNames := make(map[string]struct{}, len(teams))
	seenAbbr := make(map[string]struct{}, len(teams))
	for _, item := range teams {
		require.NoError(t, item.Validate())
		_, dupName := seenNames[item.Name]
		_, dupAbbr := seenAbbr[item.Abbreviation]
		assert.False(t, dupName, "duplicate name %s", item.Name)
		assert.False(t, dupAbbr, "duplicate abbreviation %s", item.Abbreviation)
		seenNames[item.Name] = struct{}{}
		seenAbbr[item.Abbreviation] = struct{}{}
	}
}

func TestStaticCatalog_ListReturnsCopy(t *testing.T) {
	catalog := NewStaticCatalog()
	teams := catalog.List()
	teams[0].Name = "mutated"

	assert.NotEqual(t, "mutated", catalog.List()[0].Name)
}

func TestStaticCatalog_Abbreviation(t *testing.T) {
	catalog := NewStaticCatalog()

	abbr, ok := catalog.Abbreviation("Detroit Tigers")
	assert.True(t, ok)
	assert.Equal(t, "DET", abbr)

	abbr, ok = catalog.Abbreviation(" St. Louis Cardinals ")
	assert.True(t, ok)
	assert.Equal(t, "STL", abbr)

	_, ok = catalog.Abbreviation("Montreal Expos")
	assert.False(t, ok)
}

func TestTeam_Validate(t *testing.T) {
	assert.Error(t, Team{Abbreviation: "DET"}.Validate())
	assert.Error(t, Team{Name: "Detroit Tigers"}.Validate())
	assert.NoError(t, Team{Name: "Detroit Tigers", Abbreviation: "DET"}.Validate())
}
