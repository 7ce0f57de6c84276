package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slitherbot/slither/internal/models"
)

func TestTeamNameByID(t *testing.T) {
	teams := []*models.Team{
		{ID: "team-id-1", Name: "The Mongooses"},
		{ID: "team-id-2", Name: "The Cobras"},
	}

	assert.Equal(t, "The Mongooses", teamNameByID(teams, "team-id-1"))
	assert.Equal(t, "The Cobras", teamNameByID(teams, "team-id-2"))

	// Unknown IDs fall back to the raw ID rather than an empty name
	assert.Equal(t, "team-id-3", teamNameByID(teams, "team-id-3"))
	assert.Equal(t, "team-id-1", teamNameByID(nil, "team-id-1"))
}
