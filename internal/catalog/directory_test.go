package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"socsite/internal/model"
)

func TestSelectTeam(t *testing.T) {
	teams := []model.TeamCategory{
		{Name: "Executives", Members: []model.Member{{ID: "a", Name: "Annie"}}},
		{Name: "Directors", Members: []model.Member{{ID: "b", Name: "Ben"}, {ID: "c", Name: "Cat"}}},
	}

	name, members := SelectTeam(teams, "")
	assert.Equal(t, "Executives", name)
	assert.Len(t, members, 1)

	name, members = SelectTeam(teams, "directors")
	assert.Equal(t, "Directors", name)
	assert.Len(t, members, 2)

	name, members = SelectTeam(teams, "Subcommittee")
	assert.Equal(t, "Subcommittee", name)
	assert.NotNil(t, members)
	assert.Empty(t, members)

	_, members = SelectTeam(nil, "")
	assert.Empty(t, members)

	assert.Equal(t, []string{"Executives", "Directors"}, TeamNames(teams))
}

func TestGroupSponsors(t *testing.T) {
	sponsors := []model.Sponsor{
		{ID: "s1", Tier: model.TierOther},
		{ID: "m1", Tier: model.TierMajor},
		{ID: "m2", Tier: model.TierMajor},
	}

	groups := GroupSponsors(sponsors)

	if assert.Len(t, groups, 2) {
		assert.Equal(t, model.TierMajor, groups[0].Tier)
		assert.Len(t, groups[0].Sponsors, 2)
		assert.Equal(t, model.TierOther, groups[1].Tier)
	}
	assert.Empty(t, GroupSponsors(nil))
}

func TestFindSponsor(t *testing.T) {
	sponsors := []model.Sponsor{{ID: "kpmg", Name: "KPMG"}}

	s, ok := FindSponsor(sponsors, "kpmg")
	assert.True(t, ok)
	assert.Equal(t, "KPMG", s.Name)

	_, ok = FindSponsor(sponsors, "nope")
	assert.False(t, ok)

	_, ok = FindSponsor(sponsors, "")
	assert.False(t, ok)
}
