package catalog

import (
	"strings"

	"socsite/internal/model"
)

// SelectTeam returns the members of the named team, or an empty slice.
// An empty name selects the first team.
func SelectTeam(teams []model.TeamCategory, name string) (string, []model.Member) {
	if len(teams) == 0 {
		return name, []model.Member{}
	}
	if strings.TrimSpace(name) == "" {
		return teams[0].Name, teams[0].Members
	}
	for _, t := range teams {
		if strings.EqualFold(t.Name, name) {
			return t.Name, t.Members
		}
	}
	return name, []model.Member{}
}

// TeamNames lists team names in authored order.
func TeamNames(teams []model.TeamCategory) []string {
	names := make([]string, 0, len(teams))
	for _, t := range teams {
		names = append(names, t.Name)
	}
	return names
}

// SponsorGroup is one tier section on the sponsors page.
type SponsorGroup struct {
	Tier     model.SponsorTier
	Sponsors []model.Sponsor
}

// GroupSponsors groups sponsors by tier in Major, Supporting, Other order.
// Tiers without sponsors are left out.
func GroupSponsors(sponsors []model.Sponsor) []SponsorGroup {
	groups := make([]SponsorGroup, 0, len(model.SponsorTiers))
	for _, tier := range model.SponsorTiers {
		var members []model.Sponsor
		for _, s := range sponsors {
			if s.Tier == tier {
				members = append(members, s)
			}
		}
		if len(members) > 0 {
			groups = append(groups, SponsorGroup{Tier: tier, Sponsors: members})
		}
	}
	return groups
}

// FindSponsor resolves the sponsor shown in the detail modal.
func FindSponsor(sponsors []model.Sponsor, id string) (model.Sponsor, bool) {
	if id == "" {
		return model.Sponsor{}, false
	}
	for _, s := range sponsors {
		if s.ID == id {
			return s, true
		}
	}
	return model.Sponsor{}, false
}
