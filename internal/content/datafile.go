package content

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	appLog "socsite/internal/log"
	"socsite/internal/model"
)

// RawEvent is an event as authored, in Go source or in the YAML data file.
// Date and Category are validated when records are built.
type RawEvent struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	ImageURL    string `yaml:"image"`
	Link        string `yaml:"link"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Location    string `yaml:"location,omitempty"`
}

type RawMember struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Role        string `yaml:"role"`
	ImageURL    string `yaml:"image,omitempty"`
	Email       string `yaml:"email,omitempty"`
	LinkedInURL string `yaml:"linkedin,omitempty"`
}

type RawTeam struct {
	Name    string      `yaml:"name"`
	Members []RawMember `yaml:"members"`
}

type RawSponsor struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	LogoURL     string `yaml:"logo"`
	WebsiteURL  string `yaml:"website"`
	Description string `yaml:"description"`
	Tier        string `yaml:"tier"`
}

// DataFile is the optional author-maintained override for a site's
// collections. A non-empty collection replaces the built-in one.
type DataFile struct {
	Events   []RawEvent   `yaml:"events"`
	Teams    []RawTeam    `yaml:"teams"`
	Sponsors []RawSponsor `yaml:"sponsors"`
}

// LoadDataFile reads a YAML data file. Unlike the config file, a missing
// data file is an error: the path was set explicitly.
func LoadDataFile(path string) (*DataFile, error) {
	if path == "" {
		return nil, errors.New("data file path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file %q: %w", path, err)
	}
	var df DataFile
	if err := yaml.Unmarshal(b, &df); err != nil {
		return nil, fmt.Errorf("parse data file %q: %w", path, err)
	}
	return &df, nil
}

// dateLayouts are tried in order; the zone-less forms are read in the site's
// configured location.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseEventDate parses an authored date. The error wraps model.ErrInvalidDate.
func ParseEventDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", model.ErrInvalidDate, raw)
}

// BuildEvents turns authored events into records. Bad dates and unknown
// categories never drop a record: the date is marked invalid and the
// category becomes Other, each with a warning.
func BuildEvents(raw []RawEvent, loc *time.Location, source string) []model.EventRecord {
	out := make([]model.EventRecord, 0, len(raw))
	for i, r := range raw {
		rec := model.EventRecord{
			ID:          r.ID,
			Title:       r.Title,
			RawDate:     r.Date,
			ImageURL:    r.ImageURL,
			Link:        r.Link,
			Description: r.Description,
			Location:    r.Location,
			Source:      source,
		}
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("%s-event-%d", source, i+1)
		}

		if t, err := ParseEventDate(r.Date, loc); err != nil {
			appLog.Warn("event date invalid", "id", rec.ID, "date", r.Date)
		} else {
			rec.Date = t
			rec.DateValid = true
		}

		cat, coerced := model.CoerceCategory(r.Category)
		if coerced {
			appLog.Warn("event category coerced to Other", "id", rec.ID, "category", r.Category)
		}
		rec.Category = cat

		out = append(out, rec)
	}
	return out
}

func BuildTeams(raw []RawTeam) []model.TeamCategory {
	out := make([]model.TeamCategory, 0, len(raw))
	for _, t := range raw {
		members := make([]model.Member, 0, len(t.Members))
		for _, m := range t.Members {
			members = append(members, model.Member(m))
		}
		out = append(out, model.TeamCategory{Name: t.Name, Members: members})
	}
	return out
}

func BuildSponsors(raw []RawSponsor) []model.Sponsor {
	out := make([]model.Sponsor, 0, len(raw))
	for _, r := range raw {
		tier, coerced := model.CoerceSponsorTier(r.Tier)
		if coerced {
			appLog.Warn("sponsor tier coerced to Other", "id", r.ID, "tier", r.Tier)
		}
		out = append(out, model.Sponsor{
			ID:          r.ID,
			Name:        r.Name,
			LogoURL:     r.LogoURL,
			WebsiteURL:  r.WebsiteURL,
			Description: r.Description,
			Tier:        tier,
		})
	}
	return out
}

// Apply merges the data file into site, replacing non-empty collections.
func (df *DataFile) Apply(site *model.Site, loc *time.Location) {
	if df == nil {
		return
	}
	if len(df.Events) > 0 {
		site.Events = BuildEvents(df.Events, loc, SourceFile)
	}
	if len(df.Teams) > 0 {
		site.Teams = BuildTeams(df.Teams)
	}
	if len(df.Sponsors) > 0 {
		site.Sponsors = BuildSponsors(df.Sponsors)
	}
}
