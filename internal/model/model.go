package model

import (
	"strings"
	"time"
)

// Category tags an event's type. The set is closed; see Categories.
type Category string

const (
	CategoryRegular  Category = "Regular"
	CategoryWorkshop Category = "Workshop"
	CategoryWellness Category = "Wellness"
	CategorySocial   Category = "Social"
	CategoryCultural Category = "Cultural"
	CategoryAcademic Category = "Academic"
	CategoryOther    Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryRegular,
	CategoryWorkshop,
	CategoryWellness,
	CategorySocial,
	CategoryCultural,
	CategoryAcademic,
	CategoryOther,
}

func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// ParseCategory resolves s case-insensitively to a Category.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, v := range Categories {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", &UnknownValueError{Kind: "category", Value: s, sentinel: ErrUnknownCategory}
}

// CoerceCategory is ParseCategory that maps unknown values to CategoryOther.
// coerced reports whether the input was replaced.
func CoerceCategory(s string) (c Category, coerced bool) {
	c, err := ParseCategory(s)
	if err != nil {
		return CategoryOther, true
	}
	return c, false
}

// Selection is a filter choice: a Category or the All sentinel.
type Selection string

const SelectAll Selection = "All"

// ParseSelection never fails: empty and unknown values select All.
func ParseSelection(s string) Selection {
	if c, err := ParseCategory(s); err == nil {
		return Selection(c)
	}
	return SelectAll
}

func (s Selection) IsAll() bool { return s == SelectAll }

func (s Selection) Category() Category { return Category(s) }

// EventRecord is a single society event. Records are built once at load
// time and treated as read-only afterwards.
type EventRecord struct {
	ID          string
	Title       string
	Date        time.Time
	DateValid   bool
	RawDate     string
	ImageURL    string
	Link        string
	Description string
	Category    Category
	Location    string

	// Source is "builtin", "file" or a feed ID.
	Source string
}

const InvalidDateLabel = "Invalid Date"

// DisplayDate formats the date for cards, or InvalidDateLabel.
func (e EventRecord) DisplayDate() string {
	if !e.DateValid {
		return InvalidDateLabel
	}
	return e.Date.Format("January 2, 2006")
}

// Member is one person on a society team.
type Member struct {
	ID          string
	Name        string
	Role        string
	ImageURL    string
	Email       string
	LinkedInURL string
}

// TeamCategory is a named, ordered group of members (e.g. "Executives").
type TeamCategory struct {
	Name    string
	Members []Member
}

type SponsorTier string

const (
	TierMajor      SponsorTier = "Major"
	TierSupporting SponsorTier = "Supporting"
	TierOther      SponsorTier = "Other"
)

var SponsorTiers = []SponsorTier{TierMajor, TierSupporting, TierOther}

func ParseSponsorTier(s string) (SponsorTier, error) {
	s = strings.TrimSpace(s)
	for _, v := range SponsorTiers {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", &UnknownValueError{Kind: "sponsor tier", Value: s, sentinel: ErrUnknownTier}
}

func CoerceSponsorTier(s string) (t SponsorTier, coerced bool) {
	t, err := ParseSponsorTier(s)
	if err != nil {
		return TierOther, true
	}
	return t, false
}

type Sponsor struct {
	ID          string
	Name        string
	LogoURL     string
	WebsiteURL  string
	Description string
	Tier        SponsorTier
}

// SocialLink is a footer/JSON-LD profile link.
type SocialLink struct {
	Label string
	URL   string
	Icon  string
}

// Feature is a short highlight block on the home and about pages.
type Feature struct {
	Icon  string
	Title string
	Text  string
}

// Site is one society's profile plus its content collections.
type Site struct {
	Key         string
	Name        string
	ShortName   string
	Tagline     string
	BaseURL     string
	Description string
	Keywords    []string
	ThemeColor  string

	Email       string
	Phone       string
	Address     string
	MapEmbedURL string

	LogoURL          string
	EventFallback    string
	MemberFallback   string
	GenericFallback  string
	Social           []SocialLink
	HeroTitle        string
	HeroSubtitle     string
	Mission          string
	Highlights       []string
	Features         []Feature
	Offers           []Feature
	MemberCountLabel string

	Events   []EventRecord
	Teams    []TeamCategory
	Sponsors []Sponsor
}
