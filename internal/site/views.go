package site

import (
	"html/template"
	"net/url"
	"strings"
	"time"

	"socsite/internal/catalog"
	"socsite/internal/model"
)

// Page is everything the layout needs plus the page-specific Data.
type Page struct {
	Name string
	Path string

	Site        model.Site
	Title       string
	Description string
	Canonical   string
	OGType      string
	OGImage     string
	NoIndex     bool
	EventTimes  []string
	JSONLD      template.JS
	AnalyticsID string
	MapsKey     string
	Refresh     int
	Year        int

	Nav    []NavLink
	Crumbs []Crumb

	Data any
}

// FullTitle is the document title with the site suffix.
func (p *Page) FullTitle() string {
	if p.Title == "" {
		return p.Site.Name
	}
	return p.Title + " | " + p.Site.Name
}

// MapURL is the contact page embed. A configured Maps key switches to the
// Embed API keyed on the address.
func (p *Page) MapURL() string {
	if p.MapsKey != "" && p.Site.Address != "" {
		return "https://www.google.com/maps/embed/v1/place?key=" + url.QueryEscape(p.MapsKey) + "&q=" + url.QueryEscape(p.Site.Address)
	}
	return p.Site.MapEmbedURL
}

type NavLink struct {
	Label  string
	Href   string
	Active bool
}

type Crumb struct {
	Label   string
	Href    string
	Current bool
}

var navItems = []struct{ label, href string }{
	{"Home", "/"},
	{"About", "/about"},
	{"Events", "/events"},
	{"Team", "/team"},
	{"Sponsors", "/sponsors"},
	{"Contact", "/contact"},
}

// Routes lists the indexable page paths, in navigation order.
func Routes() []string {
	out := make([]string, 0, len(navItems))
	for _, n := range navItems {
		out = append(out, n.href)
	}
	return out
}

func (r *Renderer) newPage(in Input, name, path, title, description string) *Page {
	if description == "" {
		description = in.Site.Description
	}
	nav := make([]NavLink, 0, len(navItems))
	for _, n := range navItems {
		nav = append(nav, NavLink{Label: n.label, Href: n.href, Active: n.href == path})
	}

	var crumbs []Crumb
	if path != "/" && title != "" {
		crumbs = []Crumb{{Label: "Home", Href: "/"}, {Label: title, Current: true}}
	}

	ogImage := in.Site.BaseURL + in.Site.LogoURL
	if r.opts.OGImages {
		ogImage = in.Site.BaseURL + "/og/" + name + ".png"
	}

	return &Page{
		Name:        name,
		Path:        path,
		Site:        in.Site,
		Title:       title,
		Description: description,
		Canonical:   in.Site.BaseURL + path,
		OGType:      "website",
		OGImage:     ogImage,
		JSONLD:      organizationJSONLD(in.Site),
		AnalyticsID: r.opts.AnalyticsID,
		MapsKey:     r.opts.MapsKey,
		Year:        in.Now.Year(),
		Nav:         nav,
		Crumbs:      crumbs,
	}
}

// EventCard is an event prepared for display.
type EventCard struct {
	model.EventRecord
	// Start is the RFC3339 start time, empty for an invalid date.
	Start    string
	Image    string
	Fallback string
	Badge    string
	HasLink  bool
	Hidden   bool
}

func (r *Renderer) eventCards(site model.Site, events []model.EventRecord) []EventCard {
	cards := make([]EventCard, 0, len(events))
	for _, ev := range events {
		var start string
		if ev.DateValid {
			start = ev.Date.Format(time.RFC3339)
		}
		cards = append(cards, EventCard{
			EventRecord: ev,
			Start:       start,
			Image:       r.resolveImage(ev.ImageURL, site.EventFallback),
			Fallback:    site.EventFallback,
			Badge:       badgeClass(ev.Category),
			HasLink:     ev.Link != "",
		})
	}
	return cards
}

// skeletonCards is the placeholder count while content loads.
const skeletonCards = 6

type HomeView struct {
	Ready       bool
	Static      bool
	Skeleton    []int
	HorizonDays int
	NearTerm    []EventCard
	// Later holds the upcoming events past the window, rendered hidden on
	// static pages so the browser can bring them into the carousel.
	Later       []EventCard
	HeroImage   string
}

func (r *Renderer) HomePage(in Input) *Page {
	p := r.newPage(in, "home", "/", "", "")
	v := HomeView{
		Ready:       in.Ready,
		Static:      r.opts.Static,
		HorizonDays: r.horizon(),
		HeroImage:   r.resolveImage(in.Site.LogoURL, in.Site.GenericFallback),
	}
	if in.Ready {
		near := catalog.NearTerm(in.Site.Events, in.Now, r.horizon())
		v.NearTerm = r.eventCards(in.Site, near)
		if r.opts.Static {
			end := catalog.EndOfDay(in.Now.AddDate(0, 0, r.horizon()))
			var later []model.EventRecord
			for _, ev := range catalog.Partition(in.Site.Events, in.Now).Upcoming {
				if ev.Date.After(end) {
					later = append(later, ev)
				}
			}
			v.Later = r.eventCards(in.Site, later)
			for i := range v.Later {
				v.Later[i].Hidden = true
			}
		}
	} else {
		v.Skeleton = make([]int, skeletonCards)
		p.Refresh = r.opts.RefreshSeconds
	}
	p.Data = v
	return p
}

func (r *Renderer) horizon() int {
	if r.opts.HorizonDays <= 0 {
		return catalog.DefaultHorizonDays
	}
	return r.opts.HorizonDays
}

func (r *Renderer) AboutPage(in Input) *Page {
	p := r.newPage(in, "about", "/about", "About", "About "+in.Site.Name+": "+in.Site.Mission)
	p.Data = in.Site
	return p
}

type FilterOption struct {
	Label  string
	Href   string
	Active bool
}

// EventSection is one of the two event lists with its own filter.
type EventSection struct {
	Key       string
	Static    bool
	Heading   string
	Selected  model.Selection
	Options   []FilterOption
	Cards     []EventCard
	Total     int
	EmptyHead string
	EmptyText string
}

type EventsView struct {
	Ready    bool
	Skeleton []int
	Upcoming EventSection
	Past     EventSection
}

const (
	paramUpcoming = "upcoming"
	paramPast     = "past"
)

func (r *Renderer) EventsPage(in Input) *Page {
	p := r.newPage(in, "events", "/events", "Events", "Upcoming and past events from "+in.Site.Name+".")
	v := EventsView{Ready: in.Ready}
	if !in.Ready {
		v.Skeleton = make([]int, skeletonCards)
		p.Refresh = r.opts.RefreshSeconds
		p.NoIndex = true
		p.Data = v
		return p
	}

	upSel := model.ParseSelection(in.Query.Get(paramUpcoming))
	pastSel := model.ParseSelection(in.Query.Get(paramPast))

	parts := catalog.Partition(in.Site.Events, in.Now)
	available := catalog.AvailableCategories(in.Site.Events)

	v.Upcoming = EventSection{
		Key:       paramUpcoming,
		Static:    r.opts.Static,
		Heading:   "Upcoming Events",
		Selected:  upSel,
		Options:   filterOptions(available, upSel, func(s model.Selection) string { return eventsHref(s, pastSel) }),
		Cards:     r.eventCards(in.Site, catalog.Filter(parts.Upcoming, upSel)),
		Total:     len(parts.Upcoming),
		EmptyHead: "No Upcoming Events",
		EmptyText: "Check back soon for new events, or follow us on social media for updates!",
	}
	v.Past = EventSection{
		Key:       paramPast,
		Static:    r.opts.Static,
		Heading:   "Past Events",
		Selected:  pastSel,
		Options:   filterOptions(available, pastSel, func(s model.Selection) string { return eventsHref(upSel, s) }),
		Cards:     r.eventCards(in.Site, catalog.Filter(parts.Past, pastSel)),
		Total:     len(parts.Past),
		EmptyHead: "No Past Events",
		EmptyText: "No past events to display currently.",
	}

	for i, c := range v.Upcoming.Cards {
		if i == 10 {
			break
		}
		p.EventTimes = append(p.EventTimes, c.Date.Format(time.RFC3339))
	}
	p.Data = v
	return p
}

func filterOptions(available []model.Category, selected model.Selection, href func(model.Selection) string) []FilterOption {
	opts := make([]FilterOption, 0, len(available)+1)
	opts = append(opts, FilterOption{Label: string(model.SelectAll), Href: href(model.SelectAll), Active: selected.IsAll()})
	for _, c := range available {
		s := model.Selection(c)
		opts = append(opts, FilterOption{Label: string(c), Href: href(s), Active: selected == s})
	}
	return opts
}

func eventsHref(upcoming, past model.Selection) string {
	q := url.Values{}
	if !upcoming.IsAll() {
		q.Set(paramUpcoming, string(upcoming))
	}
	if !past.IsAll() {
		q.Set(paramPast, string(past))
	}
	if len(q) == 0 {
		return "/events"
	}
	return "/events?" + q.Encode()
}

type MemberCard struct {
	model.Member
	Image    string
	Fallback string
}

type TeamView struct {
	Selected string
	Options  []FilterOption
	Members  []MemberCard
}

func (r *Renderer) TeamPage(in Input) *Page {
	p := r.newPage(in, "team", "/team", "Team", "Meet the "+in.Site.ShortName+" team.")
	selected, members := catalog.SelectTeam(in.Site.Teams, in.Query.Get("team"))

	v := TeamView{Selected: selected}
	for _, name := range catalog.TeamNames(in.Site.Teams) {
		v.Options = append(v.Options, FilterOption{
			Label:  name,
			Href:   "/team?team=" + url.QueryEscape(name),
			Active: strings.EqualFold(name, selected),
		})
	}
	for _, m := range members {
		v.Members = append(v.Members, MemberCard{
			Member:   m,
			Image:    r.resolveImage(m.ImageURL, in.Site.MemberFallback),
			Fallback: in.Site.MemberFallback,
		})
	}
	p.Data = v
	return p
}

type SponsorCard struct {
	model.Sponsor
	Logo     string
	Fallback string
	Href     string
}

type SponsorTierView struct {
	Tier     model.SponsorTier
	Sponsors []SponsorCard
}

type SponsorsView struct {
	Tiers []SponsorTierView
	Modal *SponsorCard
}

func (r *Renderer) SponsorsPage(in Input) *Page {
	p := r.newPage(in, "sponsors", "/sponsors", "Sponsors", "The organisations supporting "+in.Site.Name+".")
	card := func(s model.Sponsor) SponsorCard {
		return SponsorCard{
			Sponsor:  s,
			Logo:     r.resolveImage(s.LogoURL, in.Site.GenericFallback),
			Fallback: in.Site.GenericFallback,
			Href:     "/sponsors?sponsor=" + url.QueryEscape(s.ID),
		}
	}

	var v SponsorsView
	for _, g := range catalog.GroupSponsors(in.Site.Sponsors) {
		tv := SponsorTierView{Tier: g.Tier}
		for _, s := range g.Sponsors {
			tv.Sponsors = append(tv.Sponsors, card(s))
		}
		v.Tiers = append(v.Tiers, tv)
	}
	if id := in.Query.Get("sponsor"); id != "" {
		if s, ok := catalog.FindSponsor(in.Site.Sponsors, id); ok {
			c := card(s)
			v.Modal = &c
		}
	}
	p.Data = v
	return p
}

type ContactView struct {
	Action    string
	Mailto    bool
	Form      ContactForm
	Errors    map[string]string
	Reference string
}

func (r *Renderer) ContactPage(in Input, form ContactForm, errs map[string]string, reference string) *Page {
	p := r.newPage(in, "contact", "/contact", "Contact", "Get in touch with "+in.Site.Name+".")
	v := ContactView{Action: "/contact", Form: form, Errors: errs, Reference: reference}
	if r.opts.Static && in.Site.Email != "" {
		v.Action = "mailto:" + in.Site.Email
		v.Mailto = true
	}
	p.Data = v
	return p
}

func (r *Renderer) NotFoundPage(in Input) *Page {
	p := r.newPage(in, "notfound", "/404", "Page Not Found", "")
	p.NoIndex = true
	p.Crumbs = nil
	return p
}
