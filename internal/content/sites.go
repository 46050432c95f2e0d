package content

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"socsite/internal/model"
)

const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
)

const (
	SiteMatcha = "matcha"
	SiteCEUS   = "ceus"
)

type builtin struct {
	profile  model.Site
	events   []RawEvent
	teams    []RawTeam
	sponsors []RawSponsor
}

var builtins = map[string]builtin{
	SiteMatcha: matcha,
	SiteCEUS:   ceus,
}

// Keys lists the built-in site keys in a stable order.
func Keys() []string {
	keys := make([]string, 0, len(builtins))
	for k := range builtins {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Lookup returns a fresh copy of the named built-in site with its
// collections built. Event dates are read in loc.
func Lookup(key string, loc *time.Location) (model.Site, error) {
	b, ok := builtins[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return model.Site{}, fmt.Errorf("%w: %q (known: %s)", model.ErrUnknownSite, key, strings.Join(Keys(), ", "))
	}
	site := b.profile
	site.Keywords = slices.Clone(b.profile.Keywords)
	site.Social = slices.Clone(b.profile.Social)
	site.Highlights = slices.Clone(b.profile.Highlights)
	site.Features = slices.Clone(b.profile.Features)
	site.Offers = slices.Clone(b.profile.Offers)
	site.Events = BuildEvents(b.events, loc, SourceBuiltin)
	site.Teams = BuildTeams(b.teams)
	site.Sponsors = BuildSponsors(b.sponsors)
	return site, nil
}

const matchaEventImage = "/images/events/matachaimages.jpg"

var matcha = builtin{
	profile: model.Site{
		Key:         SiteMatcha,
		Name:        "UNSW Matcha Society",
		ShortName:   "MatchaSoc",
		Tagline:     "Japanese tea culture and mindfulness at UNSW",
		BaseURL:     "https://www.unswmatchasoc.com",
		Description: "A vibrant student community celebrating Japanese tea culture and mindfulness at UNSW. We foster connections through traditional tea ceremonies and cultural exchange.",
		Keywords:    []string{"UNSW", "matcha", "tea ceremony", "student society", "mindfulness", "Japanese culture"},
		ThemeColor:  "#71B340",

		Email:       "info@unswmatchasoc.com",
		Phone:       "(61) 000000000",
		Address:     "Mathews Building, Room 204, UNSW Sydney, High St, Kensington NSW 2052, Australia",
		MapEmbedURL: "https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!1d3310.9243864439327!2d151.2288773!3d-33.9173456!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!3m3!1m2!1s0x6b12b18b76295deb%3A0x4a0d0172d71babf0!2sJune%20Griffith%20Building%20(F10)!5e0!3m2!1sen!2sau!4v1754220844152!5m2!1sen!2sau",

		LogoURL:         "/images/assets/matcha_logo.png",
		EventFallback:   "/images/events/matachaimages.jpg",
		MemberFallback:  "/images/team/default-avatar.png",
		GenericFallback: "/images/assets/placeholder.png",
		Social: []model.SocialLink{
			{Label: "Facebook", URL: "https://www.facebook.com/UNSWMatchaSoc", Icon: "/images/assets/facebook_icon.svg"},
			{Label: "Instagram", URL: "https://www.instagram.com/unswmatchasoc/", Icon: "/images/assets/instagram_icon.svg"},
			{Label: "LinkedIn", URL: "https://www.linkedin.com/company/unsw-matcha-society/", Icon: "/images/assets/linkedin_icon.svg"},
			{Label: "Arc UNSW", URL: "https://www.arc.unsw.edu.au/get-involved/opportunity?name=UNSW%20Matcha%20Society", Icon: "/images/assets/Arc_icon.png"},
		},

		HeroTitle:    "Welcome to UNSW Matcha Society",
		HeroSubtitle: "Join our vibrant community celebrating Japanese tea culture, mindfulness, and friendship. Experience the art of matcha with fellow students.",
		Mission:      "To create a welcoming space where UNSW students can explore Japanese tea culture, practice mindfulness, and build lasting friendships through shared experiences and learning.",
		Highlights:   []string{"Weekly matcha tastings", "Tea ceremony workshops", "Social events & meetups"},
		Features: []model.Feature{
			{Icon: "🍵", Title: "Authentic Matcha", Text: "Experience premium ceremonial-grade matcha."},
			{Icon: "🧘", Title: "Mindfulness", Text: "Learn the ways to find moments of calm in your busy student life."},
			{Icon: "🤝", Title: "Community", Text: "Meet students who share a love of tea and Japanese culture."},
		},
		Offers: []model.Feature{
			{Icon: "🍵", Title: "Tea Ceremonies", Text: "Tea ceremonies, matcha preparation workshops, tea etiquette and history."},
			{Icon: "🧘", Title: "Mindfulness", Text: "Guided meditation sessions paired with matcha preparation."},
			{Icon: "🎌", Title: "Culture", Text: "Calligraphy, hanami and cultural exchange events."},
			{Icon: "🍱", Title: "Socials", Text: "Dinners, drinks and meetups across the term."},
		},
		MemberCountLabel: "Members",
	},
	events: []RawEvent{
		{ID: "matchaEventUpcoming1", Title: "Weekly Matcha Tasting", Date: "2025-03-19T17:00", ImageURL: matchaEventImage, Link: "#", Category: "Regular",
			Description: "Join us for our signature weekly event where we explore different grades and origins of matcha."},
		{ID: "matchaEventUpcoming2", Title: "Traditional Tea Ceremony Workshop", Date: "2025-03-22T17:00", ImageURL: matchaEventImage, Link: "#", Category: "Workshop",
			Description: "Learn the authentic Japanese tea ceremony with guidance from our experienced practitioners."},
		{ID: "matchaEventUpcoming3", Title: "Matcha & Mindfulness Session", Date: "2025-03-25T17:00", ImageURL: matchaEventImage, Link: "#", Category: "Wellness",
			Description: "Combine meditation practices with matcha preparation for the perfect stress-relief session."},
		{ID: "matchaEventUpcoming4", Title: "Dinner & Drinks", Date: "2025-04-05T17:00", ImageURL: matchaEventImage, Link: "#", Category: "Social",
			Description: "Monthly social dinner featuring Japanese cuisine and cultural discussions."},
		{ID: "matchaEventUpcoming5", Title: "Matcha Latte Art Workshop", Date: "2025-04-12T17:00", ImageURL: matchaEventImage, Link: "#", Category: "Workshop",
			Description: "Learn to create beautiful latte art with matcha and explore modern matcha preparation techniques."},
		{ID: "matchaEventUpcoming6", Title: "Spring Hanami Tea Party", Date: "2025-04-19T17:00", ImageURL: matchaEventImage, Link: "#", Category: "Cultural",
			Description: "Celebrate cherry blossom season with a traditional hanami tea party in the campus gardens."},
		{ID: "matchaEventPast1", Title: "Welcome Tea Ceremony", Date: "2025-02-19T17:00", ImageURL: matchaEventImage, Link: "#", Category: "Cultural",
			Description: "Kicked off the year with a traditional Japanese tea ceremony to welcome new members."},
		{ID: "matchaEventPast2", Title: "Matcha Tasting Workshop", Date: "2025-02-26T17:00", ImageURL: matchaEventImage, Link: "#", Category: "Workshop",
			Description: "Introduced new members to different grades of matcha and proper tasting techniques."},
		{ID: "matchaEventPast3", Title: "Zen Meditation with Matcha", Date: "2025-03-05T17:00", ImageURL: matchaEventImage, Link: "#", Category: "Wellness",
			Description: "A peaceful meditation session combining traditional Zen practices with matcha preparation."},
		{ID: "matchaEventPast4", Title: "Japanese Calligraphy Workshop", Date: "2025-02-05T17:00", ImageURL: matchaEventImage, Link: "#", Category: "Cultural",
			Description: "Learn the art of Japanese calligraphy while enjoying traditional matcha tea."},
		{ID: "matchaEventPast5", Title: "Matcha Baking Class", Date: "2025-02-12T17:00", ImageURL: matchaEventImage, Link: "#", Category: "Workshop",
			Description: "Discover how to incorporate matcha into delicious baked goods and desserts."},
		{ID: "matchaEventPast6", Title: "Cherry Blossom Viewing", Date: "2025-03-12T17:00", ImageURL: matchaEventImage, Link: "#", Category: "Cultural",
			Description: "Celebrated the arrival of spring with cherry blossom viewing and traditional tea."},
	},
	teams: []RawTeam{
		{Name: "Executives", Members: []RawMember{
			{ID: "annieP", Name: "Annie", Role: "President", ImageURL: "/images/team/annie.jpg"},
			{ID: "janetV", Name: "Janet", Role: "Vice President", ImageURL: "/images/team/janet.jpg"},
			{ID: "emilyS", Name: "Emily", Role: "Secretary", ImageURL: "/images/team/emily.jpg"},
			{ID: "denzelT", Name: "Denzel", Role: "Treasurer", ImageURL: "/images/team/denzel.jpg"},
			{ID: "kendrewA", Name: "Kendrew", Role: "ARC Delegate", ImageURL: "/images/team/kendrew.jpg"},
			{ID: "sanW", Name: "San", Role: "Welfare Officer", ImageURL: "/images/team/san.jpg"},
		}},
	},
}

const ceusEventImage = "/images/events/ceus-event.jpg"

var ceus = builtin{
	profile: model.Site{
		Key:         SiteCEUS,
		Name:        "CEUS - Chemical Engineering Undergraduate Society",
		ShortName:   "CEUS",
		Tagline:     "The Chemical Engineering Undergraduate Society at UNSW",
		BaseURL:     "https://www.ceusunsw.com",
		Description: "The Chemical Engineering Undergraduate Society (CEUS) at UNSW. Join our community of chemical engineering students for events, networking, and professional development opportunities.",
		Keywords:    []string{"CEUS", "UNSW", "chemical engineering", "student society", "networking", "careers"},
		ThemeColor:  "#1B397E",

		Email:       "ceus@unsw.edu.au",
		Phone:       "(61) 000000000",
		Address:     "Chemical Sciences Building (F10), UNSW Sydney, Kensington NSW 2052, Australia",
		MapEmbedURL: "https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!1d3310.9243864439327!2d151.2288773!3d-33.9173456!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!3m3!1m2!1s0x6b12b18b76295deb%3A0x4a0d0172d71babf0!2sJune%20Griffith%20Building%20(F10)!5e0!3m2!1sen!2sau!4v1754220844152!5m2!1sen!2sau",

		LogoURL:         "/images/assets/ceus_logo.png",
		EventFallback:   "/images/events/ceus-event.jpg",
		MemberFallback:  "/images/team/default-avatar.png",
		GenericFallback: "/images/assets/placeholder.png",
		Social: []model.SocialLink{
			{Label: "Facebook", URL: "https://www.facebook.com/CEUSUNSW", Icon: "/images/assets/facebook_icon.svg"},
			{Label: "Instagram", URL: "https://www.instagram.com/ceus_unsw/", Icon: "/images/assets/instagram_icon.svg"},
			{Label: "LinkedIn", URL: "https://www.linkedin.com/company/ceus-unsw/", Icon: "/images/assets/linkedin_icon.svg"},
		},

		HeroTitle:    "Chemical Engineering Undergraduate Society",
		HeroSubtitle: "Connecting chemical engineering students at UNSW with industry, careers and each other.",
		Mission:      "To support chemical engineering undergraduates through professional development, industry connections and a welcoming student community.",
		Highlights:   []string{"Industry nights", "Technical workshops", "Socials and cruises"},
		Features: []model.Feature{
			{Icon: "🏭", Title: "Industry", Text: "Meet engineers from leading process and energy companies."},
			{Icon: "🎓", Title: "Academic Support", Text: "Study sessions and course advice from senior students."},
			{Icon: "🤝", Title: "Community", Text: "Socials that bring every year group together."},
		},
		Offers: []model.Feature{
			{Icon: "💼", Title: "Careers", Text: "Industry nights, site visits and resume workshops."},
			{Icon: "💻", Title: "Skills", Text: "Process simulation and technical workshops."},
			{Icon: "🏆", Title: "Competitions", Text: "Design challenges with sponsor-judged prizes."},
			{Icon: "🎉", Title: "Socials", Text: "Harbour cruise, barbecues and end-of-term parties."},
		},
		MemberCountLabel: "Students",
	},
	events: []RawEvent{
		{ID: "ceusIndustryNight", Title: "Industry Night", Date: "2025-03-27T18:00", ImageURL: ceusEventImage, Link: "#", Category: "Academic",
			Description: "Network with graduate engineers and recruiters from our sponsors."},
		{ID: "ceusHysysWorkshop", Title: "Process Simulation Workshop", Date: "2025-04-02T14:00", ImageURL: ceusEventImage, Link: "#", Category: "Workshop",
			Description: "Hands-on introduction to process simulation for second-year students."},
		{ID: "ceusHarbourCruise", Title: "Harbour Cruise", Date: "2025-04-11T19:00", ImageURL: ceusEventImage, Link: "#", Category: "Social",
			Description: "The annual CEUS harbour cruise with food, drinks and music."},
		{ID: "ceusWelcomeBBQ", Title: "Welcome BBQ", Date: "2025-02-20T12:00", ImageURL: ceusEventImage, Link: "#", Category: "Social",
			Description: "Met the new first-year cohort over a barbecue on the library lawn."},
		{ID: "ceusStudyJam", Title: "Thermodynamics Study Jam", Date: "2025-03-06T16:00", ImageURL: ceusEventImage, Link: "#", Category: "Academic",
			Description: "Peer-led revision for the thermodynamics mid-term."},
	},
	teams: []RawTeam{
		{Name: "Executives", Members: []RawMember{
			{ID: "ceusPresident", Name: "Alex", Role: "President", Email: "president@ceusunsw.com"},
			{ID: "ceusVP", Name: "Priya", Role: "Vice President"},
			{ID: "ceusSecretary", Name: "Tom", Role: "Secretary"},
			{ID: "ceusTreasurer", Name: "Mei", Role: "Treasurer"},
		}},
		{Name: "Directors", Members: []RawMember{
			{ID: "ceusEvents", Name: "Jordan", Role: "Events Director"},
			{ID: "ceusCorporate", Name: "Sam", Role: "Corporate Director", LinkedInURL: "https://www.linkedin.com/company/ceus-unsw/"},
			{ID: "ceusMarketing", Name: "Lina", Role: "Marketing Director"},
		}},
	},
	sponsors: []RawSponsor{
		{ID: "processco", Name: "ProcessCo Engineering", LogoURL: "/images/sponsors/processco.png", WebsiteURL: "https://example.com/processco", Tier: "Major",
			Description: "A process engineering consultancy supporting CEUS industry nights and site visits."},
		{ID: "energyworks", Name: "EnergyWorks", LogoURL: "/images/sponsors/energyworks.png", WebsiteURL: "https://example.com/energyworks", Tier: "Supporting",
			Description: "Energy and resources company offering internships to chemical engineering students."},
		{ID: "labsupply", Name: "LabSupply", LogoURL: "/images/sponsors/labsupply.png", WebsiteURL: "https://example.com/labsupply", Tier: "Other",
			Description: "Provides lab equipment prizes for the CEUS design challenge."},
	},
}
