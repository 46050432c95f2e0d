package site

import (
	"encoding/json"
	"encoding/xml"
	"html/template"
	"strings"
	"time"

	appLog "socsite/internal/log"
	"socsite/internal/model"
)

// organizationJSONLD is the schema.org Organization block for the head.
func organizationJSONLD(s model.Site) template.JS {
	sameAs := make([]string, 0, len(s.Social))
	for _, l := range s.Social {
		sameAs = append(sameAs, l.URL)
	}
	doc := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "Organization",
		"name":          s.Name,
		"alternateName": s.ShortName,
		"url":           s.BaseURL,
		"logo":          s.BaseURL + s.LogoURL,
		"description":   s.Description,
		"email":         s.Email,
		"sameAs":        sameAs,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		appLog.Error("json-ld marshal failed", err, "site", s.Key)
		return ""
	}
	return template.JS(b)
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Sitemap renders sitemap.xml for every indexable route.
func Sitemap(baseURL string, lastMod time.Time) ([]byte, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, path := range Routes() {
		u := sitemapURL{
			Loc:        baseURL + path,
			LastMod:    lastMod.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "0.8",
		}
		switch path {
		case "/":
			u.ChangeFreq, u.Priority = "weekly", "1.0"
		case "/events":
			u.ChangeFreq, u.Priority = "daily", "0.9"
		}
		set.URLs = append(set.URLs, u)
	}
	b, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), b...), nil
}

// Robots renders robots.txt pointing at the sitemap.
func Robots(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return "User-agent: *\nAllow: /\n\nSitemap: " + baseURL + "/sitemap.xml\n"
}
