package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"socsite/internal/model"
)

// defaultDuration is used for exported events; records carry no end time.
const defaultDuration = 2 * time.Hour

// Export renders events as a PUBLISH calendar. Records without a valid date
// are left out since a VEVENT requires DTSTART.
func Export(site model.Site, events []model.EventRecord, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//" + site.ShortName + "//socsite//EN")
	cal.SetXWRCalName(site.Name + " Events")

	for _, ev := range events {
		if !ev.DateValid {
			continue
		}
		ve := cal.AddEvent(ev.ID + "@" + site.Key)
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(ev.Date)
		ve.SetEndAt(ev.Date.Add(defaultDuration))
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		if ev.Link != "" && ev.Link != "#" {
			ve.SetURL(ev.Link)
		}
		ve.AddProperty(ical.ComponentPropertyCategories, string(ev.Category))
	}

	return cal.Serialize()
}
