package site

import (
	"net/url"
	"strings"
)

// ContactForm is the contact page's four fields.
type ContactForm struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactFormFrom reads and trims the posted fields.
func ContactFormFrom(v url.Values) ContactForm {
	return ContactForm{
		Name:    strings.TrimSpace(v.Get("name")),
		Email:   strings.TrimSpace(v.Get("email")),
		Subject: strings.TrimSpace(v.Get("subject")),
		Message: strings.TrimSpace(v.Get("message")),
	}
}

// Validate returns field errors keyed by input name; empty means valid.
func (f ContactForm) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Please enter your name."
	}
	switch email := strings.TrimSpace(f.Email); {
	case email == "":
		errs["email"] = "Please enter your email address."
	case !strings.Contains(email, "@"):
		errs["email"] = "Please enter a valid email address."
	}
	if strings.TrimSpace(f.Subject) == "" {
		errs["subject"] = "Please enter a subject."
	}
	if strings.TrimSpace(f.Message) == "" {
		errs["message"] = "Please enter a message."
	}
	return errs
}
