package hotel

import "time"

// SocialLinks groups the footer social media URLs.
type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
}

// SiteSettings is the singleton site configuration edited from the admin
// settings page. A fresh install renders with DefaultSettings until the row
// is written.
type SiteSettings struct {
	SiteTitle       string      `json:"site_title"`
	SiteDescription string      `json:"site_description"`
	ContactEmail    string      `json:"contact_email"`
	ContactPhone    string      `json:"contact_phone"`
	Address         string      `json:"address"`
	Social          SocialLinks `json:"social"`
	FooterText      string      `json:"footer_text"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// DefaultSettings returns the settings used before any admin edit.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		SiteTitle:       "B-Hotel",
		SiteDescription: "Luxury hotel booking platform",
		ContactEmail:    "info@b-hotel.com",
		ContactPhone:    "+1 (555) 123-4567",
		Address:         "123 Hotel Street, City, Country",
		Social: SocialLinks{
			Facebook:  "https://facebook.com/bhotel",
			Twitter:   "https://twitter.com/bhotel",
			Instagram: "https://instagram.com/bhotel",
		},
		FooterText: "© B-Hotel. All rights reserved.",
	}
}
