package models

import (
	"encoding/json"
	"time"
)

// Report is an incident report. The server owns the canonical record; clients
// hold cached copies merged through the store.
type Report struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DamageLevel string    `json:"damage_level,omitempty"` // empty until assessed
	Location    string    `json:"location"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// HasCoordinates reports whether the report carries a usable map position.
func (r Report) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// UnmarshalJSON tolerates the two coordinate spellings the backend has used
// over time (latitude/longitude and lat/lng) and parses timestamps
// defensively: a missing or malformed timestamp decodes as the zero time
// rather than failing the whole payload.
func (r *Report) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int      `json:"id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Status      string   `json:"status"`
		DamageLevel string   `json:"damage_level"`
		Location    string   `json:"location"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		Lat         *float64 `json:"lat"`
		Lng         *float64 `json:"lng"`
		Timestamp   string   `json:"timestamp"`
		ImageURL    string   `json:"image_url"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.ID = raw.ID
	r.Title = raw.Title
	r.Description = raw.Description
	r.Status = raw.Status
	r.DamageLevel = raw.DamageLevel
	r.Location = raw.Location
	r.ImageURL = raw.ImageURL

	r.Latitude = raw.Latitude
	if r.Latitude == nil {
		r.Latitude = raw.Lat
	}
	r.Longitude = raw.Longitude
	if r.Longitude == nil {
		r.Longitude = raw.Lng
	}

	r.Timestamp = ParseTimestamp(raw.Timestamp)
	return nil
}

// ParseTimestamp accepts the timestamp formats the backend has emitted
// (RFC 3339 and the legacy "2006-01-02 15:04:05") and returns the zero time
// for anything else.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
