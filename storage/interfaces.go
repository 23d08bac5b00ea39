package storage

import "github.com/aleenprd/boligportal-scraper/models"

// ListingWriter is the interface any storage backend for assembled
// listings must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}

// ShortlistWriter persists the result of a filter run.
type ShortlistWriter interface {
	WriteShortlist(path string, shortlist []models.Shortlisted) error
}
