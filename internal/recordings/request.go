package recordings

import (
	"fmt"
	"time"

	"github.com/JaimeStill/callvault/internal/locator"
	"github.com/JaimeStill/callvault/pkg/pagination"
)

// SearchRequest selects catalog rows of one tenant added within a date range.
// Both bounds are inclusive and use the recording date layouts.
type SearchRequest struct {
	Opco     string `json:"opco" validate:"required"`
	FromDate string `json:"from_date" validate:"required"`
	ToDate   string `json:"to_date" validate:"required"`
	Filters  `json:"filters"`
	pagination.PageRequest
}

// window parses the date bounds and checks their order.
func (r SearchRequest) window() (from, to time.Time, err error) {
	from, err = locator.ParseDate(r.FromDate)
	if err != nil {
		return from, to, fmt.Errorf("%w: from_date: %w", ErrInvalidSearch, err)
	}
	to, err = locator.ParseDate(r.ToDate)
	if err != nil {
		return from, to, fmt.Errorf("%w: to_date: %w", ErrInvalidSearch, err)
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("%w: to_date precedes from_date", ErrInvalidSearch)
	}
	return from, to, nil
}

// MetadataRequest looks up the catalog row for one recorder file.
type MetadataRequest struct {
	Opco     string `json:"opco" validate:"required"`
	FileName string `json:"file_name" validate:"required"`
}
