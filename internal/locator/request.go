package locator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/callvault/internal/tenant"
)

// Accepted layouts for Request.Date, tried in order.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 03:04:05 PM",
	"2006-01-02T15:04:05",
}

// TokenLayout formats the timestamp token embedded in recorder filenames.
const TokenLayout = "2006-01-02_15-04-05"

// Request identifies one recording. Tenant, Date and Username are required;
// the remaining fields narrow candidates when several share a timestamp.
// Zero values of the optional fields match anything.
type Request struct {
	Tenant       string `json:"opco"`
	Date         string `json:"date"`
	Username     string `json:"username"`
	AniAliDigits string `json:"aniAliDigits,omitempty"`
	Duration     int    `json:"duration,omitempty"`
	ExtensionNum string `json:"extensionNum,omitempty"`
	ChannelNum   int    `json:"channelNum,omitempty"`
	ObjectID     string `json:"objectId,omitempty"`
}

// Target is a validated request resolved to its storage coordinates.
type Target struct {
	Tenant   tenant.Tenant
	Time     time.Time
	Prefix   string
	Token    string
	Username string

	aniAliDigits string
	duration     int
	extensionNum string
	channelNum   int
	objectID     string
}

// Enabled reports whether a tenant may be served.
type Enabled interface {
	Enabled(t tenant.Tenant) bool
}

// Validate checks req and computes its storage prefix and timestamp token.
// All failures wrap ErrValidation.
func Validate(req Request, tenants Enabled) (Target, error) {
	if strings.TrimSpace(req.Tenant) == "" {
		return Target{}, invalid("opco is required")
	}
	if strings.TrimSpace(req.Date) == "" {
		return Target{}, invalid("date is required")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return Target{}, invalid("username is required")
	}

	t, err := tenant.Parse(req.Tenant)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if tenants == nil || !tenants.Enabled(t) {
		return Target{}, fmt.Errorf("%w: %w: %s", ErrValidation, tenant.ErrDisabled, t)
	}

	when, err := ParseDate(req.Date)
	if err != nil {
		return Target{}, err
	}

	if req.Duration < 0 {
		return Target{}, invalid("duration must not be negative")
	}
	if req.ChannelNum < 0 {
		return Target{}, invalid("channelNum must not be negative")
	}

	objectID := strings.TrimSpace(req.ObjectID)
	if objectID != "" {
		if err := uuid.Validate(objectID); err != nil {
			return Target{}, invalid("objectId %q is not a UUID", objectID)
		}
	}

	return Target{
		Tenant:       t,
		Time:         when,
		Prefix:       Prefix(t, when),
		Token:        when.Format(TokenLayout),
		Username:     username,
		aniAliDigits: strings.TrimSpace(req.AniAliDigits),
		duration:     req.Duration,
		extensionNum: strings.TrimSpace(req.ExtensionNum),
		channelNum:   req.ChannelNum,
		objectID:     objectID,
	}, nil
}

// ParseDate parses a request date in any accepted layout. Twelve-hour input
// with an AM/PM marker is normalized to the 24-hour clock.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	var errs []error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		errs = append(errs, err)
	}

	return time.Time{}, fmt.Errorf("%w: invalid date format %q: %w", ErrValidation, s, errors.Join(errs...))
}

// Prefix returns the storage prefix for a tenant's recordings on a given day.
// Month and day are not zero-padded.
func Prefix(t tenant.Tenant, when time.Time) string {
	return fmt.Sprintf("%s/%d/%d/%d/", t, when.Year(), int(when.Month()), when.Day())
}

// EntryName returns the archive and download name for the target's audio.
func (t Target) EntryName() string {
	return t.Token + "_" + t.Username + ".mp3"
}
