// Package expiry decides whether a certificate is due for renewal based
// on the status report of the remote certificate tool.
package expiry

import (
	"math"
	"strings"
	"time"

	"github.com/ksyq12/certgate/internal/errors"
)

// Decision is the outcome of the expiry check.
type Decision int

const (
	// NotDue means the certificate has more than threshold days left.
	NotDue Decision = iota
	// Due means the certificate must be renewed now.
	Due
)

// String returns the string representation of the decision.
func (d Decision) String() string {
	if d == Due {
		return "due"
	}
	return "not-due"
}

// Status is the parsed certificate status, immutable after creation.
type Status struct {
	Expiry        time.Time
	DaysRemaining int
	Decision      Decision
}

// expiryPrefix marks the status line carrying the expiry date. The remote
// tool renders it like:
//
//	Expiry Date: 2025-03-01 (VALID: 30 days)
const expiryPrefix = "Expiry Date:"

// dateLayouts are the unambiguous absolute formats the remote tool is
// known to render, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2 15:04:05 2006 MST",
	"Jan 2, 2006",
}

// Decide parses the raw status report and decides whether renewal is due.
// The decision uses <= so that a certificate exactly at the threshold is
// renewed rather than left for the next run.
func Decide(raw string, now time.Time, thresholdDays int) (*Status, error) {
	expiry, err := parseExpiry(raw)
	if err != nil {
		return nil, err
	}

	days := int(math.Floor(expiry.Sub(now).Seconds() / 86400))

	status := &Status{
		Expiry:        expiry,
		DaysRemaining: days,
		Decision:      NotDue,
	}
	if days <= thresholdDays {
		status.Decision = Due
	}
	return status, nil
}

// parseExpiry scans the report for expiry lines and returns the first
// date token that parses as an unambiguous absolute date. Ambiguous or
// absent dates are a hard error; the caller must never guess.
func parseExpiry(raw string) (time.Time, error) {
	for _, line := range strings.Split(raw, "\n") {
		idx := strings.Index(line, expiryPrefix)
		if idx < 0 {
			continue
		}

		token := line[idx+len(expiryPrefix):]
		// Drop any parenthetical annotation such as "(VALID: 30 days)".
		if p := strings.Index(token, "("); p >= 0 {
			token = token[:p]
		}
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, token); err == nil {
				return ts, nil
			}
		}
	}
	return time.Time{}, errors.ExpiryNotFound()
}
