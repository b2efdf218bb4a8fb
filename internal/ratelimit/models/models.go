package models

import (
	"strings"
	"time"
)

// EndpointClass groups routes that share a request budget.
type EndpointClass string

const (
	// ClassRead covers anonymous and dashboard reads.
	ClassRead EndpointClass = "read"
	// ClassWrite covers requests that change tenant state.
	ClassWrite EndpointClass = "write"
)

// RateLimitResult is the outcome of one check against a bucket.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Key builds the bucket key for a subject within a class. kind is "ip" or
// "user".
func Key(class EndpointClass, kind, subject string) string {
	return "ratelimit:" + string(class) + ":" + kind + ":" + SanitizeKeySegment(subject)
}

// SanitizeKeySegment replaces ':' so a subject cannot spill into a
// neighbouring key segment.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
