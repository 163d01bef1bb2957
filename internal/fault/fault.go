package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an upstream failure. Every kind is terminal for the
// request it occurred in; retry policy belongs to the caller.
type Kind string

const (
	ConfigurationMissing Kind = "configuration_missing"
	DiscoveryFailed      Kind = "discovery_failed"
	ChallengeMissing     Kind = "challenge_missing"
	ChallengeMalformed   Kind = "challenge_malformed"
	AuthRejected         Kind = "auth_rejected"
	Transport            Kind = "transport_error"
	DataNotFound         Kind = "data_not_found"
	UpstreamError        Kind = "upstream_application_error"
)

// Error carries the vendor and handshake stage a failure came from so it
// can be logged distinctly. Messages never include credential or signature
// material.
type Error struct {
	Vendor string
	Stage  string
	Kind   Kind
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Vendor, e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Vendor, e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(vendor, stage string, kind Kind, err error) *Error {
	return &Error{Vendor: vendor, Stage: stage, Kind: kind, Err: err}
}

// KindOf returns the classification of err, or "" for unclassified errors.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// HTTPStatus maps a classified error to the dashboard-facing status code:
// 404 for missing data, 500 for everything else.
func HTTPStatus(err error) int {
	if KindOf(err) == DataNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
