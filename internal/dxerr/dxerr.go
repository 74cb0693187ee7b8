// Package dxerr defines the error kinds shared by the registry, login, and admin
// packages.
package dxerr

import (
	"errors"
	"fmt"
)

// Kind tags an Error with the failure class callers branch on.
type Kind int

const (
	KindUnknown Kind = iota
	// KindUnknownUsername means the username is not a key in the credential registry.
	KindUnknownUsername
	// KindMissingToken means the username is registered without a token.
	KindMissingToken
	// KindInvalidBillingPrefix means a billing account lacks the user- or org- prefix.
	KindInvalidBillingPrefix
	// KindRemote wraps a failure returned by the DNAnexus API or its transport.
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindUnknownUsername:
		return "unknown_username"
	case KindMissingToken:
		return "missing_token"
	case KindInvalidBillingPrefix:
		return "invalid_billing_prefix"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Error is a tagged error. Subject is the identifier the error is about and
// Source names where it was looked up (a registry path, an API method).
type Error struct {
	Kind    Kind
	Subject string
	Source  string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindUnknownUsername:
		if e.Source != "" {
			return fmt.Sprintf("%s is not recognized; add it to %s", e.Subject, e.Source)
		}
		return fmt.Sprintf("%s is not recognized", e.Subject)
	case KindMissingToken:
		if e.Source != "" {
			return fmt.Sprintf("%s has no API token in %s", e.Subject, e.Source)
		}
		return fmt.Sprintf("%s has no API token", e.Subject)
	case KindInvalidBillingPrefix:
		return fmt.Sprintf("billing account %q must start with user- or org-", e.Subject)
	}

	msg := e.Kind.String()
	if e.Source != "" {
		msg = e.Source
	}
	if e.Subject != "" {
		msg += " " + e.Subject
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New returns an Error of the given kind.
func New(kind Kind, subject, source string) *Error {
	return &Error{Kind: kind, Subject: subject, Source: source}
}

// Remote wraps err as a KindRemote failure of op on subject. A nil err stays nil.
func Remote(op, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindRemote, Subject: subject, Source: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
