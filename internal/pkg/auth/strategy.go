package auth

import "time"

// Strategy issues and verifies service tokens presented by API callers.
type Strategy interface {
	IssueToken(subject string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
