package scraper

import (
	"errors"

	"github.com/jimezsa/jobfinder/internal/models"
)

var ErrNotImplemented = errors.New("parser not implemented")

// Kind enumerates the parser variants a source can be wired to.
type Kind string

const (
	KindStructured Kind = "structured"
	KindAnchor     Kind = "anchor"
	KindPortal     Kind = "portal"
	KindAPI        Kind = "api"
)

// Parser turns raw fetched text into job records. Implementations never fail:
// fragments that cannot be parsed are skipped.
type Parser interface {
	Kind() Kind
	Parse(raw string, source string, baseURL string) []models.Job
}

// Pager is implemented by parsers whose source paginates.
type Pager interface {
	PageURL(baseURL string, page int) string
	HasNext(raw string) bool
}

// ParserFor returns the generic parser for a kind. Portal and API parsers are
// source-specific and must be taken from the registry.
func ParserFor(kind Kind) (Parser, error) {
	switch kind {
	case KindStructured:
		return Structured{}, nil
	case KindAnchor:
		return Anchor{}, nil
	case KindPortal:
		return KarriereportalBerlin, nil
	default:
		return nil, ErrNotImplemented
	}
}
