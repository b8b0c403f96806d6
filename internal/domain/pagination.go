package domain

import (
	"encoding/base64"
	"strconv"
)

// Page sizes for molecule, import session and audit listings.
const (
	DefaultMaxResults = 50
	MaxMaxResults     = 500
)

// PageRequest is an offset window over a listing. Callers never see the
// offset itself, only the token handed back as next_page_token.
type PageRequest struct {
	MaxResults int
	PageToken  string
}

// Offset is the row the page starts at. A token that does not decode to a
// non-negative offset restarts the listing.
func (p PageRequest) Offset() int {
	if p.PageToken == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(p.PageToken)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// Limit is MaxResults clamped to [1, MaxMaxResults], with 0 meaning
// DefaultMaxResults.
func (p PageRequest) Limit() int {
	switch {
	case p.MaxResults <= 0:
		return DefaultMaxResults
	case p.MaxResults > MaxMaxResults:
		return MaxMaxResults
	default:
		return p.MaxResults
	}
}

// EncodePageToken wraps offset as a token. Tokens travel in /v1 and /ui
// query strings, so they use the unpadded URL alphabet.
func EncodePageToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// NextPageToken returns the token for the page after [offset, offset+limit),
// or "" once total rows have been listed.
func NextPageToken(offset, limit int, total int64) string {
	next := offset + limit
	if int64(next) >= total {
		return ""
	}
	return EncodePageToken(next)
}
