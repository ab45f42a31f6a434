// Package pagination normalizes list request paging parameters.
package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidToken reports a page token this package did not issue.
var ErrInvalidToken = errors.New("invalid page token")

const tokenPrefix = "after:"

// PageSizeConfig bounds a list call's page size.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize substitutes the default for unset sizes and caps the rest at
// Max. The result is always at least one.
func ClampPageSize(value int, cfg PageSizeConfig) int {
	pageSize := value
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	return max(pageSize, 1)
}

// EncodeToken turns the last key of a page into an opaque token. An empty
// key means there is no next page and yields an empty token.
func EncodeToken(lastKey string) string {
	if lastKey == "" {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(tokenPrefix + lastKey))
}

// DecodeToken returns the key a token was issued for. The empty token starts
// at the first page.
func DecodeToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	key, ok := strings.CutPrefix(string(raw), tokenPrefix)
	if !ok || key == "" {
		return "", ErrInvalidToken
	}
	return key, nil
}
