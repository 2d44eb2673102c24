package share

import (
	"net/url"
	"strings"

	errs "github.com/matzehuels/situationroom/pkg/errors"
)

// QueryParam is the query parameter that carries a share token.
const QueryParam = "d"

// defaultBaseLength stands in for the base URL when none is known.
const defaultBaseLength = 50

// URL returns base with token attached as the share query parameter.
func URL(base, token string) string {
	return base + "?" + QueryParam + "=" + token
}

// TokenFromURL extracts the share token from a share URL. A bare token is
// returned unchanged.
func TokenFromURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errs.New(errs.ErrCodeInvalidToken, "empty share link")
	}
	if !strings.ContainsAny(raw, "?/:") {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidToken, err, "parse share link")
	}
	token := u.Query().Get(QueryParam)
	if token == "" {
		return "", errs.New(errs.ErrCodeInvalidToken, "share link has no %q parameter", QueryParam)
	}
	return token, nil
}

// EstimateURLLength returns len(URL(base, token)). An empty base counts as
// a typical origin and path.
func EstimateURLLength(base, token string) int {
	n := len(base)
	if base == "" {
		n = defaultBaseLength
	}
	return n + len("?"+QueryParam+"=") + len(token)
}
