package handlers

import (
	"net/http"
	"strconv"
	"strings"
)

// idParam reads the ?id= query parameter shared by the update/delete/action
// routes. Returns 0 when missing or malformed.
func idParam(r *http.Request) uint {
	v := r.URL.Query().Get("id")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return uint(n)
}

// pageParams reads limit/page query parameters with the listing defaults.
func pageParams(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	return limit, offset
}

// likePattern builds a case-insensitive LIKE pattern from a free-text query,
// stripping characters that have no business in a name search.
func likePattern(q string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(q)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return "%" + b.String() + "%"
}
