package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 50, 0},
		{"explicit values", "limit=10&offset=30", 10, 30},
		{"limit capped at 100", "limit=500", 100, 0},
		{"limit floor of 1", "limit=0", 1, 0},
		{"negative offset clamped", "offset=-5", 50, 0},
		{"garbage ignored", "limit=abc&offset=xyz", 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/?"+tt.query, nil)
			limit, offset := parsePagination(r)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	t.Run("explicit bounds", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?from=2026-08-01T00:00:00Z&to=2026-08-08T00:00:00Z", nil)
		from, to, err := parseTimeRange(r)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("defaults to the surrounding week", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		from, to, err := parseTimeRange(r)
		require.NoError(t, err)
		assert.True(t, to.After(from))
		assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -7), from, time.Minute)
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?from=2026-08-08T00:00:00Z&to=2026-08-01T00:00:00Z", nil)
		_, _, err := parseTimeRange(r)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after")
	})

	t.Run("malformed timestamp rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?from=yesterday", nil)
		_, _, err := parseTimeRange(r)
		assert.Error(t, err)
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("unknown fields rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","extra":true}`))
		var p payload
		assert.Error(t, decodeJSON(r, &p))
	})

	t.Run("empty body maps to errEmptyBody", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(""))
		var p payload
		assert.ErrorIs(t, decodeJSON(r, &p), errEmptyBody)
	})

	t.Run("valid body decodes", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"}`))
		var p payload
		require.NoError(t, decodeJSON(r, &p))
		assert.Equal(t, "x", p.Name)
	})
}
