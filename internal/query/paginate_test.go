package query_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/board-service/internal/query"
)

func render(tokens []query.PageToken) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func TestPageRange(t *testing.T) {
	cases := []struct {
		current, total int
		want           string
	}{
		{1, 0, ""},
		{1, 1, "1"},
		{1, 2, "1 2"},
		{1, 5, "1 2 3 4 5"},
		{1, 10, "1 2 3 ... 10"},
		{10, 10, "1 ... 8 9 10"},
		// Pages 1 and 3 are one apart, so page 2 is shown instead of "...".
		{5, 10, "1 2 3 4 5 6 7 ... 10"},
		{6, 10, "1 ... 4 5 6 7 8 9 10"},
		{6, 12, "1 ... 4 5 6 7 8 ... 12"},
		{4, 7, "1 2 3 4 5 6 7"},
	}
	for _, tc := range cases {
		got := render(query.PageRange(tc.current, tc.total))
		assert.Equal(t, tc.want, got, "PageRange(%d, %d)", tc.current, tc.total)
	}
}

func TestPageRange_AlwaysHasFirstAndLast(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			tokens := query.PageRange(current, total)
			require.NotEmpty(t, tokens)
			assert.Equal(t, 1, tokens[0].Page)
			assert.Equal(t, total, tokens[len(tokens)-1].Page)
			for i := 1; i < len(tokens); i++ {
				assert.False(t, tokens[i].Ellipsis && tokens[i-1].Ellipsis, "adjacent ellipses")
			}
		}
	}
}

func TestPageToken_JSON(t *testing.T) {
	b, err := json.Marshal(query.PageRange(1, 10))
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3,"...",10]`, string(b))
}
