package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLookup(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		wantByID    bool
		wantInvalid bool
	}{
		{"Slug", "blue-shirt", false, false},
		{"Canonical UUID", "3f2b8c1a-9d4e-4b7a-8c2e-1f0a9b8c7d6e", true, false},
		{"UUID shape with bad hex", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz", true, true},
		{"Thirty six chars without hyphens", "abcdefghijabcdefghijabcdefghijabcdef", false, false},
		{"Hex without hyphens", "3f2b8c1a9d4e4b7a8c2e1f0a9b8c7d6e", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ParseLookup(tt.token)
			assert.Equal(t, tt.wantByID, l.ByID)
			assert.Equal(t, tt.wantInvalid, l.Invalid)
			assert.Equal(t, tt.token, l.Token)
		})
	}
}

func TestParseOrdering(t *testing.T) {
	assert.Equal(t, DefaultProductOrdering, ParseOrdering(""))
	assert.Equal(t, DefaultProductOrdering, ParseOrdering("popularity,-bogus"))
	assert.Equal(t, []OrderField{
		{Field: "price", Desc: false},
		{Field: "created_at", Desc: true},
	}, ParseOrdering("price, -created_at, stock"))
}

func TestSearchTerms(t *testing.T) {
	assert.Equal(t, []string{"blue", "cotton", "shirt"}, SearchTerms(" blue  cotton,shirt "))
	assert.Empty(t, SearchTerms("  , "))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, `%50\% off\_now%`, containsPattern("50% OFF_now"))
}
