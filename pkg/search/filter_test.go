package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/esbatch/pkg/search"
)

// 🧪 TestNewFilterValidation tests up-front validation
func TestNewFilterValidation(t *testing.T) {
	tests := []struct {
		name          string
		expr          string
		exclude       []string
		expectedError string
	}{
		{
			name: "empty_is_valid",
		},
		{
			name: "valid_regex",
			expr: `\.docx$`,
		},
		{
			name:          "invalid_regex",
			expr:          "[unclosed",
			expectedError: "compiling regex filter",
		},
		{
			name:          "invalid_exclude_pattern",
			exclude:       []string{"[unclosed"},
			expectedError: "invalid exclude pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := search.NewFilter(tt.expr, tt.exclude)
			if tt.expectedError == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

// 🧪 TestFilterMatch tests regex search semantics and glob excludes
func TestFilterMatch(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		exclude []string
		path    string
		matches bool
	}{
		{
			name:    "no_filter_passes_everything",
			path:    "/home/a/report.docx",
			matches: true,
		},
		{
			name:    "substring_match_anywhere",
			expr:    "home",
			path:    "/home/a/report.docx",
			matches: true,
		},
		{
			name:    "regex_is_not_full_match",
			expr:    "a/report",
			path:    "/home/a/report.docx",
			matches: true,
		},
		{
			name:    "regex_rejects",
			expr:    `\.pdf$`,
			path:    "/home/a/report.docx",
			matches: false,
		},
		{
			name:    "exclude_glob_rejects",
			exclude: []string{"**/node_modules/**"},
			path:    "/home/a/node_modules/report.docx",
			matches: false,
		},
		{
			name:    "exclude_glob_passes_others",
			exclude: []string{"**/node_modules/**"},
			path:    "/home/a/src/report.docx",
			matches: true,
		},
		{
			name:    "regex_and_exclude_combine",
			expr:    "report",
			exclude: []string{"**/*.bak"},
			path:    "/home/a/report.docx.bak",
			matches: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := search.NewFilter(tt.expr, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.matches, f.Match(tt.path))
		})
	}
}
