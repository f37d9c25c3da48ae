package coupon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCode_Valid(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "Already normalised",
			raw:      "SAVE10",
			expected: "SAVE10",
		},
		{
			name:     "Lower case is upper-cased",
			raw:      "save10",
			expected: "SAVE10",
		},
		{
			name:     "Surrounding whitespace is trimmed",
			raw:      "  WELCOME-20  ",
			expected: "WELCOME-20",
		},
		{
			name:     "Minimum length of 3",
			raw:      "AB1",
			expected: "AB1",
		},
		{
			name:     "Maximum length of 50",
			raw:      strings.Repeat("A", 50),
			expected: strings.Repeat("A", 50),
		},
		{
			name:     "Hyphens allowed",
			raw:      "FIRST-ORDER-2024",
			expected: "FIRST-ORDER-2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := NormalizeCode(tt.raw)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestNormalizeCode_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expectErr error
	}{
		{
			name:      "Empty string",
			raw:       "",
			expectErr: ErrCodeMissing,
		},
		{
			name:      "Whitespace only",
			raw:       "   ",
			expectErr: ErrCodeMissing,
		},
		{
			name:      "Too short - 2 characters",
			raw:       "ab",
			expectErr: ErrCodeTooShort,
		},
		{
			name:      "Too long - 51 characters",
			raw:       strings.Repeat("A", 51),
			expectErr: ErrCodeTooLong,
		},
		{
			name:      "Embedded space",
			raw:       "SAVE 10",
			expectErr: ErrCodeCharset,
		},
		{
			name:      "Underscore",
			raw:       "SAVE_10",
			expectErr: ErrCodeCharset,
		},
		{
			name:      "Unicode characters",
			raw:       "SAVE10€",
			expectErr: ErrCodeCharset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := NormalizeCode(tt.raw)

			require.Error(t, err)
			assert.Equal(t, tt.expectErr, err)
			assert.Empty(t, code)
		})
	}
}

// A code is accepted iff the trimmed, upper-cased form is 3-50 characters
// drawn from [A-Z0-9-].
func TestNormalizeCode_Invariant(t *testing.T) {
	inputs := []string{
		"", "a", "ab", "abc", "ABC-", "-", "--", "---",
		"SAVE10", "save 10", "123", "1 2", "A_B_C",
		strings.Repeat("Z", 49), strings.Repeat("Z", 50), strings.Repeat("Z", 51),
		"  OK1  ", "\tTAB1\t", "ok!", "£99",
	}

	validChar := func(r rune) bool {
		return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-'
	}

	for _, raw := range inputs {
		normalized := strings.ToUpper(strings.TrimSpace(raw))
		wantValid := len(normalized) >= 3 && len(normalized) <= 50
		if wantValid {
			for _, r := range normalized {
				if !validChar(r) {
					wantValid = false
					break
				}
			}
		}

		code, err := NormalizeCode(raw)
		if wantValid {
			assert.NoError(t, err, "input %q", raw)
			assert.Equal(t, normalized, code, "input %q", raw)
		} else {
			assert.Error(t, err, "input %q", raw)
		}
	}
}
