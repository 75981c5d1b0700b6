package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teilomillet/tavita/server/prompt"
)

// mockTiktoken implements a mock tokenizer for testing
type mockTiktoken struct {
	countTokens func(string) int
}

func (m *mockTiktoken) Encode(text string, allowedSpecial, disallowedSpecial []string) []int {
	tokens := make([]int, m.countTokens(text))
	for i := range tokens {
		tokens[i] = i
	}
	return tokens
}

func TestTokenCounter(t *testing.T) {
	counter := NewTokenCounterWith(&mockTiktoken{
		countTokens: func(s string) int {
			return len(strings.Fields(s))
		},
	})

	assert.Equal(t, 0, counter.Count(""))
	assert.Equal(t, 2, counter.Count("hello world"))
	assert.Equal(t, 33, counter.Count(strings.Repeat("word ", 33)))
}

func TestPayloadValidator(t *testing.T) {
	limits := Limits{MaxFields: 3, MaxKeyLength: 8, MaxValueLength: 10}
	pv, err := NewPayloadValidator(limits)
	require.NoError(t, err)

	tests := []struct {
		name      string
		payload   prompt.Payload
		wantCodes []string
	}{
		{
			name:    "valid",
			payload: prompt.Payload{"idea": "short", "tone": "شاد"},
		},
		{
			name:    "empty payload",
			payload: prompt.Payload{},
		},
		{
			name:    "value limit counts characters not bytes",
			payload: prompt.Payload{"idea": "ایده کوتاه"},
		},
		{
			name:      "too many fields",
			payload:   prompt.Payload{"a": "1", "b": "2", "c": "3", "d": "4"},
			wantCodes: []string{"too_many_fields"},
		},
		{
			name:      "value too long",
			payload:   prompt.Payload{"idea": strings.Repeat("x", 11)},
			wantCodes: []string{"value_too_long"},
		},
		{
			name:      "key too long",
			payload:   prompt.Payload{"averyverylongkey": "x"},
			wantCodes: []string{"field_name_too_long"},
		},
		{
			name:      "empty key",
			payload:   prompt.Payload{"": "x"},
			wantCodes: []string{"empty_field_name"},
		},
		{
			name: "several problems in key order",
			payload: prompt.Payload{
				"topic": strings.Repeat("y", 20),
				"idea":  strings.Repeat("x", 20),
			},
			wantCodes: []string{"value_too_long", "value_too_long"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pv.Validate(tt.payload)
			if len(tt.wantCodes) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *Error
			require.True(t, errors.As(err, &verr))
			codes := make([]string, len(verr.Details))
			for i, d := range verr.Details {
				codes[i] = d.Code
			}
			assert.Equal(t, tt.wantCodes, codes)
			assert.Contains(t, err.Error(), "invalid payload")
		})
	}
}

func TestPayloadValidatorDetails(t *testing.T) {
	pv, err := NewPayloadValidator(Limits{MaxFields: 5, MaxKeyLength: 4, MaxValueLength: 3})
	require.NoError(t, err)

	err = pv.Validate(prompt.Payload{"tone": "long", "platform": "x"})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Details, 2)

	assert.Equal(t, "plat...", verr.Details[0].Field)
	assert.Equal(t, "field_name_too_long", verr.Details[0].Code)
	assert.Equal(t, "tone", verr.Details[1].Field)
	assert.Empty(t, verr.Details[1].Value)
}

func TestNewPayloadValidatorRejectsBadLimits(t *testing.T) {
	_, err := NewPayloadValidator(Limits{MaxFields: 0, MaxKeyLength: 1, MaxValueLength: 1})
	assert.Error(t, err)

	_, err = NewPayloadValidator(DefaultLimits())
	assert.NoError(t, err)
}
