package revisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		resp    string
		wantErr error
		want    Simplified
	}{
		{
			name: "valid",
			resp: `{"full_content":"fc","pros":["a","b","c"],"cons":["d","e","f"],` +
				`"simplified_summary":"s","reading_level":"adult"}`,
			want: Simplified{
				FullContent:       "fc",
				Pros:              []string{"a", "b", "c"},
				Cons:              []string{"d", "e", "f"},
				SimplifiedSummary: "s",
				ReadingLevel:      "adult",
			},
		},
		{
			name: "json fence",
			resp: "```json\n" + `{"full_content":"fc","pros":["a","b","c"],"cons":["d","e","f"],` +
				`"simplified_summary":"s","reading_level":"adult"}` + "\n```",
			want: Simplified{
				FullContent:       "fc",
				Pros:              []string{"a", "b", "c"},
				Cons:              []string{"d", "e", "f"},
				SimplifiedSummary: "s",
				ReadingLevel:      "adult",
			},
		},
		{
			name: "plain fence",
			resp: "```\n" + `{"full_content":"fc","pros":["a","b","c"],"cons":["d","e","f"],` +
				`"simplified_summary":"s","reading_level":"adult"}` + "```",
			want: Simplified{
				FullContent:       "fc",
				Pros:              []string{"a", "b", "c"},
				Cons:              []string{"d", "e", "f"},
				SimplifiedSummary: "s",
				ReadingLevel:      "adult",
			},
		},
		{
			name: "cut in full content",
			resp: `{"pros":["a","b","c"],"cons":["d","e","f"],"simplified_summary":"s",` +
				`"reading_level":"adult","full_content":"the story goes \"on`,
			want: Simplified{
				FullContent:       `the story goes "on`,
				Pros:              []string{"a", "b", "c"},
				Cons:              []string{"d", "e", "f"},
				SimplifiedSummary: "s",
				ReadingLevel:      "adult",
			},
		},
		{
			name:    "cut in full content, other fields missing",
			resp:    `{"full_content": "the story goes on and`,
			wantErr: ErrValidation,
		},
		{
			name:    "cut elsewhere",
			resp:    `{"full_content":"fc","pros":["a","b"`,
			wantErr: ErrMalformedOutput,
		},
		{
			name:    "not json",
			resp:    "I cannot do that",
			wantErr: ErrMalformedOutput,
		},
		{
			name:    "array",
			resp:    `["a"]`,
			wantErr: ErrMalformedOutput,
		},
		{
			name: "two pros",
			resp: `{"full_content":"fc","pros":["a","b"],"cons":["d","e","f"],` +
				`"simplified_summary":"s","reading_level":"adult"}`,
			wantErr: ErrValidation,
		},
		{
			name: "cons not a list",
			resp: `{"full_content":"fc","pros":["a","b","c"],"cons":"none",` +
				`"simplified_summary":"s","reading_level":"adult"}`,
			wantErr: ErrValidation,
		},
		{
			name: "missing summary",
			resp: `{"full_content":"fc","pros":["a","b","c"],"cons":["d","e","f"],` +
				`"reading_level":"adult"}`,
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parse(tt.resp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestRepair(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "no field", in: `{"pros":["a"`, ok: false},
		{name: "terminated", in: `{"full_content":"abc","pros":[`, ok: false},
		{name: "unterminated", in: `{"full_content": "abc`, want: `{"full_content": "abc"}`, ok: true},
		{name: "nested", in: `{"data":{"full_content":"abc`, want: `{"data":{"full_content":"abc"}}`, ok: true},
		{name: "brackets in strings", in: `{"x":"[{","full_content":"a`, want: `{"x":"[{","full_content":"a"}`, ok: true},
		{name: "cut escape", in: `{"full_content":"a\`, want: `{"full_content":"a"}`, ok: true},
		{name: "escaped backslash", in: `{"full_content":"a\\`, want: `{"full_content":"a\\"}`, ok: true},
		{name: "not a string", in: `{"full_content": 12`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := repair(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
