package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text untouched", in: "Lovely stay", want: "Lovely stay"},
		{name: "tags removed", in: "<p>Lovely <b>stay</b></p>", want: "Lovely stay"},
		{name: "script body dropped", in: "before<script>alert(1)</script>after", want: "beforeafter"},
		{name: "style body dropped", in: "<style>p{color:red}</style>text", want: "text"},
		{name: "nested markup", in: "<div><span>a</span> <em>b</em></div>", want: "a b"},
		{name: "whitespace trimmed", in: "  spaced  ", want: "spaced"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}
