package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "123   Main    St", "123 Main St"},
		{"expands okc after comma", "400 W Main, OKC, OK 73102", "400 W Main, Oklahoma City, OK 73102"},
		{"expands okc without space", "400 W Main,OKC, OK", "400 W Main, Oklahoma City, OK"},
		{"expands okc mid string", "400 W Main St OKC OK", "400 W Main St Oklahoma City OK"},
		{"fixes space before comma", "400 W Main , Edmond, OK", "400 W Main, Edmond, OK"},
		{"joins split ordinal", "12 th Street", "12th Street"},
		{"joins split ordinal uppercase", "1201 NW 122 ND St", "1201 NW 122ND St"},
		{"leaves sound addresses alone", "501 N Walker Ave, Oklahoma City, OK 73102", "501 N Walker Ave, Oklahoma City, OK 73102"},
		{"does not touch street named worth", "12 Worth St", "12 Worth St"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
