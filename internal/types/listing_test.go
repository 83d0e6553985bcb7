package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptimizeRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request OptimizeRequest
		valid   bool
	}{
		{"valid identifier", OptimizeRequest{Identifier: "B0EXAMPLE1"}, true},
		{"valid with save", OptimizeRequest{Identifier: "B0EXAMPLE1", Save: true}, true},
		{"missing identifier", OptimizeRequest{}, false},
		{"identifier too long", OptimizeRequest{Identifier: strings.Repeat("a", 65)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
