package wizard_test

import (
	"testing"

	"github.com/mochapay/mocha/pkg/wizard"
	"github.com/stretchr/testify/assert"
)

func TestIsValidPhoneNumber(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"+23276123456", true},
		{"1234567890", true},
		{"(555) 123-4567", true},
		{"+44 20 7946 0958", true},
		{"123456789012345", true},
		{"1234567890123456", false},
		{"123456789", false},
		{"abc", false},
		{"++1234567890", false},
		{"12345+67890", false},
		{"", false},
		{"   ", false},
		{"232-76-123456", true},
		{"+232\u00a076\u00a0123456", true},
		{"232\v76123456", true},
		{"232\f76123456", true},
		{"+1\u2003555\u20030100\u200300", true},
		// 8 digits is below the 10 digit minimum.
		{"+1 555 0100", false},
		{"12345", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, wizard.IsValidPhoneNumber(tt.input))
		})
	}
}

func TestNormalizePhoneNumber(t *testing.T) {
	assert.Equal(t, "+15551234567", wizard.NormalizePhoneNumber("+1 (555) 123-4567"))
	assert.Equal(t, "+23276123456", wizard.NormalizePhoneNumber("+232\u00a076\u202f123456"))
}
