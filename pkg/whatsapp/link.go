// Package whatsapp builds click-to-chat links for demo mode.
package whatsapp

import (
	"errors"
	"net/url"
	"strings"
)

// ErrNoDigits is returned for a number without any digit.
var ErrNoDigits = errors.New("whatsapp number has no digits")

const base = "https://wa.me/"

// DeepLink returns a wa.me link that opens a chat with number prefilled
// with message. Every non-digit is dropped from number and spaces in
// message are encoded as %20.
func DeepLink(number, message string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return "", ErrNoDigits
	}
	link := base + digits
	if message != "" {
		link += "?text=" + encodeComponent(message)
	}
	return link, nil
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
