// Package whatsapp builds click-to-chat deep links.
package whatsapp

import (
	"errors"
	"net/url"
	"strings"
	"unicode"
)

// DefaultBaseURL is the public click-to-chat endpoint.
const DefaultBaseURL = "https://wa.me"

// ErrNoNumber is returned when the number has no digits left after normalisation.
var ErrNoNumber = errors.New("whatsapp number is required")

// NormalizeNumber keeps only the digits of a phone number, so "+1 (555) 010-2030"
// becomes "15550102030".
func NormalizeNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Link returns baseURL/<digits>?text=<encoded text>. An empty baseURL uses DefaultBaseURL.
func Link(baseURL, number, text string) (string, error) {
	digits := NormalizeNumber(number)
	if digits == "" {
		return "", ErrNoNumber
	}
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u = u.JoinPath(digits)
	if text != "" {
		u.RawQuery = url.Values{"text": []string{text}}.Encode()
	}
	return u.String(), nil
}
