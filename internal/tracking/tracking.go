// Package tracking prepares a tracking number for the external package
// tracking widget. The widget owns its own state; this package only checks
// and shapes the number it is handed.
package tracking

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/osse101/storefront/internal/domain"
)

// Widget is the data the widget script needs to render
type Widget struct {
	Script   string `json:"script"`
	Target   string `json:"target"`
	Number   string `json:"number"`
	Language string `json:"language"`
}

// Normalize strips separators, upper-cases the number and checks its shape
func Normalize(number string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(number) {
		switch {
		case r == ' ' || r == '-':
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToUpper(r))
		default:
			return "", fmt.Errorf("%w: %s", domain.ErrValidationFailed, ErrMsgInvalidChars)
		}
	}

	out := b.String()
	switch {
	case out == "":
		return "", fmt.Errorf("%w: %s", domain.ErrValidationFailed, ErrMsgEmpty)
	case len(out) < MinLength || len(out) > MaxLength:
		return "", fmt.Errorf("%w: %s", domain.ErrValidationFailed, ErrMsgLength)
	}
	return out, nil
}

// WidgetConfig returns the widget configuration for number
func WidgetConfig(number string) (Widget, error) {
	n, err := Normalize(number)
	if err != nil {
		return Widget{}, err
	}
	return Widget{
		Script:   DefaultWidgetScript,
		Target:   DefaultWidgetTarget,
		Number:   n,
		Language: DefaultLanguage,
	}, nil
}
