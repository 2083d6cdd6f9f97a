package view

import (
	"fmt"
	"math"
	"time"
)

var sourceLabels = map[string]string{
	"whatsapp":  "WhatsApp",
	"facebook":  "Facebook",
	"instagram": "Instagram",
	"web":       "Web",
}

// SourceDisplay maps a lead source key to its label. Unknown keys pass through.
func SourceDisplay(source string) string {
	if label, ok := sourceLabels[source]; ok {
		return label
	}
	return source
}

// LastContactDisplay renders how long ago a lead was last contacted.
func LastContactDisplay(lastContact *time.Time, now time.Time) string {
	if lastContact == nil {
		return "Nunca"
	}

	hours := int(math.Floor(now.Sub(*lastContact).Hours()))
	if hours < 1 {
		return "Hace minutos"
	}
	if hours < 24 {
		return fmt.Sprintf("Hace %dh", hours)
	}

	days := hours / 24
	switch {
	case days == 1:
		return "Ayer"
	case days < 7:
		return fmt.Sprintf("Hace %dd", days)
	default:
		return FormatDate(*lastContact)
	}
}

// FormatDate renders a date the way es-MX locales do: d/m/yyyy.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

func FormatDateTime(t time.Time) string {
	return FormatDate(t) + ", " + t.Format("15:04:05")
}

// Formatter binds the display helpers to a location and clock.
type Formatter struct {
	Location *time.Location
	Now      func() time.Time
}

func NewFormatter(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.Local
	}
	return Formatter{Location: loc, Now: time.Now}
}

func (f Formatter) LastContact(lastContact *time.Time) string {
	if lastContact == nil {
		return LastContactDisplay(nil, f.Now())
	}

	local := lastContact.In(f.Location)
	return LastContactDisplay(&local, f.Now().In(f.Location))
}

// Date, Time and DateTime render the zero time as an empty string.
func (f Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return FormatDate(t.In(f.Location))
}

func (f Formatter) Time(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return FormatTime(t.In(f.Location))
}

func (f Formatter) DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return FormatDateTime(t.In(f.Location))
}
