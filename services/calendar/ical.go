package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pilateshub/models"
)

const (
	ContentType = "text/calendar; charset=utf-8"

	prodID      = "-//PilatesHub//Class Schedule//EN"
	stampLayout = "20060102T150405Z"
	maxLineLen  = 75
)

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// GenerateICalContent renders events as an RFC 5545 VCALENDAR document. Every event is
// validated before anything is written, so a malformed event never yields a partial file.
func GenerateICalContent(events []models.CalendarEvent) (string, error) {
	return generate(events, time.Now())
}

func generate(events []models.CalendarEvent, stamp time.Time) (string, error) {
	for i, ev := range events {
		if err := validateEvent(ev); err != nil {
			return "", exportError("event %d: %v", i, err)
		}
	}

	var b strings.Builder
	w := func(line string) {
		b.WriteString(fold(line))
		b.WriteString("\r\n")
	}

	w("BEGIN:VCALENDAR")
	w("VERSION:2.0")
	w("PRODID:" + prodID)
	w("CALSCALE:GREGORIAN")
	w("METHOD:PUBLISH")
	dtstamp := formatUTC(stamp)
	for _, ev := range events {
		w("BEGIN:VEVENT")
		w("UID:" + ev.UID)
		w("DTSTAMP:" + dtstamp)
		w("DTSTART:" + formatUTC(ev.Start))
		w("DTEND:" + formatUTC(ev.End))
		w("SUMMARY:" + EscapeText(ev.Title))
		if ev.Description != "" {
			w("DESCRIPTION:" + EscapeText(ev.Description))
		}
		if ev.Location != "" {
			w("LOCATION:" + EscapeText(ev.Location))
		}
		w("STATUS:CONFIRMED")
		w("END:VEVENT")
	}
	w("END:VCALENDAR")
	return b.String(), nil
}

func validateEvent(ev models.CalendarEvent) error {
	switch {
	case ev.UID == "":
		return errors.New("missing uid")
	case strings.TrimSpace(ev.Title) == "":
		return errors.New("missing title")
	case ev.Start.IsZero():
		return errors.New("missing start")
	case ev.End.IsZero():
		return errors.New("missing end")
	case ev.End.Before(ev.Start):
		return fmt.Errorf("end %s is before start %s", ev.End.Format(time.RFC3339), ev.Start.Format(time.RFC3339))
	}
	for _, f := range []struct{ name, text string }{
		{"uid", ev.UID},
		{"title", ev.Title},
		{"description", ev.Description},
		{"location", ev.Location},
	} {
		if !utf8.ValidString(f.text) {
			return fmt.Errorf("%s is not valid UTF-8", f.name)
		}
	}
	return nil
}

// EscapeText escapes a TEXT property value: backslash, semicolon, comma and newlines.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

func formatUTC(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

// fold splits a content line into 75-octet chunks joined by CRLF and a single space.
// Cuts never land inside a multi-byte UTF-8 sequence.
func fold(line string) string {
	if len(line) <= maxLineLen {
		return line
	}
	var b strings.Builder
	limit := maxLineLen
	for len(line) > limit {
		cut := limit
		for cut > 0 && line[cut]&0xC0 == 0x80 {
			cut--
		}
		if cut == 0 {
			// No rune boundary in the window; split on the octet limit.
			cut = limit
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// Continuation lines spend one octet on the leading space.
		limit = maxLineLen - 1
	}
	b.WriteString(line)
	return b.String()
}
