package ics

import "strings"

// crlf converts a readable fixture into RFC 5545 line endings.
func crlf(s string) []byte {
	return []byte(strings.ReplaceAll(strings.TrimLeft(s, "\n"), "\n", "\r\n"))
}

var scheduleFeed = crlf(`
BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//thesiscal test//EN
BEGIN:VEVENT
UID:defense-1
DTSTAMP:20240101T000000Z
DTSTART;VALUE=DATE:20240305
DTEND;VALUE=DATE:20240307
SUMMARY:Thesis defense
LOCATION:Room 204
END:VEVENT
BEGIN:VEVENT
UID:advisor
DTSTAMP:20240101T000000Z
DTSTART:20240304T010000Z
DTEND:20240304T020000Z
RRULE:FREQ=WEEKLY;COUNT=4
EXDATE:20240311T010000Z
SUMMARY:Advisor meeting
END:VEVENT
BEGIN:VEVENT
UID:advisor
DTSTAMP:20240101T000000Z
RECURRENCE-ID:20240318T010000Z
DTSTART:20240319T050000Z
DTEND:20240319T060000Z
SUMMARY:Advisor meeting (moved)
END:VEVENT
BEGIN:VEVENT
DTSTAMP:20240101T000000Z
DTSTART:20240301T000000Z
SUMMARY:No UID
END:VEVENT
END:VCALENDAR
`)
