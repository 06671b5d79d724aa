package services

import (
	"fmt"
	"strings"

	"protocol-system/internal/entities"
)

func describeCreated(by entities.Identity) string {
	return fmt.Sprintf("Registered by %s", by.Username)
}

func describeSent(by entities.Identity, target string) string {
	return fmt.Sprintf("Sent to sector %s by %s", target, by.Username)
}

func describeReceived(by entities.Identity, from string) string {
	return fmt.Sprintf("Received from sector %s by %s", from, by.Username)
}

func describeRejected(by entities.Identity, note string) string {
	return withNote(fmt.Sprintf("Rejected by %s", by.Username), note)
}

func describeCancelled(by entities.Identity, target string, note string) string {
	return withNote(fmt.Sprintf("Sending to sector %s cancelled by sender %s", target, by.Username), note)
}

func describeRequested(by entities.Identity, holder string, reason string) string {
	return fmt.Sprintf("Requested by %s for sector %s from sector %s: %s", by.Username, by.Sector, holder, reason)
}

func describeDeleted(by entities.Identity) string {
	return fmt.Sprintf("Deleted by %s", by.Username)
}

func withNote(message, note string) string {
	if note = strings.TrimSpace(note); note != "" {
		return message + ": " + note
	}
	return message
}

type fieldChange struct {
	field  string
	before string
	after  string
}

func optionalText(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// diffDocument lists the editable fields whose value differs between
// before and after, in a fixed order.
func diffDocument(before, after entities.Document) []fieldChange {
	var changes []fieldChange
	add := func(field, was, now string) {
		if was != now {
			changes = append(changes, fieldChange{field: field, before: was, after: now})
		}
	}
	add("number", before.Number, after.Number)
	add("name", before.Name, after.Name)
	add("observations", optionalText(before.Observations), optionalText(after.Observations))
	add("type", string(before.Type), string(after.Type))
	return changes
}

func describeUpdated(by entities.Identity, changes []fieldChange) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, fmt.Sprintf("%s changed from %q to %q", c.field, c.before, c.after))
	}
	return fmt.Sprintf("Updated by %s: %s", by.Username, strings.Join(parts, "; "))
}
