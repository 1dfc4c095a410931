package faults

import "fmt"

// ShouldAnnounce gates assistive-technology announcements. Low-severity
// recoverable failures stay silent to avoid noise; everything else is
// announced.
func ShouldAnnounce(pe ProcessedError) bool {
	return !(pe.Severity == SeverityLow && pe.Recoverable)
}

// FormatAnnouncement renders the spoken form of a failure. Severity adds a
// prefix only at high and critical.
func FormatAnnouncement(pe ProcessedError) string {
	switch pe.Severity {
	case SeverityCritical:
		return fmt.Sprintf("Critical error: %s. %s", pe.Title, pe.UserMessage)
	case SeverityHigh:
		return fmt.Sprintf("Error: %s. %s", pe.Title, pe.UserMessage)
	default:
		return fmt.Sprintf("%s. %s", pe.Title, pe.UserMessage)
	}
}
