package status

import (
	"fmt"
)

// FileFormatter defines how file outcomes and progress should be formatted
type FileFormatter interface {
	// FormatFileOutcome formats the outcome of one file
	FormatFileOutcome(info FileInfo) string

	// FormatProgress formats a progress checkpoint
	FormatProgress(phase Phase, current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOutcome formats a file outcome with emojis
func (f *DefaultFileFormatter) FormatFileOutcome(info FileInfo) string {
	switch info.Status {
	case StatusFound:
		return fmt.Sprintf("🔍 Found %s", info.Path)
	case StatusCopied:
		return fmt.Sprintf("✨ Copied %s", info.Path)
	case StatusMoved:
		return fmt.Sprintf("📦 Moved %s", info.Path)
	case StatusDeleted:
		return fmt.Sprintf("🗑️  Deleted %s", info.Path)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", info.Path)
	default:
		return fmt.Sprintf("❔ %s", info.Path)
	}
}

// FormatProgress formats a progress checkpoint with percentage
func (f *DefaultFileFormatter) FormatProgress(phase Phase, current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ %s: %d/%d (%.0f%%)", phase, current, total, percentage)
	}
	return fmt.Sprintf("⏳ %s: %d/%d (%.0f%%)", phase, current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
