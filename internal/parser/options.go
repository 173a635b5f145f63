package parser

// Options tunes extraction.
type Options struct {
	// Permissive keeps syslog lines that do not match the standard layout,
	// using the whole line as the message. Timestamp, host and service are
	// left empty rather than guessed.
	Permissive bool
}
