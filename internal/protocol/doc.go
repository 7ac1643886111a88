// Package protocol defines the line-oriented event protocol emitted on
// stdout: utterance boundary markers and base64-encoded PCM payloads.
// It provides formatting for the emitter and parsing for consumers.
package protocol
