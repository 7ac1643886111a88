// Package emit writes segmentation events as protocol lines on the output
// stream. Diagnostics go to the logger, never to the protocol stream.
package emit
