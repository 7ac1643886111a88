package emit

import (
	"bufio"
	"io"
	"log/slog"

	"github.com/mull2536/voice-agent/internal/protocol"
)

// Emitter writes protocol event lines to the output stream, flushing after
// every line so a downstream reader observes events with minimal delay.
// Write failures are logged to the diagnostic stream; the pipeline keeps
// running, since the output consumer may simply have gone away during
// shutdown.
type Emitter struct {
	w      *bufio.Writer
	logger *slog.Logger
}

// New creates an emitter writing to w. In production w is stdout; the
// diagnostic logger must never share that stream.
func New(w io.Writer, logger *slog.Logger) *Emitter {
	return &Emitter{
		w:      bufio.NewWriter(w),
		logger: logger,
	}
}

// SpeechStart emits the utterance-open boundary line
func (e *Emitter) SpeechStart() {
	e.writeLine(protocol.SpeechStartLine)
}

// SpeechEnd emits the utterance-close boundary line
func (e *Emitter) SpeechEnd() {
	e.writeLine(protocol.SpeechEndLine)
}

// Audio emits the base64-encoded PCM payload line
func (e *Emitter) Audio(pcm []byte) {
	e.writeLine(protocol.FormatAudioLine(pcm))
}

func (e *Emitter) writeLine(line string) {
	if _, err := e.w.WriteString(line + "\n"); err != nil {
		e.logger.Error("failed to write event line", slog.String("error", err.Error()))
		return
	}

	if err := e.w.Flush(); err != nil {
		e.logger.Error("failed to flush event line", slog.String("error", err.Error()))
	}
}
