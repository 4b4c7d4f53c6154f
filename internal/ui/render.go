package ui

import (
	"strings"
	"sync"

	"github.com/ScratchHW/scratch-link/internal/arduino"
)

// EventRenderer turns classified tool output into styled terminal text. A
// progress-start marker opens a colored span that stays open across chunks
// until the matching percent marker or a done banner closes it, mirroring
// how avrdude interleaves its progress bars with plain text.
type EventRenderer struct {
	mu         sync.Mutex
	out        strings.Builder
	inProgress bool
}

// NewEventRenderer returns an empty renderer.
func NewEventRenderer() *EventRenderer {
	return &EventRenderer{}
}

// Append renders one event into the transcript.
func (r *EventRenderer) Append(ev arduino.OutputEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case arduino.EventProgressStart:
		r.inProgress = true
		r.out.WriteString(ProgressStyle.Render(ev.Text))
	case arduino.EventProgressEnd:
		r.out.WriteString(ProgressStyle.Render(ev.Text))
		r.inProgress = false
	case arduino.EventBanner:
		// A done banner also closes any open progress span.
		r.inProgress = false
		r.out.WriteString(BannerStyle.Render(ev.Text))
	case arduino.EventError:
		r.out.WriteString(ErrorStyle.Render(ev.Text))
	default:
		if r.inProgress {
			r.out.WriteString(ProgressStyle.Render(ev.Text))
		} else {
			r.out.WriteString(ev.Text)
		}
	}
}

// String returns the styled transcript so far.
func (r *EventRenderer) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.out.String()
}

// Reset clears the transcript.
func (r *EventRenderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out.Reset()
	r.inProgress = false
}
