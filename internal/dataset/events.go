package dataset

import "context"

// EventType identifies a progress event.
type EventType int

const (
	EventNoteStarted EventType = iota
	EventFileWritten
	EventNoteSkipped
	EventNoteDone
	EventNoteFailed
)

func (t EventType) String() string {
	switch t {
	case EventNoteStarted:
		return "NoteStarted"
	case EventFileWritten:
		return "FileWritten"
	case EventNoteSkipped:
		return "NoteSkipped"
	case EventNoteDone:
		return "NoteDone"
	case EventNoteFailed:
		return "NoteFailed"
	default:
		return "Unknown"
	}
}

// Event reports progress of a run.
type Event struct {
	Type EventType
	Note string
	Path string // file written, for EventFileWritten
	// Position of the note in the table, 1-based, and the table size.
	Index int
	Total int
	// Files written so far for this note and files expected.
	Files    int
	NumFiles int
	Err      error
}

// emit delivers e unless the run's context is done.
func (m *Materializer) emit(ctx context.Context, e Event) {
	if m.opts.Events == nil {
		return
	}
	select {
	case m.opts.Events <- e:
	case <-ctx.Done():
	}
}
