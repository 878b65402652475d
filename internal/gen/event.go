package gen

import "time"

// Stage describes a pipeline phase.
type Stage string

const (
	// StageDiscover is the fixture enumeration stage.
	StageDiscover Stage = "discover"
	// StageRender is the identifier derivation and stub rendering stage.
	StageRender Stage = "render"
	// StageWrite is the document assembly and write stage.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusWorking indicates the stage is in progress.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusSkipped indicates the pipeline bailed out before the stage ran.
	StatusSkipped Status = "skipped"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports progress for one pipeline.
type Event struct {
	Pipeline string
	Stage    Stage
	Status   Status
	Err      error
	Elapsed  time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}
