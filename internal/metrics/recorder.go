// Package metrics provides observability hooks for the build pipeline.
// Components receive a Recorder by injection; the default NoopRecorder
// makes metrics strictly optional with zero overhead.
package metrics

import "time"

// Recorder defines observability hooks for build and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|partial|failed|skipped
	AddPagesWritten(n int)
	IncFileError(category string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) AddPagesWritten(int)                        {}
func (NoopRecorder) IncFileError(string)                        {}
