// SPDX-License-Identifier: MIT

package main

import (
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Reporter is the contract the core pipeline depends on for progress
// feedback (spec §1: the progress bar's rendering is an external
// collaborator; only its increment-by-count contract is consumed).
type Reporter interface {
	// AddPhase starts tracking a new phase of `total` units of work and
	// returns a handle for reporting completions against it.
	AddPhase(name string, total int) PhaseReporter
	// Close releases any terminal resources the reporter holds.
	Close()
}

// PhaseReporter reports progress within a single phase.
type PhaseReporter interface {
	IncrBy(n int)
	Done()
}

// mpbReporter is the real, terminal-rendered Reporter, backed by
// github.com/vbauerster/mpb/v8 (pulled in from the rest of the retrieval
// pack's dependency graph, where it already backs another tool's CLI
// progress bars).
type mpbReporter struct {
	progress *mpb.Progress
}

func NewMpbReporter() Reporter {
	return &mpbReporter{progress: mpb.New(mpb.WithWidth(48))}
}

func (r *mpbReporter) AddPhase(name string, total int) PhaseReporter {
	bar := r.progress.AddBar(int64(total),
		mpb.PrependDecorators(decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DidentRight})),
		mpb.AppendDecorators(decor.CountersNoUnit("%d / %d"), decor.Percentage(decor.WCSyncSpace)),
	)
	return &mpbPhaseReporter{bar: bar}
}

func (r *mpbReporter) Close() {
	r.progress.Wait()
}

type mpbPhaseReporter struct {
	bar *mpb.Bar
}

func (p *mpbPhaseReporter) IncrBy(n int) { p.bar.IncrBy(n) }
func (p *mpbPhaseReporter) Done()        { p.bar.SetCurrent(p.bar.Current()) }

// quietReporter is the --quiet no-op Reporter.
type quietReporter struct{}

func NewQuietReporter() Reporter                             { return quietReporter{} }
func (quietReporter) AddPhase(name string, total int) PhaseReporter { return quietPhaseReporter{} }
func (quietReporter) Close()                                 {}

type quietPhaseReporter struct{}

func (quietPhaseReporter) IncrBy(n int) {}
func (quietPhaseReporter) Done()        {}
