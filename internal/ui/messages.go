package ui

import "vidscribe/internal/progress"

// Every session started by the model gets a generation number; messages of
// a replaced session are dropped.

type jobUpdateMsg struct {
	Gen int
	U   progress.Update
}

type jobResultMsg struct {
	Gen int
	R   progress.Result
}

type allDoneMsg struct{}
