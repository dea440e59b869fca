package schema

// Progress is one progress notification emitted by the engine.
type Progress struct {
	Percentage    float64 `json:"percentage"`
	Action        string  `json:"action"`
	TimeRemaining float64 `json:"timeRemainingSeconds"`
	IsFinished    bool    `json:"isFinished"`

	// Speed is the average transfer rate in bytes per second so far.
	Speed float64 `json:"-"`
}

// ProgressFunc receives progress notifications. It is invoked on the engine
// goroutine and must return quickly.
type ProgressFunc func(Progress)
