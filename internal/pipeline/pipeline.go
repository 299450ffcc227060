// Package pipeline wires the reader, timestamp resolver, decoders, rate
// limiter and CSV sinks into the single-threaded line-processing loop.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"oem719parse/internal/csvsink"
	"oem719parse/internal/logreader"
	"oem719parse/internal/oem719"
	"oem719parse/internal/rate"
)

// State tracks the run through its lifecycle.
type State int

const (
	StateIdle State = iota
	StateSeeking
	StateRunning
	StateCompleted
	StateExpired
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeeking:
		return "seeking"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateExpired:
		return "expired"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// progressEvery controls how often the loop logs a progress line.
const progressEvery = 1000

// Options configures a single run. Limiter and Timestamps are constructed
// per run by the caller so the pipeline carries no process-wide state and
// is restartable within the same process.
type Options struct {
	Input       string
	OutputDir   string
	OffsetBytes int64
	MaxDuration time.Duration

	Limiter    rate.Limiter
	Timestamps *oem719.TimestampResolver
}

// Result summarizes a finished run.
type Result struct {
	State   State
	HasLock bool
	Lines   int
	Elapsed float64
	Counts  map[oem719.MessageType]int
}

// Run executes the pipeline: open, seek to the start offset, then for every
// line resolve a timestamp, classify, decode, rate-limit and route, always
// also writing the raw line. It stops on stream exhaustion, duration expiry
// or an unrecoverable read error. Resources are released on every path.
func Run(opts Options) (Result, error) {
	res := Result{State: StateIdle}

	reader, err := logreader.Open(opts.Input)
	if err != nil {
		res.State = StateAborted
		return res, fmt.Errorf("open input: %w", err)
	}
	defer reader.Close()

	res.State = StateSeeking
	log.Printf("seeking to start position (offset %d bytes)", opts.OffsetBytes)
	hasLock, err := reader.SeekToStart(opts.OffsetBytes)
	if err != nil {
		res.State = StateAborted
		return res, fmt.Errorf("seek input: %w", err)
	}
	res.HasLock = hasLock
	if hasLock {
		log.Printf("found GPS lock, starting parsing")
	} else {
		log.Printf("warning: no GPS lock found after offset, continuing anyway")
	}

	router, err := csvsink.OpenRouter(opts.OutputDir)
	if err != nil {
		res.State = StateAborted
		return res, err
	}
	defer router.Close()

	guard := NewDurationGuard(opts.MaxDuration)
	res.State = StateRunning

	for {
		line, err := reader.NextLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				res.State = StateCompleted
				break
			}
			res.State = StateAborted
			res.Counts = router.Counts()
			return res, fmt.Errorf("read input: %w", err)
		}
		res.Lines++

		timestamp := opts.Timestamps.Resolve(line)
		if !guard.Started() {
			guard.Start()
		}

		raw := line
		if t, ok := oem719.Classify(line); ok {
			if t == oem719.TypeGPGSV {
				group := collectGPGSVGroup(reader, line)
				raw = strings.Join(group, "\n")
				if row, _ := oem719.DecodeGPGSV(timestamp, group); row != nil {
					if opts.Limiter.Admit(t) {
						router.WriteRow(t, row)
					}
				}
			} else if row := oem719.Decode(t, timestamp, line); row != nil {
				if opts.Limiter.Admit(t) {
					router.WriteRow(t, row)
				}
			}
		}

		// The raw channel gets every line, decoded or not, with the
		// original text quoted and a trailing newline inside the value.
		router.WriteRow(oem719.TypeRAW, []string{timestamp, `"` + raw + "\n" + `"`})

		if guard.HasExpired() {
			log.Printf("reached %.1fs duration limit", guard.ElapsedSeconds())
			res.State = StateExpired
			break
		}
		if res.Lines%progressEvery == 0 {
			log.Printf("processed %d lines... (elapsed: %.1fs)", res.Lines, guard.ElapsedSeconds())
		}
	}

	res.Elapsed = guard.ElapsedSeconds()
	res.Counts = router.Counts()
	return res, nil
}

// collectGPGSVGroup greedily pulls the physically consecutive GPGSV
// continuation lines following first. The first non-matching line is pushed
// back so the main loop sees it next.
func collectGPGSVGroup(reader *logreader.Reader, first string) []string {
	group := []string{first}
	for {
		line, err := reader.NextLine()
		if err != nil {
			return group
		}
		if !strings.HasPrefix(line, oem719.MarkerGPGSV) {
			reader.PushBack(line)
			return group
		}
		group = append(group, line)
	}
}
