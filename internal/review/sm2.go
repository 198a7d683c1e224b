// Package review implements SM-2 spaced-repetition scheduling.
package review

import (
	"fmt"
	"math"
	"time"
)

const (
	// DefaultEase is the ease factor of a newly queued item.
	DefaultEase = 2.5
	// MinEase is the floor the ease factor never drops below.
	MinEase = 1.3
	// DefaultInterval is the interval of a newly queued item, in days.
	DefaultInterval = 1
	// MaxInterval caps the interval, in days, so the next review date stays
	// within four-digit years.
	MaxInterval = 36500

	// MinQuality is the lowest grade, a complete blackout.
	MinQuality = 0
	// MaxQuality is the highest grade, perfect recall.
	MaxQuality = 5
	// PassQuality is the lowest grade counted as a successful recall.
	PassQuality = 3
)

// State is the scheduling state of a single item.
type State struct {
	EaseFactor     float64
	IntervalDays   int64
	Repetitions    int64
	NextReviewDate time.Time
	LastReviewDate *time.Time
}

// NewState returns the state of an item queued on today. Its first review
// falls on the following day.
func NewState(today time.Time) State {
	return State{
		EaseFactor:     DefaultEase,
		IntervalDays:   DefaultInterval,
		Repetitions:    0,
		NextReviewDate: Day(today).AddDate(0, 0, DefaultInterval),
	}
}

// ValidQuality reports whether q is a grade on the 0-5 scale.
func ValidQuality(q int) bool {
	return q >= MinQuality && q <= MaxQuality
}

// Schedule applies one graded review to s and returns the new state.
func Schedule(s State, quality int, today time.Time) (State, error) {
	if !ValidQuality(quality) {
		return State{}, fmt.Errorf("quality must be between %d and %d, got %d", MinQuality, MaxQuality, quality)
	}

	next := s
	if quality < PassQuality {
		next.Repetitions = 0
		next.IntervalDays = 1
	} else {
		switch next.Repetitions {
		case 0:
			next.IntervalDays = 1
		case 1:
			next.IntervalDays = 6
		default:
			next.IntervalDays = int64(math.Min(math.Round(float64(s.IntervalDays)*s.EaseFactor), MaxInterval))
		}
		next.Repetitions++
	}

	miss := float64(MaxQuality - quality)
	next.EaseFactor = math.Max(MinEase, s.EaseFactor+0.1-miss*(0.08+miss*0.02))

	day := Day(today)
	next.LastReviewDate = &day
	next.NextReviewDate = day.AddDate(0, 0, int(next.IntervalDays))
	return next, nil
}

// Day truncates t to local midnight.
func Day(t time.Time) time.Time {
	local := t.In(time.Local)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}
