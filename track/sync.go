package track

import (
	"fmt"
	"sync"

	"github.com/bwanab/music-build/event"
	"github.com/bwanab/music-build/model"
)

// ErrTrackIndex reports a caller asking for a track a file doesn't
// have. Unlike malformed note data this is a programming error, so it
// is surfaced instead of degraded.
var ErrTrackIndex = fmt.Errorf("track: index out of range")

// Single returns track i, failing fast on a bad index.
func Single(tracks [][]model.RawEvent, i int) ([]model.RawEvent, error) {
	if i < 0 || i >= len(tracks) {
		return nil, fmt.Errorf("%w: %d of %d", ErrTrackIndex, i, len(tracks))
	}
	return tracks[i], nil
}

// ComputeTrackOffsets finds each track's lag behind the earliest track
// in the file: the absolute tick of its first note-on, minus the global
// minimum. The earliest-starting track gets offset 0. Tracks without
// notes count as starting at 0.
func ComputeTrackOffsets(tracks [][]model.RawEvent) map[int]int64 {
	firsts := make(map[int]int64, len(tracks))
	var min int64
	for i, events := range tracks {
		first := firstNoteOnTick(events)
		firsts[i] = first
		if i == 0 || first < min {
			min = first
		}
	}
	for i := range firsts {
		firsts[i] -= min
	}
	return firsts
}

func firstNoteOnTick(events []model.RawEvent) int64 {
	for _, te := range event.AddAbsoluteTimes(events) {
		if te.Kind == model.KindNoteOn && te.Velocity > 0 {
			return te.AbsTicks
		}
	}
	return 0
}

// ProcessAll converts every track of a multi-track file onto one global
// timeline. Tracks are independent until the final merge, so each runs
// on its own goroutine. A key collision between tracks means the file
// maps one channel from two tracks and is reported as an error.
//
// SMF tracks all count ticks from the same zero, so each channel's
// delay already places it globally and no extra offset is added here.
// ComputeTrackOffsets is for callers whose track lists carry
// independent clocks; its result goes in via Options.OffsetTicks.
func ProcessAll(tracks [][]model.RawEvent, tpqn uint32, opts Options) (map[model.TrackKey]*model.STrack, error) {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		merged = make(map[model.TrackKey]*model.STrack)
		dup    *model.TrackKey
	)
	for i, events := range tracks {
		wg.Add(1)
		go func(i int, events []model.RawEvent) {
			defer wg.Done()
			res := Process(events, tpqn, opts)

			mu.Lock()
			defer mu.Unlock()
			for k, v := range res {
				if _, ok := merged[k]; ok && dup == nil {
					k := k
					dup = &k
				}
				merged[k] = v
			}
		}(i, events)
	}
	wg.Wait()

	if dup != nil {
		return nil, fmt.Errorf("track: key %s produced by more than one track", dup)
	}
	return merged, nil
}
