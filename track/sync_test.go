package track

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bwanab/music-build/model"
)

func trackWithFirstNoteAt(delta uint32) []model.RawEvent {
	return []model.RawEvent{
		{Kind: model.KindNoteOn, Delta: delta, Channel: 0, Note: 60, Velocity: 80},
		{Kind: model.KindNoteOff, Delta: 240, Channel: 0, Note: 60},
	}
}

func TestComputeTrackOffsets(t *testing.T) {
	tracks := [][]model.RawEvent{
		trackWithFirstNoteAt(0),
		trackWithFirstNoteAt(128),
	}
	offsets := ComputeTrackOffsets(tracks)

	assert := assert.New(t)
	assert.Equal(int64(0), offsets[0])
	assert.Equal(int64(128), offsets[1])
}

func TestComputeTrackOffsetsRebasesToEarliest(t *testing.T) {
	tracks := [][]model.RawEvent{
		trackWithFirstNoteAt(100),
		trackWithFirstNoteAt(40),
		trackWithFirstNoteAt(160),
	}
	offsets := ComputeTrackOffsets(tracks)

	assert := assert.New(t)
	assert.Equal(int64(60), offsets[0])
	assert.Equal(int64(0), offsets[1])
	assert.Equal(int64(120), offsets[2])
}

func TestTrackWithoutNotesCountsAsStartingAtZero(t *testing.T) {
	tracks := [][]model.RawEvent{
		{{Kind: model.KindController, Delta: 500, Channel: 0, CC: 7, CCValue: 90}},
		trackWithFirstNoteAt(128),
	}
	offsets := ComputeTrackOffsets(tracks)

	assert := assert.New(t)
	assert.Equal(int64(0), offsets[0])
	assert.Equal(int64(128), offsets[1])
}

func TestSingleFailsFastOnBadIndex(t *testing.T) {
	tracks := [][]model.RawEvent{trackWithFirstNoteAt(0)}

	assert := assert.New(t)
	_, err := Single(tracks, 1)
	assert.ErrorIs(err, ErrTrackIndex)
	_, err = Single(tracks, -1)
	assert.ErrorIs(err, ErrTrackIndex)

	got, err := Single(tracks, 0)
	assert.NoError(err)
	assert.Len(got, 2)
}

func TestProcessAllMergesDisjointChannels(t *testing.T) {
	t0 := []model.RawEvent{
		{Kind: model.KindNoteOn, Delta: 0, Channel: 0, Note: 60, Velocity: 80},
		{Kind: model.KindNoteOff, Delta: 240, Channel: 0, Note: 60},
	}
	t1 := []model.RawEvent{
		{Kind: model.KindNoteOn, Delta: 128, Channel: 1, Note: 48, Velocity: 80},
		{Kind: model.KindNoteOff, Delta: 240, Channel: 1, Note: 48},
	}
	res, err := ProcessAll([][]model.RawEvent{t0, t1}, 960, Options{})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(res, 2)

	// the late track's lag shows up as its channel's leading rest
	late := res[model.ChannelKey(1)]
	rest, ok := late.Sonorities[0].(model.Rest)
	assert.True(ok)
	assert.InDelta(float64(128)/960, rest.Dur, 1e-9)
}

func TestProcessAllReportsChannelCollision(t *testing.T) {
	tr := trackWithFirstNoteAt(0)
	_, err := ProcessAll([][]model.RawEvent{tr, tr}, 960, Options{})
	assert.Error(t, err)
}
