package transcribe

import (
	"context"
	"testing"

	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/midi"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nFrames = 60

func singleNoteActivations() model.Activations {
	acts := model.Activations{
		Contours: model.NewMatrix(nFrames, constants.NFreqBinsContours),
		Frames:   model.NewMatrix(nFrames, constants.NFreqBinsNotes),
		Onsets:   model.NewMatrix(nFrames, constants.NFreqBinsNotes),
	}
	acts.Onsets.Set(10, 39, 0.9)
	for t := 10; t < 30; t++ {
		acts.Frames.Set(t, 39, 0.8)
		acts.Contours.Set(t, 118, 0.7)
	}
	return acts
}

func toWindow(m model.Matrix) model.Tensor3 {
	return model.Tensor3{Shape: []int{1, m.Rows, m.Cols}, Data: m.Data}
}

func TestFromActivations(t *testing.T) {
	res, err := FromActivations(context.Background(), singleNoteActivations(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Notes, 1)

	assert := assert.New(t)
	n := res.Notes[0]
	assert.Equal(60, n.Pitch)
	assert.InDelta(10*256.0/22050, n.StartSeconds, 1e-9)
	assert.Len(n.PitchBends, 20)
	for _, b := range n.PitchBends {
		assert.Equal(1, b)
	}

	events, err := midi.ReadEvents(res.MIDI)
	require.NoError(t, err)
	assert.Equal(midi.Tempo, events[0].Kind)
	assert.Equal(midi.NoteOn, events[1].Kind)
	assert.Equal(uint8(60), events[1].Key)
}

func TestFromActivationsWithoutBends(t *testing.T) {
	opts := DefaultOptions()
	opts.PitchBends = false
	res, err := FromActivations(context.Background(), singleNoteActivations(), opts)
	require.NoError(t, err)
	require.Len(t, res.Notes, 1)
	assert.Nil(t, res.Notes[0].PitchBends)

	events, err := midi.ReadEvents(res.MIDI)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestFromWindowsMatchesStitchedInput(t *testing.T) {
	acts := singleNoteActivations()
	w := model.Windows{
		Contours: []model.Tensor3{toWindow(acts.Contours)},
		Frames:   []model.Tensor3{toWindow(acts.Frames)},
		Onsets:   []model.Tensor3{toWindow(acts.Onsets)},
	}
	opts := DefaultOptions()
	opts.OverlapFrames = 0

	fromWindows, err := FromWindows(context.Background(), w, constants.AudioSampleRate, opts)
	require.NoError(t, err)
	direct, err := FromActivations(context.Background(), acts, opts)
	require.NoError(t, err)
	assert.Equal(t, direct, fromWindows)

	viaFile, err := FromFile(context.Background(), model.ActivationFile{AudioSamples: constants.AudioSampleRate, Windows: &w}, opts)
	require.NoError(t, err)
	assert.Equal(t, direct, viaFile)
}

func TestFromFileNeedsInput(t *testing.T) {
	_, err := FromFile(context.Background(), model.ActivationFile{}, DefaultOptions())
	var shapeErr *model.ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestCancelledContextReturnsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := FromActivations(ctx, singleNoteActivations(), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.MIDI)
	assert.Empty(t, res.Notes)
}

func TestConfigErrorsSurface(t *testing.T) {
	opts := DefaultOptions()
	opts.MIDI.BPM = 0
	res, err := FromActivations(context.Background(), singleNoteActivations(), opts)
	var configErr *model.ConfigError
	assert.ErrorAs(t, err, &configErr)
	assert.Nil(t, res.MIDI)
}

func TestApplyRequestOptions(t *testing.T) {
	onset := 0.7
	bends := false
	bpm := 90.0
	opts := DefaultOptions()
	opts.Apply(&model.RequestOptions{OnsetThresh: &onset, PitchBends: &bends, BPM: &bpm})

	assert := assert.New(t)
	assert.Equal(0.7, opts.Decode.OnsetThresh)
	assert.False(opts.PitchBends)
	assert.Equal(90.0, opts.MIDI.BPM)
	assert.Equal(11, opts.Decode.MinNoteLen)

	opts.Apply(nil)
	assert.Equal(0.7, opts.Decode.OnsetThresh)
}
