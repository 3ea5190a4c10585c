package bend

import (
	"testing"

	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContourBin(t *testing.T) {
	assert.InDelta(t, 0, ContourBin(21), 1e-9)
	assert.InDelta(t, 117, ContourBin(60), 1e-9)
}

func TestAddPitchBendsTracksContourPeak(t *testing.T) {
	contours := model.NewMatrix(30, constants.NFreqBinsContours)
	for row := 0; row < 5; row++ {
		contours.Set(row, 119, 0.9)
	}
	for row := 5; row < 10; row++ {
		contours.Set(row, 116, 0.9)
	}
	notes := []model.NoteEventFrame{{StartFrame: 0, DurationFrames: 10, Pitch: 60, Amplitude: 0.5}}

	res, err := AddPitchBends(contours, notes, DefaultBinsTolerance)
	require.NoError(t, err)
	require.Len(t, res, 1)

	assert := assert.New(t)
	assert.Equal([]int{2, 2, 2, 2, 2, -1, -1, -1, -1, -1}, res[0].PitchBends)
	assert.Nil(notes[0].PitchBends, "input notes are left alone")
	assert.Equal(60, res[0].Pitch)
}

func TestAddPitchBendsPrefersBinsNearPitch(t *testing.T) {
	contours := model.NewMatrix(4, constants.NFreqBinsContours)
	for row := 0; row < 4; row++ {
		contours.Set(row, 117+10, 0.8)
		contours.Set(row, 117+1, 0.8)
	}
	notes := []model.NoteEventFrame{{StartFrame: 1, DurationFrames: 3, Pitch: 60}}

	res, err := AddPitchBends(contours, notes, DefaultBinsTolerance)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, res[0].PitchBends)
}

func TestAddPitchBendsClipsAtEdges(t *testing.T) {
	contours := model.NewMatrix(3, constants.NFreqBinsContours)
	for row := 0; row < 3; row++ {
		contours.Set(row, 3, 1)
		contours.Set(row, constants.NFreqBinsContours-2, 1)
	}
	notes := []model.NoteEventFrame{
		{StartFrame: 0, DurationFrames: 3, Pitch: 21},
		{StartFrame: 0, DurationFrames: 2, Pitch: 108},
	}

	res, err := AddPitchBends(contours, notes, DefaultBinsTolerance)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal([]int{3, 3, 3}, res[0].PitchBends)
	// pitch 108 sits on bin 261
	assert.Equal([]int{1, 1}, res[1].PitchBends)
}

func TestAddPitchBendsLengthMatchesDuration(t *testing.T) {
	contours := model.NewMatrix(20, constants.NFreqBinsContours)
	notes := []model.NoteEventFrame{
		{StartFrame: 2, DurationFrames: 7, Pitch: 40},
		{StartFrame: 10, DurationFrames: 0, Pitch: 70},
	}
	res, err := AddPitchBends(contours, notes, 10)
	require.NoError(t, err)
	assert.Len(t, res[0].PitchBends, 7)
	assert.Len(t, res[1].PitchBends, 0)
	assert.NotNil(t, res[1].PitchBends)
}

func TestAddPitchBendsRejectsBadInput(t *testing.T) {
	contours := model.NewMatrix(5, constants.NFreqBinsContours)
	notes := []model.NoteEventFrame{{StartFrame: 3, DurationFrames: 5, Pitch: 60}}

	_, err := AddPitchBends(contours, notes, DefaultBinsTolerance)
	var shapeErr *model.ShapeError
	assert.ErrorAs(t, err, &shapeErr)

	_, err = AddPitchBends(contours, nil, -1)
	var configErr *model.ConfigError
	assert.ErrorAs(t, err, &configErr)
}
