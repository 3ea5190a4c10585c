package source

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/jsphweid/pitchscribe/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFile() model.ActivationFile {
	return model.ActivationFile{
		AudioSamples: 44100,
		Windows: &model.Windows{
			Frames: []model.Tensor3{{Shape: []int{1, 2, 1}, Data: []float64{0.1, 0.2}}},
		},
	}
}

func TestLoadJSONAndGob(t *testing.T) {
	dir := t.TempDir()
	in := sampleFile()

	dat, err := json.Marshal(in)
	require.NoError(t, err)
	jsonPath := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(jsonPath, dat, 0644))
	gobPath := filepath.Join(dir, "a.gob")
	require.NoError(t, util.CreateBinary(gobPath, in))

	fromJSON, err := Load(jsonPath)
	require.NoError(t, err)
	fromGob, err := Load(gobPath)
	require.NoError(t, err)

	assert.Equal(t, in, fromJSON)
	assert.Equal(t, in.Windows.Frames, fromGob.Windows.Frames)
	assert.Equal(t, 44100, fromGob.AudioSamples)

	_, err = Load(filepath.Join(dir, "a.txt"))
	assert.Error(t, err)
}

func TestSaveLoadsBack(t *testing.T) {
	dir := t.TempDir()
	acts := model.Activations{
		Contours: model.NewMatrix(2, 3),
		Frames:   model.NewMatrix(2, 1),
		Onsets:   model.NewMatrix(2, 1),
	}
	acts.Frames.Set(1, 0, 0.75)

	path := filepath.Join(dir, "acts.gob")
	require.NoError(t, Save(path, acts))
	f, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, f.Activations)
	assert.Nil(t, f.Windows)
	assert.Equal(t, acts, *f.Activations)

	assert.Error(t, Save(filepath.Join(dir, "acts.json"), acts))
}

func TestAudioSamplesResamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, 44100, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: 44100},
		Data:   make([]int, 2*44100),
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	n, err := AudioSamples(path)
	require.NoError(t, err)
	assert.Equal(t, 22050, n)
}
