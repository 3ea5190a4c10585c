package source

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	"github.com/jsphweid/pitchscribe/constants"
	"github.com/jsphweid/pitchscribe/model"
	"github.com/jsphweid/pitchscribe/util"
)

var Extensions = []string{".json", ".gob"}

// Load reads an activation file, JSON or gob depending on the extension.
func Load(path string) (model.ActivationFile, error) {
	switch filepath.Ext(path) {
	case ".gob":
		return util.ReadBinary[model.ActivationFile](path)
	case ".json":
		dat, err := os.ReadFile(path)
		if err != nil {
			return model.ActivationFile{}, errors.Wrap(err, "reading activation file")
		}
		var f model.ActivationFile
		if err := json.Unmarshal(dat, &f); err != nil {
			return model.ActivationFile{}, errors.Wrapf(err, "parsing %v", path)
		}
		return f, nil
	}
	return model.ActivationFile{}, errors.Errorf("unsupported activation file %v", path)
}

// Save writes stitched activations to a gob file that Load reads back.
func Save(path string, acts model.Activations) error {
	if filepath.Ext(path) != ".gob" {
		return errors.Errorf("activations can only be saved as .gob, got %v", path)
	}
	f := model.ActivationFile{Activations: &acts}
	if err := util.CreateBinary(path, f); err != nil {
		return errors.Wrapf(err, "saving activations to %v", path)
	}
	return nil
}

// AudioSamples returns how many samples the WAV at path has once resampled
// to the model sample rate.
func AudioSamples(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "opening audio")
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, errors.Errorf("invalid wav file: %v", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return 0, errors.Wrap(err, "decoding audio")
	}
	return resampledLength(buf)
}

func resampledLength(buf *audio.IntBuffer) (int, error) {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate <= 0 {
		return 0, errors.New("wav has no usable format")
	}
	frames := len(buf.Data) / buf.Format.NumChannels
	return int(float64(frames) * constants.AudioSampleRate / float64(buf.Format.SampleRate)), nil
}
