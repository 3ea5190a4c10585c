package file

import (
	"path/filepath"
	"strings"

	"github.com/jsphweid/pitchscribe/model"
)

func CreateFileNumMap(paths []string) model.FileNumToPath {
	res := make(model.FileNumToPath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}

// MidiPath is where the transcription of an activation file goes in outDir.
func MidiPath(outDir, inputPath string) string {
	base := filepath.Base(inputPath)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".mid")
}
