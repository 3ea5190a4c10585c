package constants

import "os"

// Inference
const AudioSampleRate = 22050
const FFTHop = 256
const AnnotationsFPS = AudioSampleRate / FFTHop
const AudioWindowLength = 2
const AudioNSamples = AudioSampleRate*AudioWindowLength - FFTHop
const AnnotNFrames = AnnotationsFPS * AudioWindowLength
const NOverlappingFrames = 30

// Annotations
const AnnotationsBaseFrequency = 27.5
const AnnotationsNSemitones = 88
const ContoursBinsPerSemitone = 3
const NFreqBinsNotes = AnnotationsNSemitones
const NFreqBinsContours = AnnotationsNSemitones * ContoursBinsPerSemitone
const MaxFreqIdx = AnnotationsNSemitones - 1

// NOTE: 0.0018 is an empirical calibration, not derivable from the rates above
const WindowOffset = float64(FFTHop)/AudioSampleRate*(AnnotNFrames-float64(AudioNSamples)/FFTHop) + 0.0018

// MIDI Conversion
const MidiOffset = 21
const DefaultTicksPerBeat = 480
const DefaultBPM = 120.0

func GetOutputDir() string {
	path := os.Getenv("OUTPUT_DIR")
	if path != "" {
		return path
	}
	return "./out"
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

// empty means the transcription store is disabled
func GetDynamoEndpoint() string {
	return os.Getenv("DYNAMO_ENDPOINT")
}

func GetDynamoTable() string {
	table := os.Getenv("DYNAMO_TABLE")
	if table != "" {
		return table
	}
	return "pitchscribe-transcriptions"
}

func GetDynamoRegion() string {
	region := os.Getenv("DYNAMO_REGION")
	if region != "" {
		return region
	}
	return "localhost"
}

func GetLogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		return level
	}
	return "info"
}
