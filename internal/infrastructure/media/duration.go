package media

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// ProbeDuration reads the duration of an audio file in seconds from its
// metadata. Supported formats: WAV (header walk) and MP3 (frame decode).
// Callers are expected to fall back to a default on error.
func ProbeDuration(path string) (float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wavDuration(path)
	case ".mp3":
		return mp3Duration(path)
	default:
		return 0, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
}

// wavDuration walks the RIFF chunk list for the fmt and data chunks and
// computes data length / byte rate.
func wavDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var header [12]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return 0, fmt.Errorf("read riff header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return 0, fmt.Errorf("not a wav file")
	}

	var byteRate uint32
	var dataSize uint32
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(f, chunk[:]); err != nil {
			break
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			var fmtChunk [16]byte
			if _, err := io.ReadFull(f, fmtChunk[:]); err != nil {
				return 0, fmt.Errorf("read fmt chunk: %w", err)
			}
			byteRate = binary.LittleEndian.Uint32(fmtChunk[8:12])
			if size > 16 {
				if _, err := f.Seek(int64(size-16), io.SeekCurrent); err != nil {
					return 0, err
				}
			}
		case "data":
			dataSize = size
		default:
			if _, err := f.Seek(int64(size), io.SeekCurrent); err != nil {
				return 0, err
			}
		}

		if byteRate != 0 && dataSize != 0 {
			break
		}
	}

	if byteRate == 0 {
		return 0, fmt.Errorf("wav fmt chunk missing or zero byte rate")
	}
	if dataSize == 0 {
		return 0, fmt.Errorf("wav data chunk missing")
	}
	return float64(dataSize) / float64(byteRate), nil
}

// mp3Duration decodes the stream headers and derives duration from the
// decoded sample count. go-mp3 emits 16-bit stereo, 4 bytes per sample.
func mp3Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, fmt.Errorf("decode mp3: %w", err)
	}
	if dec.SampleRate() == 0 {
		return 0, fmt.Errorf("mp3 sample rate is zero")
	}
	samples := dec.Length() / 4
	return float64(samples) / float64(dec.SampleRate()), nil
}
