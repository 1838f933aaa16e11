// Package wavfile reads and writes the mono 8-bit PCM WAV files that make
// up a generated dataset.
package wavfile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// BitDepth is the sample width of every generated file.
	BitDepth = 8
	// Channels is the channel count of every generated file.
	Channels = 1
	// formatPCM is the WAVE_FORMAT_PCM tag.
	formatPCM = 1

	headerSize = 44
)

// FileSystemError reports a failure to create, write or read a file.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error {
	return e.Err
}

// Write stores samples as a mono 8-bit PCM WAV file. Each byte on disk is
// the two's-complement byte of the signed sample.
//
// Data is written to path+".tmp" and renamed into place after the encoder
// and file are closed, so path never names a partially written file.
// Returns the number of bytes written.
func Write(path string, samples []int8, sampleRate int) (n int64, err error) {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, &FileSystemError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(uint8(s))
	}

	enc := wav.NewEncoder(f, sampleRate, BitDepth, Channels, formatPCM)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: Channels, SampleRate: sampleRate},
		SourceBitDepth: BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return 0, &FileSystemError{Op: "write", Path: path, Err: err}
	}
	if err := enc.Close(); err != nil {
		return 0, &FileSystemError{Op: "write", Path: path, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		return 0, &FileSystemError{Op: "stat", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return 0, &FileSystemError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, &FileSystemError{Op: "rename", Path: path, Err: err}
	}
	return info.Size(), nil
}

// Info describes a decoded WAV file.
type Info struct {
	Channels   int
	BitDepth   int
	SampleRate int
	Format     int
	Frames     int
}

// Duration returns the playing time.
func (i Info) Duration() time.Duration {
	if i.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(i.Frames) / float64(i.SampleRate) * float64(time.Second))
}

// ErrInvalidFile is returned when a file is not a decodable WAV container.
var ErrInvalidFile = errors.New("not a valid WAV file")

// Inspect decodes a WAV file's header and counts its frames.
func Inspect(path string) (Info, error) {
	info, _, err := decode(path)
	return info, err
}

// ReadSamples decodes an 8-bit file back to signed samples.
func ReadSamples(path string) ([]int8, error) {
	info, data, err := decode(path)
	if err != nil {
		return nil, err
	}
	if info.BitDepth != BitDepth {
		return nil, fmt.Errorf("%s: %w: %d-bit samples", path, ErrInvalidFile, info.BitDepth)
	}

	samples := make([]int8, len(data))
	for i, v := range data {
		samples[i] = int8(uint8(v))
	}
	return samples, nil
}

func decode(path string) (Info, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, nil, &FileSystemError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, nil, &FileSystemError{Op: "stat", Path: path, Err: err}
	}
	if st.Size() < headerSize {
		return Info{}, nil, fmt.Errorf("%s: %w: %d bytes", path, ErrInvalidFile, st.Size())
	}

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return Info{}, nil, fmt.Errorf("%s: %w", path, ErrInvalidFile)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return Info{}, nil, fmt.Errorf("%s: decode PCM: %w", path, err)
	}

	info := Info{
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		SampleRate: int(d.SampleRate),
		Format:     int(d.WavAudioFormat),
	}
	if info.Channels > 0 {
		info.Frames = len(buf.Data) / info.Channels
	}
	return info, buf.Data, nil
}
