package notes

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ReferencePitch is the tuning reference (A4) in Hz.
const ReferencePitch = 440.0

var sharpNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var letterSemitones = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// MIDINumber parses a scientific pitch name such as "A4", "F#3" or "Bb2".
func MIDINumber(name string) (int, error) {
	s := strings.TrimSpace(name)
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: bad pitch name %q", ErrConfiguration, name)
	}

	semitone, ok := letterSemitones[strings.ToUpper(s[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("%w: bad pitch letter in %q", ErrConfiguration, name)
	}
	rest := s[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		semitone++
		rest = rest[1:]
	case strings.HasPrefix(rest, "b"):
		semitone--
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: bad octave in %q", ErrConfiguration, name)
	}
	return (octave+1)*12 + semitone, nil
}

// NameForMIDI returns the sharp-spelled pitch name for a MIDI note number.
func NameForMIDI(n int) string {
	octave := n/12 - 1
	return sharpNames[((n%12)+12)%12] + strconv.Itoa(octave)
}

// FrequencyForMIDI returns the equal-tempered frequency of a MIDI note,
// rounded to hundredths of a hertz like printed note charts.
func FrequencyForMIDI(n int) float64 {
	f := ReferencePitch * math.Pow(2, float64(n-69)/12)
	return math.Round(f*100) / 100
}

// Frequency returns the equal-tempered frequency of a pitch name.
func Frequency(name string) (float64, error) {
	n, err := MIDINumber(name)
	if err != nil {
		return 0, err
	}
	return FrequencyForMIDI(n), nil
}

// Range builds a chromatic table from low to high inclusive.
func Range(low, high string) (*Table, error) {
	lo, err := MIDINumber(low)
	if err != nil {
		return nil, err
	}
	hi, err := MIDINumber(high)
	if err != nil {
		return nil, err
	}
	if hi < lo {
		return nil, fmt.Errorf("%w: range %s..%s is empty", ErrConfiguration, low, high)
	}

	list := make([]Note, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		list = append(list, Note{Name: NameForMIDI(n), Frequency: FrequencyForMIDI(n)})
	}
	return NewTable(list...)
}

// FromNames builds a table of equal-tempered notes in the given order.
func FromNames(names ...string) (*Table, error) {
	list := make([]Note, 0, len(names))
	for _, name := range names {
		f, err := Frequency(name)
		if err != nil {
			return nil, err
		}
		list = append(list, Note{Name: name, Frequency: f})
	}
	return NewTable(list...)
}

var presets = map[string]func() (*Table, error){
	// Twelve frets on six strings: 37 classes.
	"guitar": func() (*Table, error) { return Range("E2", "E5") },
	"strings": func() (*Table, error) {
		return FromNames("E2", "A2", "D3", "G3", "B3", "E4")
	},
	"chromatic": func() (*Table, error) { return Range("C4", "B4") },
}

// Preset returns a built-in table by name.
func Preset(name string) (*Table, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q", ErrConfiguration, name)
	}
	return build()
}

// PresetNames lists the built-in tables.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
