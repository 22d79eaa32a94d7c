package config

import "github.com/robmorgan/metronome/rhythm"

// FactoryPresets returns the presets that ship with the program. They can be shadowed but never deleted.
func FactoryPresets() map[string]rhythm.Preset {
	out := map[string]rhythm.Preset{
		"waltz": {
			BPM:           90,
			TimeSignature: "3/4",
			Subdivision:   rhythm.Quarter.String(),
			Sound:         string(rhythm.SoundWood),
			Volume:        0.7,
			AccentPattern: []bool{true, false, false},
		},
		"swing": {
			BPM:           132,
			TimeSignature: "4/4",
			Subdivision:   rhythm.Triplet.String(),
			Sound:         string(rhythm.SoundStick),
			Volume:        0.7,
			// backbeat on 2 and 4
			AccentPattern: []bool{false, true, false, true},
		},
		"six-eight": {
			BPM:           72,
			TimeSignature: "6/8",
			Subdivision:   rhythm.Quarter.String(),
			Sound:         string(rhythm.SoundClave),
			Volume:        0.7,
			AccentPattern: []bool{true, false, false, true, false, false},
		},
		"seven-eight": {
			BPM:           160,
			TimeSignature: "7/8",
			Subdivision:   rhythm.Quarter.String(),
			Sound:         string(rhythm.SoundRimshot),
			Volume:        0.7,
			// 2+2+3
			AccentPattern: []bool{true, false, true, false, true, false, false},
		},
		"drum-and-bass": {
			BPM:           174,
			TimeSignature: "4/4",
			Subdivision:   rhythm.Sixteenth.String(),
			Sound:         string(rhythm.SoundHihat),
			Volume:        0.6,
			AccentPattern: []bool{true, false, false, false},
		},
		"slow-practice": {
			BPM:           60,
			TimeSignature: "4/4",
			Subdivision:   rhythm.Eighth.String(),
			Sound:         string(rhythm.SoundClassic),
			Volume:        0.7,
			AccentPattern: []bool{true, false, false, false},
		},
	}

	return out
}
