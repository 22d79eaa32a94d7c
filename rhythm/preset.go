package rhythm

// Preset is the plain record a TempoState is saved as.
type Preset struct {
	BPM           int     `json:"bpm"`
	TimeSignature string  `json:"timeSignature"`
	Subdivision   string  `json:"subdivision"`
	Sound         string  `json:"sound"`
	Volume        float64 `json:"volume"`
	AccentPattern []bool  `json:"accentPattern"`
}

// Preset captures the current state.
func (t *TempoState) Preset() Preset {
	return Preset{
		BPM:           t.bpm,
		TimeSignature: t.signature.String(),
		Subdivision:   t.subdivision.String(),
		Sound:         string(t.sound),
		Volume:        t.volume,
		AccentPattern: t.AccentPattern(),
	}
}

// ApplyPreset restores a saved record. Broken fields are recovered rather than rejected: a malformed time signature
// becomes 4/4, an unknown subdivision becomes quarter and an unknown sound becomes classic. The saved accent pattern
// is only kept when it fits the restored measure, otherwise it is regenerated from the accent mode.
func (t *TempoState) ApplyPreset(p Preset) {
	t.SetTempo(p.BPM)

	ts, err := ParseTimeSignature(p.TimeSignature)
	if err != nil {
		ts = DefaultTimeSignature
	}
	t.SetSignature(ts)

	sub, _ := ParseSubdivision(p.Subdivision)
	t.SetSubdivision(sub)
	t.SetSound(Sound(p.Sound))
	t.SetVolume(p.Volume)
	t.SetAccentPattern(p.AccentPattern)
}
