package model

// JSON shapes for the analyze endpoint.

type SonorityDTO struct {
	Type     string  `json:"type"`
	Show     string  `json:"show"`
	Duration float64 `json:"duration"`
	Channel  uint8   `json:"channel"`
	Keys     []uint8 `json:"keys,omitempty"`
	Value    uint16  `json:"value,omitempty"`
}

type TrackDTO struct {
	Key        string        `json:"key"`
	Name       string        `json:"name"`
	Kind       string        `json:"kind"`
	Program    uint8         `json:"program"`
	Sonorities []SonorityDTO `json:"sonorities"`
}

type AnalyzeResponse struct {
	TPQN   uint32     `json:"ticks_per_quarter"`
	BPM    float64    `json:"bpm"`
	Tracks []TrackDTO `json:"tracks"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

// ToDTO flattens a sonority for JSON consumers.
func ToDTO(s Sonority) SonorityDTO {
	dto := SonorityDTO{
		Show:     s.Show(),
		Duration: s.Duration(),
		Channel:  s.Channel(),
	}
	for _, n := range s.Notes() {
		dto.Keys = append(dto.Keys, n.Key)
	}
	switch v := s.(type) {
	case Note:
		dto.Type = "note"
	case Chord:
		dto.Type = "chord"
	case Rest:
		dto.Type = "rest"
	case Arpeggio:
		dto.Type = "arpeggio"
	case Controller:
		dto.Type = "controller"
		dto.Value = uint16(v.Value)
		dto.Keys = []uint8{v.CC}
	case PitchBend:
		dto.Type = "pitch_bend"
		dto.Value = v.Value
	}
	return dto
}
