package psd

// BlendRange is four threshold values for one end of a blend-if ramp.
type BlendRange struct {
	BlackLow  uint8
	BlackHigh uint8
	WhiteLow  uint8
	WhiteHigh uint8
}

// CSDR is a channel source/destination range pair.
type CSDR struct {
	Source      BlendRange
	Destination BlendRange
}

// BlendingRanges holds the composite gray ramp plus one CSDR per channel.
// Retained for completeness; the renderer does not apply blend-if ramps.
type BlendingRanges struct {
	Gray     CSDR
	Channels []CSDR
}

func readBlendRange(f *File) (BlendRange, error) {
	var r BlendRange
	buf := make([]byte, 4)
	if _, err := f.Read(buf); err != nil {
		return r, err
	}
	r.BlackLow, r.BlackHigh, r.WhiteLow, r.WhiteHigh = buf[0], buf[1], buf[2], buf[3]
	return r, nil
}

func readCSDR(f *File) (CSDR, error) {
	var c CSDR
	var err error
	if c.Source, err = readBlendRange(f); err != nil {
		return c, err
	}
	if c.Destination, err = readBlendRange(f); err != nil {
		return c, err
	}
	return c, nil
}

// parseBlendingRanges reads the gray CSDR and then channel CSDRs until the
// section boundary.
func parseBlendingRanges(f *File, s *Section) (*BlendingRanges, error) {
	br := &BlendingRanges{}

	var err error
	if br.Gray, err = readCSDR(f); err != nil {
		return nil, err
	}

	for {
		remaining, err := s.Remaining()
		if err != nil {
			return nil, err
		}
		if remaining < 8 {
			return br, nil
		}

		csdr, err := readCSDR(f)
		if err != nil {
			return nil, err
		}
		br.Channels = append(br.Channels, csdr)
	}
}
