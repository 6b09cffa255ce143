package domain

import "fmt"

// 20 MHz channel/frequency conversion for the 2.4, 5 and 6 GHz bands.
// Channel numbers are band-relative, so frequency is the canonical form the
// rest of the system works with.

type freqRange struct {
	low  int
	high int
}

// Usable 20 MHz center frequencies per band, in MHz.
var validFreqRanges = []freqRange{
	{2412, 2484}, // 2.4 GHz
	{5180, 5905}, // 5 GHz
	{5955, 7115}, // 6 GHz
}

// ValidFrequency reports whether freq (MHz) falls inside a supported band.
func ValidFrequency(freq int) bool {
	for _, r := range validFreqRanges {
		if freq >= r.low && freq <= r.high {
			return true
		}
	}
	return false
}

// ValidChannel reports whether ch is a usable 2.4 or 5 GHz channel number.
// 6 GHz channel numbers overlap with the other bands, so 6 GHz operation is
// selected by frequency only.
func ValidChannel(ch int) bool {
	if ch >= 1 && ch <= 14 {
		return true
	}
	if ch >= 36 && ch <= 177 {
		return ValidFrequency(5000 + ch*5)
	}
	return false
}

// FrequencyForChannel maps a 2.4/5 GHz channel number to its 20 MHz center
// frequency in MHz.
func FrequencyForChannel(ch int) (int, error) {
	switch {
	case ch == 14:
		return 2484, nil
	case ch >= 1 && ch < 14:
		return 2407 + ch*5, nil
	case ch > 14:
		freq := 5000 + ch*5
		if !ValidFrequency(freq) {
			return 0, fmt.Errorf("channel %d is outside the supported 5 GHz range", ch)
		}
		return freq, nil
	}
	return 0, fmt.Errorf("invalid channel %d", ch)
}

// ChannelForFrequency maps a 20 MHz center frequency in MHz to its
// band-relative channel number.
func ChannelForFrequency(freq int) (int, error) {
	if !ValidFrequency(freq) {
		return 0, fmt.Errorf("frequency %d MHz is outside the supported bands", freq)
	}
	switch {
	case freq == 2484:
		return 14, nil
	case freq < 2484:
		if (freq-2407)%5 != 0 {
			return 0, fmt.Errorf("frequency %d MHz is not a 2.4 GHz channel center", freq)
		}
		return (freq - 2407) / 5, nil
	case freq <= 5905:
		if (freq-5000)%5 != 0 {
			return 0, fmt.Errorf("frequency %d MHz is not a 5 GHz channel center", freq)
		}
		return (freq - 5000) / 5, nil
	default:
		// 6 GHz numbering starts at channel 1 on 5955 MHz.
		if (freq-5950)%5 != 0 {
			return 0, fmt.Errorf("frequency %d MHz is not a 6 GHz channel center", freq)
		}
		return (freq - 5950) / 5, nil
	}
}
