package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidChannel(t *testing.T) {
	valid := []int{1, 6, 11, 13, 14, 36, 40, 100, 165, 177}
	for _, ch := range valid {
		assert.True(t, ValidChannel(ch), "channel %d should be valid", ch)
	}

	invalid := []int{0, -1, 15, 35, 200}
	for _, ch := range invalid {
		assert.False(t, ValidChannel(ch), "channel %d should be invalid", ch)
	}
}

func TestValidFrequency(t *testing.T) {
	valid := []int{2412, 2437, 2484, 5180, 5905, 5955, 7115}
	for _, f := range valid {
		assert.True(t, ValidFrequency(f), "%d MHz should be valid", f)
	}

	invalid := []int{0, 2400, 2500, 5000, 5950, 7120}
	for _, f := range invalid {
		assert.False(t, ValidFrequency(f), "%d MHz should be invalid", f)
	}
}

func TestFrequencyForChannel(t *testing.T) {
	cases := []struct {
		channel int
		want    int
	}{
		{1, 2412},
		{6, 2437},
		{13, 2472},
		{14, 2484}, // Japan-only special case, not 2477
		{36, 5180},
		{149, 5745},
		{177, 5885},
	}
	for _, tc := range cases {
		got, err := FrequencyForChannel(tc.channel)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "channel %d", tc.channel)
	}

	for _, ch := range []int{0, -3, 15, 300} {
		_, err := FrequencyForChannel(ch)
		assert.Error(t, err, "channel %d must not map", ch)
	}
}

func TestChannelForFrequency(t *testing.T) {
	cases := []struct {
		freq int
		want int
	}{
		{2412, 1},
		{2437, 6},
		{2484, 14},
		{5180, 36},
		{5745, 149},
		{5955, 1},  // 6 GHz channel numbering restarts
		{6135, 37}, // (6135-5950)/5
	}
	for _, tc := range cases {
		got, err := ChannelForFrequency(tc.freq)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%d MHz", tc.freq)
	}

	for _, f := range []int{2500, 5000, 2413, 5181} {
		_, err := ChannelForFrequency(f)
		assert.Error(t, err, "%d MHz must not map", f)
	}
}

func TestChannelFrequencyRoundTrip(t *testing.T) {
	for _, ch := range []int{1, 6, 11, 14, 36, 100, 165} {
		freq, err := FrequencyForChannel(ch)
		require.NoError(t, err)
		back, err := ChannelForFrequency(freq)
		require.NoError(t, err)
		assert.Equal(t, ch, back)
	}
}
