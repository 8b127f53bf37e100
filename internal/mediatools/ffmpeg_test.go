package mediatools

import "testing"

func TestParseTrackGain(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   float64
	}{
		{
			name:   "negative gain",
			output: "[Parsed_replaygain_0 @ 0x55] track_gain = -7.52 dB\ntrack_peak = 0.98",
			want:   -7.52,
		},
		{
			name:   "positive gain",
			output: "track_gain = +3.10 dB",
			want:   3.10,
		},
		{
			name:   "missing",
			output: "no gain info here",
			want:   0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseTrackGain(tc.output); got != tc.want {
				t.Fatalf("parseTrackGain = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	if got := parseFloat(" 92.48 "); got != 92.48 {
		t.Fatalf("parseFloat = %v", got)
	}
	if got := parseFloat(""); got != 0 {
		t.Fatalf("parseFloat empty = %v", got)
	}
	if got := parseFloat("bogus"); got != 0 {
		t.Fatalf("parseFloat bogus = %v", got)
	}
}
