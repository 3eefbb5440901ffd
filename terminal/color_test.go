package terminal

import "testing"

func TestRGBTo256(t *testing.T) {
	tests := []struct {
		name string
		in   RGB
		want uint8
	}{
		{"black", RGBBlack, 16},
		{"white", RGBLightWhite, 231},
		{"red", RGB{255, 0, 0}, 196},
		{"green", RGB{0, 255, 0}, 46},
		{"blue", RGB{0, 0, 255}, 21},
		{"mid gray uses ramp", RGB{128, 128, 128}, 244},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RGBTo256(tt.in); got != tt.want {
				t.Errorf("RGBTo256(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestDetectColorMode(t *testing.T) {
	for _, k := range []string{"KITTY_WINDOW_ID", "KONSOLE_VERSION", "ITERM_SESSION_ID", "ALACRITTY_WINDOW_ID", "WEZTERM_PANE"} {
		t.Setenv(k, "")
	}

	t.Setenv("COLORTERM", "truecolor")
	if got := DetectColorMode(); got != ColorModeTrueColor {
		t.Errorf("COLORTERM=truecolor: got %v", got)
	}

	t.Setenv("COLORTERM", "")
	t.Setenv("TERM", "xterm-256color")
	if got := DetectColorMode(); got != ColorMode256 {
		t.Errorf("TERM=xterm-256color: got %v", got)
	}

	t.Setenv("TERM", "xterm-direct")
	if got := DetectColorMode(); got != ColorModeTrueColor {
		t.Errorf("TERM=xterm-direct: got %v", got)
	}
}
