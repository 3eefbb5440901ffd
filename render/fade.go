package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/crawl/terminal"
)

func toColorful(c terminal.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// messageColors returns one foreground per message, oldest first
// With fading enabled the newest message keeps base and older ones blend toward fadeTo
func messageColors(n int, base terminal.RGB, fade bool, fadeTo terminal.RGB, dst []terminal.RGB) []terminal.RGB {
	dst = dst[:0]
	if n == 0 {
		return dst
	}
	if !fade || n == 1 {
		for i := 0; i < n; i++ {
			dst = append(dst, base)
		}
		return dst
	}

	from := toColorful(base)
	to := toColorful(fadeTo)
	for i := 0; i < n; i++ {
		// age 0 is newest
		age := float64(n-1-i) / float64(n-1)
		r, g, b := from.BlendLab(to, age*maxFade).Clamped().RGB255()
		dst = append(dst, terminal.RGB{R: r, G: g, B: b})
	}
	return dst
}

// maxFade keeps the oldest message readable
const maxFade = 0.7
