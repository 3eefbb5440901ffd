package terminal

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

var (
	RGBBlack      = RGB{0, 0, 0}
	RGBLightWhite = RGB{255, 255, 255}
)

// Color cube values for 6x6x6 palette (indices 16-231)
// Levels: 0, 95, 135, 175, 215, 255
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// cubeIndex maps 0-255 to nearest cube index 0-5
var cubeIndex [256]uint8

func init() {
	for i := 0; i < 256; i++ {
		best := 0
		bestDist := abs(i - int(cubeValues[0]))
		for j := 1; j < 6; j++ {
			d := abs(i - int(cubeValues[j]))
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		cubeIndex[i] = uint8(best)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// RGBTo256 converts RGB to the nearest 256-color palette index
// Near-gray colors consider the 232-255 grayscale ramp as well as the cube
func RGBTo256(c RGB) uint8 {
	r, g, b := c.R, c.G, c.B
	gray := (int(r) + int(g) + int(b)) / 3
	maxDiff := max(abs(int(r)-gray), abs(int(g)-gray), abs(int(b)-gray))

	if maxDiff < 10 {
		if gray < 4 {
			return 16
		}
		if gray > 243 {
			return 231
		}
		grayIdx := 232 + (gray-8)/10
		if grayIdx > 255 {
			grayIdx = 255
		}
		if grayIdx < 232 {
			grayIdx = 232
		}

		grayLevel := 8 + (grayIdx-232)*10
		grayDist := abs(int(r)-grayLevel) + abs(int(g)-grayLevel) + abs(int(b)-grayLevel)

		cubeDist := abs(int(r)-int(cubeValues[cubeIndex[r]])) +
			abs(int(g)-int(cubeValues[cubeIndex[g]])) +
			abs(int(b)-int(cubeValues[cubeIndex[b]]))

		if grayDist < cubeDist {
			return uint8(grayIdx)
		}
	}

	return 16 + 36*cubeIndex[r] + 6*cubeIndex[g] + cubeIndex[b]
}
