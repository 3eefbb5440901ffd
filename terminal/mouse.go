package terminal

// MouseMode controls which mouse events are reported (bitmask)
type MouseMode uint8

const (
	MouseModeNone   MouseMode = 0
	MouseModeClick  MouseMode = 1 << 0 // Press/release events
	MouseModeDrag   MouseMode = 1 << 1 // Drag events (button held + motion)
	MouseModeMotion MouseMode = 1 << 2 // All motion events
)

// mouseOnSeq returns the enable sequences for mode, SGR first
func mouseOnSeq(mode MouseMode) [][]byte {
	if mode == MouseModeNone {
		return nil
	}
	seq := [][]byte{csiMouseSGROn}
	if mode&MouseModeClick != 0 {
		seq = append(seq, csiMouseClickOn)
	}
	if mode&MouseModeDrag != 0 {
		seq = append(seq, csiMouseDragOn)
	}
	if mode&MouseModeMotion != 0 {
		seq = append(seq, csiMouseMotionOn)
	}
	return seq
}

// mouseOffSeq returns the disable sequences for mode in reverse order of enable
func mouseOffSeq(mode MouseMode) [][]byte {
	if mode == MouseModeNone {
		return nil
	}
	var seq [][]byte
	if mode&MouseModeMotion != 0 {
		seq = append(seq, csiMouseMotionOff)
	}
	if mode&MouseModeDrag != 0 {
		seq = append(seq, csiMouseDragOff)
	}
	if mode&MouseModeClick != 0 {
		seq = append(seq, csiMouseClickOff)
	}
	return append(seq, csiMouseSGROff)
}
