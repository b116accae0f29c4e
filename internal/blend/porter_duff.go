// Package blend implements the Porter-Duff compositing operators used by the
// memoji drawing context.
//
// All operations work with premultiplied alpha values in the range 0-255.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Mode represents a Porter-Duff compositing operation.
type Mode uint8

const (
	Clear           Mode = iota // Result: 0
	Source                      // Result: S
	Destination                 // Result: D
	SourceOver                  // Result: S + D*(1-Sa) [default]
	DestinationOver             // Result: S*(1-Da) + D
)

var modeNames = [...]string{
	Clear:           "Clear",
	Source:          "Source",
	Destination:     "Destination",
	SourceOver:      "SourceOver",
	DestinationOver: "DestinationOver",
}

// String returns the operator name.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Unknown"
}

// Func is the signature for blend operations.
// All values are premultiplied alpha, 0-255.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// For returns the blend function for the given mode.
// Unknown modes fall back to SourceOver.
func For(m Mode) Func {
	switch m {
	case Clear:
		return blendClear
	case Source:
		return blendSource
	case Destination:
		return blendDestination
	case DestinationOver:
		return blendDestinationOver
	default:
		return blendSourceOver
	}
}

func blendClear(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return 0, 0, 0, 0
}

func blendSource(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return sr, sg, sb, sa
}

func blendDestination(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return dr, dg, db, da
}

// blendSourceOver composites source over destination.
// Formula: S + D * (1 - Sa)
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addClamp(sr, MulDiv255(dr, invSa)),
		addClamp(sg, MulDiv255(dg, invSa)),
		addClamp(sb, MulDiv255(db, invSa)),
		addClamp(sa, MulDiv255(da, invSa))
}

// blendDestinationOver composites destination over source.
// Formula: S * (1 - Da) + D
func blendDestinationOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return addClamp(MulDiv255(sr, invDa), dr),
		addClamp(MulDiv255(sg, invDa), dg),
		addClamp(MulDiv255(sb, invDa), db),
		addClamp(MulDiv255(sa, invDa), da)
}

// SourceOverPixel composites a premultiplied source pixel over the 4-byte
// destination slice in place.
func SourceOverPixel(dst []byte, sr, sg, sb, sa byte) {
	switch sa {
	case 0:
		return
	case 255:
		dst[0], dst[1], dst[2], dst[3] = sr, sg, sb, sa
		return
	}
	dst[0], dst[1], dst[2], dst[3] = blendSourceOver(sr, sg, sb, sa, dst[0], dst[1], dst[2], dst[3])
}
