// Package chromosome lays controllable equipment setpoints out on a
// fixed-width bit string for consumption by an external search procedure.
package chromosome

import (
	"math/bits"

	"github.com/kilianp07/zipfit/core/equipment"
)

// Gene is the bit range [Start, End) assigned to one device, plus the MRID
// used to command it once a candidate layout is decoded.
type Gene struct {
	Start int
	End   int
	MRID  string
}

// Map assigns a bit range to every controllable device. Regulators receive
// enough bits to represent their tap positions, capacitors a single switch
// bit. Non-controllable devices are skipped. The map is keyed by name and
// phase (for example "reg1_A") because models are looked up by name many
// times but devices are commanded by MRID only once. The returned length is
// the total chromosome width in bits.
func Map(regs []equipment.Regulator, caps []equipment.Capacitor) (map[string]Gene, int) {
	out := make(map[string]Gene)
	idx := 0
	for _, r := range regs {
		if !r.Controllable {
			continue
		}
		n := IntBitLength(r.Positions())
		out[r.Key()] = Gene{Start: idx, End: idx + n, MRID: r.MRID}
		idx += n
	}
	for _, c := range caps {
		if !c.Controllable {
			continue
		}
		out[c.Key()] = Gene{Start: idx, End: idx + 1, MRID: c.MRID}
		idx++
	}
	return out, idx
}

// IntBitLength returns how many bits are needed to represent x. Zero still
// occupies one bit.
func IntBitLength(x int) int {
	if x <= 0 {
		return 1
	}
	return bits.Len(uint(x))
}
