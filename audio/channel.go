// SPDX-License-Identifier: EPL-2.0

package audio

// ChannelRole identifies the semantic position of one output slot. Matrix
// coefficients are indexed by role, so a gain set for FrontCenter lands on
// the center speaker wherever the device places it in the interleave order.
type ChannelRole int

const (
	FrontLeft ChannelRole = iota
	FrontRight
	RearLeft
	RearRight
	FrontCenter
	LFE
	SideLeft
	SideRight

	// NumChannelRoles bounds the coefficient tables.
	NumChannelRoles = 8

	// ChannelUnknown marks an output slot no matrix writes to.
	ChannelUnknown ChannelRole = -1
)

func (r ChannelRole) String() string {
	switch r {
	case FrontLeft:
		return "front-left"
	case FrontRight:
		return "front-right"
	case RearLeft:
		return "rear-left"
	case RearRight:
		return "rear-right"
	case FrontCenter:
		return "front-center"
	case LFE:
		return "lfe"
	case SideLeft:
		return "side-left"
	case SideRight:
		return "side-right"
	}
	return "unknown"
}

// ChannelSet names the speaker layouts the engine can mix for.
type ChannelSet int

const (
	SetStereo ChannelSet = iota
	SetQuad
	SetSurround51
	SetSurround71
)

// Channels reports the interleaved channel count of the set.
func (s ChannelSet) Channels() int {
	switch s {
	case SetStereo:
		return 2
	case SetQuad:
		return 4
	case SetSurround51:
		return 6
	case SetSurround71:
		return 8
	}
	return 2
}

func (s ChannelSet) String() string {
	switch s {
	case SetStereo:
		return "stereo"
	case SetQuad:
		return "quad"
	case SetSurround51:
		return "5.1"
	case SetSurround71:
		return "7.1"
	}
	return "stereo"
}

// ChannelMap is the ordered role list of the engine output, up to 8 slots.
// Slot i of every interleaved output frame carries Channels[i].
type ChannelMap struct {
	Channels [NumChannelRoles]ChannelRole
	Count    int
}

// DefaultChannelMap returns the conventional interleave order for a set.
func DefaultChannelMap(set ChannelSet) ChannelMap {
	var m ChannelMap
	switch set {
	case SetQuad:
		m.Count = 4
		m.Channels = [NumChannelRoles]ChannelRole{
			FrontLeft, FrontRight, RearLeft, RearRight,
			ChannelUnknown, ChannelUnknown, ChannelUnknown, ChannelUnknown,
		}
	case SetSurround51:
		m.Count = 6
		m.Channels = [NumChannelRoles]ChannelRole{
			FrontLeft, FrontRight, FrontCenter, LFE, RearLeft, RearRight,
			ChannelUnknown, ChannelUnknown,
		}
	case SetSurround71:
		m.Count = 8
		m.Channels = [NumChannelRoles]ChannelRole{
			FrontLeft, FrontRight, FrontCenter, LFE,
			RearLeft, RearRight, SideLeft, SideRight,
		}
	default:
		m.Count = 2
		m.Channels = [NumChannelRoles]ChannelRole{
			FrontLeft, FrontRight,
			ChannelUnknown, ChannelUnknown, ChannelUnknown, ChannelUnknown,
			ChannelUnknown, ChannelUnknown,
		}
	}
	return m
}
