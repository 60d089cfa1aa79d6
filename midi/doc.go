// SPDX-License-Identifier: EPL-2.0

/*
Package midi enumerates MIDI ports and moves raw messages through them.

Hardware access goes through the rtmidi driver from gomidi. Open the
system ports once, list what is attached, then open individual ports by
number:

	ports, err := midi.Open(logger)
	if err != nil { ... }
	defer ports.Close()

	ins, _ := ports.Ins()
	for _, p := range ins {
		fmt.Println(p.Number, p.Name)
	}

	in, err := ports.OpenIn(0, func(msg []byte, ms int32) {
		// raw MIDI bytes, millisecond timestamp
	})

Received messages arrive on the driver's own goroutine; keep the
receive function short and hand work off.

For routing without hardware, Loopback returns a connected in/out pair:
everything sent on the out side is delivered to the in side's receive
function. It stands in for a virtual port in tests and offline tools.
*/
package midi
