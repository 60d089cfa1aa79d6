// SPDX-License-Identifier: EPL-2.0

package midi

import (
	"gitlab.com/gomidi/midi/v2/drivers"
)

// mockPort backs both fake port flavors.
type mockPort struct {
	number  int
	name    string
	open    bool
	openErr error
}

func (p *mockPort) Number() int             { return p.number }
func (p *mockPort) String() string          { return p.name }
func (p *mockPort) Underlying() interface{} { return nil }
func (p *mockPort) IsOpen() bool            { return p.open }

func (p *mockPort) Open() error {
	if p.openErr != nil {
		return p.openErr
	}
	p.open = true
	return nil
}

func (p *mockPort) Close() error {
	p.open = false
	return nil
}

type mockIn struct {
	mockPort
	onMsg     func(msg []byte, ms int32)
	stopped   bool
	listenErr error
}

func (in *mockIn) Listen(onMsg func(msg []byte, milliseconds int32), _ drivers.ListenConfig) (func(), error) {
	if in.listenErr != nil {
		return nil, in.listenErr
	}
	in.onMsg = onMsg
	return func() { in.stopped = true }, nil
}

// deliver feeds a message through the registered listener.
func (in *mockIn) deliver(msg []byte, ms int32) {
	if in.onMsg != nil && !in.stopped {
		in.onMsg(msg, ms)
	}
}

type mockOut struct {
	mockPort
	sent    [][]byte
	sendErr error
}

func (out *mockOut) Send(data []byte) error {
	if out.sendErr != nil {
		return out.sendErr
	}
	msg := make([]byte, len(data))
	copy(msg, data)
	out.sent = append(out.sent, msg)
	return nil
}

type mockDriver struct {
	ins    []drivers.In
	outs   []drivers.Out
	err    error
	closed bool
}

func (d *mockDriver) Ins() ([]drivers.In, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.ins, nil
}

func (d *mockDriver) Outs() ([]drivers.Out, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.outs, nil
}

func (d *mockDriver) Close() error {
	d.closed = true
	return nil
}
