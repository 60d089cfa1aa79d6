// SPDX-License-Identifier: EPL-2.0

package midi

import (
	"fmt"
	"sync"

	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.uber.org/zap"
)

// PortInfo identifies one system MIDI port.
type PortInfo struct {
	Number int
	Name   string
}

// ReceiveFunc handles one raw MIDI message with its millisecond
// timestamp. It runs on the driver's goroutine.
type ReceiveFunc func(msg []byte, timestampMS int32)

// driver is the slice of rtmididrv.Driver the package needs; tests swap
// in their own.
type driver interface {
	Ins() ([]drivers.In, error)
	Outs() ([]drivers.Out, error)
	Close() error
}

// Ports owns the system MIDI driver and hands out open ports.
type Ports struct {
	log *zap.Logger

	mu     sync.Mutex
	drv    driver
	closed bool
}

// Open initializes the system MIDI driver. Close the returned Ports
// when done; open ports die with it.
func Open(logger *zap.Logger) (*Ports, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("open midi driver: %w", err)
	}
	return newPorts(drv, logger), nil
}

func newPorts(drv driver, logger *zap.Logger) *Ports {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ports{log: logger, drv: drv}
}

// Ins lists the attached input ports.
func (p *Ports) Ins() ([]PortInfo, error) {
	ins, err := p.ins()
	if err != nil {
		return nil, err
	}
	infos := make([]PortInfo, len(ins))
	for i, in := range ins {
		infos[i] = PortInfo{Number: in.Number(), Name: in.String()}
	}
	return infos, nil
}

// Outs lists the attached output ports.
func (p *Ports) Outs() ([]PortInfo, error) {
	outs, err := p.outs()
	if err != nil {
		return nil, err
	}
	infos := make([]PortInfo, len(outs))
	for i, out := range outs {
		infos[i] = PortInfo{Number: out.Number(), Name: out.String()}
	}
	return infos, nil
}

func (p *Ports) ins() ([]drivers.In, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPortClosed
	}
	ins, err := p.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list midi inputs: %w", err)
	}
	return ins, nil
}

func (p *Ports) outs() ([]drivers.Out, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPortClosed
	}
	outs, err := p.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("list midi outputs: %w", err)
	}
	return outs, nil
}

// OpenIn opens input port number and delivers every message to recv
// until the In is closed.
func (p *Ports) OpenIn(number int, recv ReceiveFunc) (*In, error) {
	ins, err := p.ins()
	if err != nil {
		return nil, err
	}
	port := findIn(ins, number)
	if port == nil {
		return nil, fmt.Errorf("input %d: %w", number, ErrPortOutOfRange)
	}
	if err := port.Open(); err != nil {
		return nil, fmt.Errorf("open midi input %d: %w", number, err)
	}
	stop, err := port.Listen(func(msg []byte, ms int32) {
		recv(msg, ms)
	}, drivers.ListenConfig{SysEx: true})
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("listen on midi input %d: %w", number, err)
	}
	p.log.Info("midi input opened",
		zap.Int("number", number),
		zap.String("name", port.String()))
	return &In{
		name: port.String(),
		close: func() error {
			stop()
			return port.Close()
		},
	}, nil
}

// OpenOut opens output port number for sending.
func (p *Ports) OpenOut(number int) (*Out, error) {
	outs, err := p.outs()
	if err != nil {
		return nil, err
	}
	port := findOut(outs, number)
	if port == nil {
		return nil, fmt.Errorf("output %d: %w", number, ErrPortOutOfRange)
	}
	if err := port.Open(); err != nil {
		return nil, fmt.Errorf("open midi output %d: %w", number, err)
	}
	p.log.Info("midi output opened",
		zap.Int("number", number),
		zap.String("name", port.String()))
	return &Out{
		name:  port.String(),
		send:  port.Send,
		close: port.Close,
	}, nil
}

// Close shuts the driver down. Already-open ports stop working.
func (p *Ports) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.drv.Close(); err != nil {
		return fmt.Errorf("close midi driver: %w", err)
	}
	return nil
}

func findIn(ins []drivers.In, number int) drivers.In {
	for _, in := range ins {
		if in.Number() == number {
			return in
		}
	}
	return nil
}

func findOut(outs []drivers.Out, number int) drivers.Out {
	for _, out := range outs {
		if out.Number() == number {
			return out
		}
	}
	return nil
}

// In is an open input port. Messages flow to the ReceiveFunc it was
// opened with.
type In struct {
	name string

	mu     sync.Mutex
	closed bool
	close  func() error
}

// Name reports the system name of the port.
func (in *In) Name() string { return in.name }

// Close stops delivery and releases the port.
func (in *In) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return nil
	}
	in.closed = true
	return in.close()
}

// Out is an open output port.
type Out struct {
	name string

	mu     sync.Mutex
	closed bool
	send   func([]byte) error
	close  func() error
}

// Name reports the system name of the port.
func (out *Out) Name() string { return out.name }

// Send transmits one raw MIDI message.
func (out *Out) Send(msg []byte) error {
	out.mu.Lock()
	defer out.mu.Unlock()
	if out.closed {
		return ErrPortClosed
	}
	if err := out.send(msg); err != nil {
		return fmt.Errorf("send midi message: %w", err)
	}
	return nil
}

// Close releases the port.
func (out *Out) Close() error {
	out.mu.Lock()
	defer out.mu.Unlock()
	if out.closed {
		return nil
	}
	out.closed = true
	return out.close()
}
