package midi

import (
	"fmt"

	"go-trails/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// PortOutput sends to a MIDI output port on a single channel
type PortOutput struct {
	id      string
	outPort drivers.Out
	send    func(msg gomidi.Message) error
	channel uint8
}

// NewPortOutput opens the port for sending. channel is 0-based.
func NewPortOutput(id string, outPort drivers.Out, channel uint8) (*PortOutput, error) {
	send, err := gomidi.SendTo(outPort)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return &PortOutput{
		id:      id,
		outPort: outPort,
		send:    send,
		channel: channel & 0x0f,
	}, nil
}

func (o *PortOutput) NoteOn(pitch, velocity uint8) {
	o.emit(gomidi.NoteOn(o.channel, pitch&0x7f, velocity&0x7f))
}

func (o *PortOutput) NoteOff(pitch uint8) {
	o.emit(gomidi.NoteOff(o.channel, pitch&0x7f))
}

func (o *PortOutput) SetInstrument(id uint8) {
	o.emit(gomidi.ProgramChange(o.channel, id&0x7f))
}

func (o *PortOutput) emit(msg gomidi.Message) {
	if err := o.send(msg); err != nil {
		debug.Log("midi-out", "send %s to %s: %v", msg, o.id, err)
	}
}

func (o *PortOutput) ID() string {
	return o.id
}

// Close silences the channel (CC 123, all notes off) and closes the port
func (o *PortOutput) Close() error {
	o.emit(gomidi.ControlChange(o.channel, 123, 0))
	return o.outPort.Close()
}
