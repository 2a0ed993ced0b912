package midi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-trails/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

var (
	// ErrNoInput means no usable MIDI input port was found
	ErrNoInput = errors.New("no MIDI input device connected")
	// ErrNoOutput means no MIDI output port was found
	ErrNoOutput = errors.New("no MIDI output device connected")
	// ErrScanTimeout means the driver did not answer a port scan in time
	ErrScanTimeout = errors.New("MIDI port scan timed out")
)

// scanTimeout bounds a port scan (CoreMIDI can hang)
const scanTimeout = 3 * time.Second

// DeviceEvent is emitted when the input device disconnects or comes back
type DeviceEvent struct {
	Type  DeviceEventType
	Input *KeyboardInput // set on DeviceConnected
	ID    string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

func (t DeviceEventType) String() string {
	if t == DeviceConnected {
		return "connected"
	}
	return "disconnected"
}

// DeviceManager finds and opens ports and watches the input for hot-unplug
type DeviceManager struct {
	Prefer  []string // substrings picked first, case-insensitive
	Exclude []string // substrings never auto-picked

	input     *KeyboardInput
	inputName string
	lost      bool
	mu        sync.RWMutex

	events   chan DeviceEvent
	pollRate time.Duration
}

// NewDeviceManager creates a new device manager
func NewDeviceManager(prefer, exclude []string) *DeviceManager {
	return &DeviceManager{
		Prefer:   prefer,
		Exclude:  exclude,
		events:   make(chan DeviceEvent, 16),
		pollRate: time.Second,
	}
}

// Events returns a channel of input connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

type portsResult struct {
	inPorts  []drivers.In
	outPorts []drivers.Out
}

func scan() (portsResult, error) {
	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r, nil
	case <-time.After(scanTimeout):
		return portsResult{}, ErrScanTimeout
	}
}

// Ports lists input and output port names
func (dm *DeviceManager) Ports() (ins, outs []string, err error) {
	r, err := scan()
	if err != nil {
		return nil, nil, err
	}
	for _, p := range r.inPorts {
		ins = append(ins, p.String())
	}
	for _, p := range r.outPorts {
		outs = append(outs, p.String())
	}
	return ins, outs, nil
}

// OpenInput opens the named input, or picks one when name is empty
func (dm *DeviceManager) OpenInput(name string) (*KeyboardInput, error) {
	r, err := scan()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(r.inPorts))
	for i, p := range r.inPorts {
		names[i] = p.String()
	}
	idx := pickPort(names, name, dm.Prefer, dm.Exclude)
	if idx < 0 {
		if name != "" {
			return nil, fmt.Errorf("input %q: %w", name, ErrNoInput)
		}
		return nil, ErrNoInput
	}

	in, err := NewKeyboardInput(names[idx], r.inPorts[idx])
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", names[idx], err)
	}

	dm.mu.Lock()
	dm.input = in
	dm.inputName = names[idx]
	dm.lost = false
	dm.mu.Unlock()

	debug.Log("device", "input connected: %s", names[idx])
	return in, nil
}

// OpenOutput opens the named output, or the first usable one when name is empty
func (dm *DeviceManager) OpenOutput(name string, channel uint8) (*PortOutput, error) {
	r, err := scan()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(r.outPorts))
	for i, p := range r.outPorts {
		names[i] = p.String()
	}
	idx := pickPort(names, name, nil, dm.Exclude)
	if idx < 0 {
		return nil, ErrNoOutput
	}

	out, err := NewPortOutput(names[idx], r.outPorts[idx], channel)
	if err != nil {
		return nil, fmt.Errorf("output %q: %w", names[idx], err)
	}
	debug.Log("device", "output connected: %s", names[idx])
	return out, nil
}

// pickPort chooses a port index: exact name first, then preferred substrings,
// then the first port not excluded. Returns -1 when nothing fits.
func pickPort(names []string, exact string, prefer, exclude []string) int {
	if exact != "" {
		for i, n := range names {
			if n == exact {
				return i
			}
		}
		return -1
	}

	usable := func(n string) bool {
		for _, pat := range exclude {
			if containsCI(n, pat) {
				return false
			}
		}
		return true
	}

	for _, pat := range prefer {
		for i, n := range names {
			if usable(n) && containsCI(n, pat) {
				return i
			}
		}
	}
	for i, n := range names {
		if usable(n) {
			return i
		}
	}
	return -1
}

// Run watches the open input for disappearance and reconnection (blocking -
// run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			dm.Close()
			return
		case <-ticker.C:
			dm.check(ctx)
		}
	}
}

func (dm *DeviceManager) check(ctx context.Context) {
	dm.mu.RLock()
	name, lost := dm.inputName, dm.lost
	dm.mu.RUnlock()
	if name == "" {
		return
	}

	r, err := scan()
	if err != nil {
		debug.Log("device", "scan: %v", err)
		return
	}

	var port drivers.In
	for _, p := range r.inPorts {
		if p.String() == name {
			port = p
			break
		}
	}

	switch {
	case port == nil && !lost:
		dm.mu.Lock()
		if dm.input != nil {
			dm.input.Close()
			dm.input = nil
		}
		dm.lost = true
		dm.mu.Unlock()
		debug.Log("device", "input disappeared: %s", name)
		dm.emit(ctx, DeviceEvent{Type: DeviceDisconnected, ID: name})

	case port != nil && lost:
		in, err := NewKeyboardInput(name, port)
		if err != nil {
			debug.Log("device", "reconnect %s: %v", name, err)
			return
		}
		dm.mu.Lock()
		dm.input = in
		dm.lost = false
		dm.mu.Unlock()
		debug.Log("device", "input reconnected: %s", name)
		dm.emit(ctx, DeviceEvent{Type: DeviceConnected, Input: in, ID: name})
	}
}

// emit waits until the event is taken or ctx ends. Events are never dropped
// while ctx is live.
func (dm *DeviceManager) emit(ctx context.Context, ev DeviceEvent) bool {
	select {
	case dm.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close stops listening on the input
func (dm *DeviceManager) Close() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.input != nil {
		dm.input.Close()
		dm.input = nil
	}
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
