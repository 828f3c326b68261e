// ABOUTME: Object tables and state machine shared by every backend
// ABOUTME: Drivers only supply device access and voices that render audio
package output

import (
	"log/slog"
	"math"
	"sync"
)

// driver is the device-specific half of a backend.
type driver interface {
	open(name string) error
	close() error
	// prepare converts uploaded data into whatever newVoice consumes.
	prepare(format Format, data []byte, sampleRate int) (any, error)
	newVoice(payload any) (voice, error)
}

// voice renders one bound buffer.
type voice interface {
	Play()
	Pause()
	Rewind()
	SetLooping(looping bool)
	SetGain(gain float32)
	// Done reports that a non-looping voice has played to the end.
	Done() bool
	Close() error
}

type deviceObj struct {
	name     string
	contexts int
}

type contextObj struct {
	device ID
}

type bufferObj struct {
	device  ID
	format  Format
	payload any
	refs    int
}

type sourceObj struct {
	context  ID
	pitch    float32
	gain     float32
	position [3]float32
	velocity [3]float32
	looping  bool
	buffer   ID
	state    int32
	voice    voice
}

type engine struct {
	mu     sync.Mutex
	drv    driver
	logger *slog.Logger

	nextID   ID
	devices  map[ID]*deviceObj
	contexts map[ID]*contextObj
	buffers  map[ID]*bufferObj
	sources  map[ID]*sourceObj
	current  ID

	calls  map[Op]int
	faults map[Op]int32
}

func newEngine(drv driver, logger *slog.Logger) *engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &engine{
		drv:      drv,
		logger:   logger,
		devices:  make(map[ID]*deviceObj),
		contexts: make(map[ID]*contextObj),
		buffers:  make(map[ID]*bufferObj),
		sources:  make(map[ID]*sourceObj),
		calls:    make(map[Op]int),
		faults:   make(map[Op]int32),
	}
}

// enter records a call and consumes an injected fault. Caller holds mu.
func (e *engine) enter(op Op) error {
	e.calls[op]++
	if code, ok := e.faults[op]; ok {
		delete(e.faults, op)
		return fail(op, code)
	}
	return nil
}

func (e *engine) allocID() ID {
	e.nextID++
	return e.nextID
}

// currentDevice returns the device of the current context. Caller holds mu.
func (e *engine) currentDevice(op Op) (ID, error) {
	if e.current == 0 {
		return 0, &Error{Op: op, Code: InvalidOperation, Message: "Invalid Operation: no current context"}
	}
	return e.contexts[e.current].device, nil
}

func (e *engine) source(op Op, id ID) (*sourceObj, error) {
	if _, err := e.currentDevice(op); err != nil {
		return nil, err
	}
	s, ok := e.sources[id]
	if !ok {
		return nil, fail(op, InvalidName)
	}
	return s, nil
}

// refresh folds a finished voice into the Stopped state.
func (s *sourceObj) refresh() {
	if s.state == StatePlaying && s.voice != nil && !s.looping && s.voice.Done() {
		s.state = StateStopped
		s.voice.Pause()
		s.voice.Rewind()
	}
}

func (e *engine) OpenDevice(name string) (ID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpOpenDevice); err != nil {
		return 0, err
	}
	if err := e.drv.open(name); err != nil {
		return 0, &Error{Op: OpOpenDevice, Code: InvalidValue, Message: err.Error(), Err: err}
	}
	id := e.allocID()
	e.devices[id] = &deviceObj{name: name}
	e.logger.Debug("device opened", "device", id, "name", name)
	return id, nil
}

func (e *engine) CloseDevice(device ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpCloseDevice); err != nil {
		return err
	}
	d, ok := e.devices[device]
	if !ok {
		return fail(OpCloseDevice, InvalidName)
	}
	if d.contexts > 0 {
		return &Error{Op: OpCloseDevice, Code: InvalidOperation, Message: "Invalid Operation: device has live contexts"}
	}
	for id, b := range e.buffers {
		if b.device == device {
			e.logger.Warn("releasing leaked buffer", "buffer", id, "device", device)
			delete(e.buffers, id)
		}
	}
	delete(e.devices, device)
	e.logger.Debug("device closed", "device", device)
	if err := e.drv.close(); err != nil {
		return &Error{Op: OpCloseDevice, Code: InvalidOperation, Message: err.Error(), Err: err}
	}
	return nil
}

func (e *engine) CreateContext(device ID) (ID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpCreateContext); err != nil {
		return 0, err
	}
	d, ok := e.devices[device]
	if !ok {
		return 0, fail(OpCreateContext, InvalidName)
	}
	d.contexts++
	id := e.allocID()
	e.contexts[id] = &contextObj{device: device}
	return id, nil
}

func (e *engine) MakeContextCurrent(context ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpMakeContextCurrent); err != nil {
		return err
	}
	if context != 0 {
		if _, ok := e.contexts[context]; !ok {
			return fail(OpMakeContextCurrent, InvalidName)
		}
	}
	e.current = context
	return nil
}

func (e *engine) DestroyContext(context ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpDestroyContext); err != nil {
		return err
	}
	c, ok := e.contexts[context]
	if !ok {
		return fail(OpDestroyContext, InvalidName)
	}
	for id, s := range e.sources {
		if s.context == context {
			e.logger.Warn("releasing leaked source", "source", id, "context", context)
			e.dropSource(id, s)
		}
	}
	if e.current == context {
		e.current = 0
	}
	e.devices[c.device].contexts--
	delete(e.contexts, context)
	return nil
}

func (e *engine) GenBuffer() (ID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpGenBuffer); err != nil {
		return 0, err
	}
	dev, err := e.currentDevice(OpGenBuffer)
	if err != nil {
		return 0, err
	}
	id := e.allocID()
	e.buffers[id] = &bufferObj{device: dev}
	return id, nil
}

func (e *engine) BufferData(buffer ID, format Format, data []byte, sampleRate int) error {
	if err := e.checkUpload(buffer, format, data, sampleRate); err != nil {
		return err
	}

	// Conversion can take as long as the clip; other calls proceed meanwhile.
	payload, err := e.drv.prepare(format, append([]byte(nil), data...), sampleRate)
	if err != nil {
		return &Error{Op: OpBufferData, Code: OutOfMemory, Message: err.Error(), Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.buffers[buffer]
	if !ok {
		return fail(OpBufferData, InvalidName)
	}
	if b.refs > 0 {
		return fail(OpBufferData, InvalidOperation)
	}
	b.format = format
	b.payload = payload
	return nil
}

// checkUpload validates a BufferData call under the lock.
func (e *engine) checkUpload(buffer ID, format Format, data []byte, sampleRate int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpBufferData); err != nil {
		return err
	}
	if _, err := e.currentDevice(OpBufferData); err != nil {
		return err
	}
	b, ok := e.buffers[buffer]
	if !ok {
		return fail(OpBufferData, InvalidName)
	}
	if format.FrameSize() == 0 {
		return fail(OpBufferData, InvalidEnum)
	}
	if sampleRate <= 0 || len(data)%format.FrameSize() != 0 {
		return fail(OpBufferData, InvalidValue)
	}
	if b.refs > 0 {
		return fail(OpBufferData, InvalidOperation)
	}
	return nil
}

func (e *engine) DeleteBuffer(buffer ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpDeleteBuffer); err != nil {
		return err
	}
	if _, err := e.currentDevice(OpDeleteBuffer); err != nil {
		return err
	}
	b, ok := e.buffers[buffer]
	if !ok {
		return fail(OpDeleteBuffer, InvalidName)
	}
	if b.refs > 0 {
		return &Error{Op: OpDeleteBuffer, Code: InvalidOperation, Message: "Invalid Operation: buffer is still bound"}
	}
	delete(e.buffers, buffer)
	return nil
}

func (e *engine) GenSource() (ID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpGenSource); err != nil {
		return 0, err
	}
	if _, err := e.currentDevice(OpGenSource); err != nil {
		return 0, err
	}
	id := e.allocID()
	e.sources[id] = &sourceObj{
		context: e.current,
		pitch:   1,
		gain:    1,
		state:   StateInitial,
	}
	return id, nil
}

func (e *engine) DeleteSource(source ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpDeleteSource); err != nil {
		return err
	}
	s, err := e.source(OpDeleteSource, source)
	if err != nil {
		return err
	}
	e.dropSource(source, s)
	return nil
}

// dropSource releases the voice and buffer reference. Caller holds mu.
func (e *engine) dropSource(id ID, s *sourceObj) {
	e.unbind(s)
	delete(e.sources, id)
}

func (e *engine) unbind(s *sourceObj) {
	if s.voice != nil {
		if err := s.voice.Close(); err != nil {
			e.logger.Warn("voice close failed", "error", err)
		}
		s.voice = nil
	}
	if b, ok := e.buffers[s.buffer]; ok {
		b.refs--
	}
	s.buffer = 0
}

func (e *engine) Sourcef(source ID, param Param, value float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpSourcef); err != nil {
		return err
	}
	s, err := e.source(OpSourcef, source)
	if err != nil {
		return err
	}
	if math.IsNaN(float64(value)) || value < 0 {
		return fail(OpSourcef, InvalidValue)
	}
	switch param {
	case Pitch:
		if value == 0 {
			return fail(OpSourcef, InvalidValue)
		}
		s.pitch = value
	case Gain:
		s.gain = value
		if s.voice != nil {
			s.voice.SetGain(value)
		}
	default:
		return fail(OpSourcef, InvalidEnum)
	}
	return nil
}

func (e *engine) Source3f(source ID, param Param, x, y, z float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpSource3f); err != nil {
		return err
	}
	s, err := e.source(OpSource3f, source)
	if err != nil {
		return err
	}
	for _, v := range []float32{x, y, z} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fail(OpSource3f, InvalidValue)
		}
	}
	switch param {
	case Position:
		s.position = [3]float32{x, y, z}
	case Velocity:
		s.velocity = [3]float32{x, y, z}
	default:
		return fail(OpSource3f, InvalidEnum)
	}
	return nil
}

func (e *engine) Sourcei(source ID, param Param, value int32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpSourcei); err != nil {
		return err
	}
	s, err := e.source(OpSourcei, source)
	if err != nil {
		return err
	}
	switch param {
	case Looping:
		if value != 0 && value != 1 {
			return fail(OpSourcei, InvalidValue)
		}
		s.refresh()
		s.looping = value == 1
		if s.voice != nil {
			s.voice.SetLooping(s.looping)
		}
	case Buffer:
		return e.bind(s, ID(value))
	default:
		return fail(OpSourcei, InvalidEnum)
	}
	return nil
}

// bind attaches buffer to s, replacing any previous binding. Caller holds mu.
func (e *engine) bind(s *sourceObj, buffer ID) error {
	s.refresh()
	if s.state != StateInitial && s.state != StateStopped {
		return &Error{Op: OpSourcei, Code: InvalidOperation, Message: "Invalid Operation: source is active"}
	}
	var b *bufferObj
	if buffer != 0 {
		var ok bool
		if b, ok = e.buffers[buffer]; !ok {
			return fail(OpSourcei, InvalidName)
		}
	}

	e.unbind(s)
	if b == nil {
		return nil
	}

	if b.payload != nil {
		v, err := e.drv.newVoice(b.payload)
		if err != nil {
			return &Error{Op: OpSourcei, Code: OutOfMemory, Message: err.Error(), Err: err}
		}
		v.SetLooping(s.looping)
		v.SetGain(s.gain)
		s.voice = v
	}
	b.refs++
	s.buffer = buffer
	return nil
}

func (e *engine) GetSourcef(source ID, param Param) (float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpGetSourcef); err != nil {
		return 0, err
	}
	s, err := e.source(OpGetSourcef, source)
	if err != nil {
		return 0, err
	}
	switch param {
	case Pitch:
		return s.pitch, nil
	case Gain:
		return s.gain, nil
	}
	return 0, fail(OpGetSourcef, InvalidEnum)
}

func (e *engine) GetSourcei(source ID, param Param) (int32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpGetSourcei); err != nil {
		return 0, err
	}
	s, err := e.source(OpGetSourcei, source)
	if err != nil {
		return 0, err
	}
	switch param {
	case SourceState:
		s.refresh()
		return s.state, nil
	case Looping:
		if s.looping {
			return 1, nil
		}
		return 0, nil
	case Buffer:
		return int32(s.buffer), nil
	}
	return 0, fail(OpGetSourcei, InvalidEnum)
}

func (e *engine) SourcePlay(source ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpSourcePlay); err != nil {
		return err
	}
	s, err := e.source(OpSourcePlay, source)
	if err != nil {
		return err
	}
	s.refresh()
	// Nothing to render: an empty source finishes immediately.
	if s.buffer == 0 || s.voice == nil {
		s.state = StateStopped
		return nil
	}
	if s.state != StatePaused {
		s.voice.Pause()
		s.voice.Rewind()
	}
	s.voice.Play()
	s.state = StatePlaying
	return nil
}

func (e *engine) SourcePause(source ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpSourcePause); err != nil {
		return err
	}
	s, err := e.source(OpSourcePause, source)
	if err != nil {
		return err
	}
	s.refresh()
	if s.state != StatePlaying {
		return nil
	}
	if s.voice != nil {
		s.voice.Pause()
	}
	s.state = StatePaused
	return nil
}

func (e *engine) SourceStop(source ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter(OpSourceStop); err != nil {
		return err
	}
	s, err := e.source(OpSourceStop, source)
	if err != nil {
		return err
	}
	if s.voice != nil {
		s.voice.Pause()
		s.voice.Rewind()
	}
	s.state = StateStopped
	return nil
}

// Fail makes the next call of op fail with code.
func (e *engine) Fail(op Op, code int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.faults[op] = code
}

// Calls returns how many times op has been invoked.
func (e *engine) Calls(op Op) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[op]
}

// Live returns the number of objects not yet released, across all tables.
func (e *engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.devices) + len(e.contexts) + len(e.buffers) + len(e.sources)
}
