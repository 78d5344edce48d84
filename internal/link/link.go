package link

import (
	"bytes"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"github.com/dojdev153/nexus-robot-control/internal/input"
)

// Config holds the serial link settings.
type Config struct {
	Port        string        // empty: discover and select
	BaudRate    int           // default 38400
	ReadTimeout time.Duration // poll interval so shutdown is observed promptly
}

// DefaultConfig returns the reference link settings.
func DefaultConfig() Config {
	return Config{
		BaudRate:    38400,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// readPort is the slice of serial.Port the receiver needs. Tests
// substitute a fake.
type readPort interface {
	Read(p []byte) (n int, err error)
	Close() error
}

// Receiver reads newline-terminated command tokens from the peripheral
// and pushes them onto the shared queue. Malformed or partial lines are
// discarded; the loop keeps polling through transient read errors.
type Receiver struct {
	log      zerolog.Logger
	queue    *input.Queue
	port     readPort
	portName string

	mu      sync.Mutex
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
}

// Open connects to the configured serial port. Connection failure is
// reported to the caller once; the session then continues keyboard-only.
func Open(cfg Config, queue *input.Queue, log zerolog.Logger) (*Receiver, error) {
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = 38400
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 100 * time.Millisecond
	}

	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Port, err)
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", cfg.Port, err)
	}

	log.Info().Str("port", cfg.Port).Int("baud", cfg.BaudRate).Msg("link connected")
	return newReceiver(port, cfg.Port, queue, log), nil
}

func newReceiver(port readPort, name string, queue *input.Queue, log zerolog.Logger) *Receiver {
	return &Receiver{
		log:      log,
		queue:    queue,
		port:     port,
		portName: name,
		done:     make(chan struct{}),
	}
}

// PortName returns the connected port's name.
func (r *Receiver) PortName() string {
	return r.portName
}

// Start launches the background listen goroutine.
func (r *Receiver) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	r.wg.Add(1)
	go r.listen()
}

func (r *Receiver) listen() {
	defer r.wg.Done()

	buf := make([]byte, 256)
	var pending []byte

	for {
		select {
		case <-r.done:
			return
		default:
		}

		n, err := r.port.Read(buf)
		if err != nil {
			select {
			case <-r.done:
				return
			default:
			}
			// Transient I/O errors do not stop the loop; keep polling.
			r.log.Debug().Err(err).Msg("link read error")
			continue
		}
		if n == 0 {
			// Read timeout; gives the shutdown check a chance to run.
			continue
		}

		pending = append(pending, buf[:n]...)
		for {
			idx := bytes.IndexByte(pending, '\n')
			if idx < 0 {
				break
			}
			line := pending[:idx]
			pending = pending[idx+1:]
			r.handleLine(line)
		}
	}
}

// handleLine decodes one raw line into a command token. Empty and
// invalid lines are swallowed, never propagated as errors.
func (r *Receiver) handleLine(line []byte) {
	token := string(bytes.TrimSpace(line))
	if token == "" || !utf8.ValidString(token) {
		return
	}
	r.log.Debug().Str("token", token).Msg("link command")
	r.queue.Push(token)
}

// Stop ends the listen goroutine and releases the port. The bounded read
// timeout guarantees shutdown is not blocked indefinitely.
func (r *Receiver) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		r.port.Close()
		return
	}
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	r.mu.Unlock()

	r.wg.Wait()
	r.port.Close()
	r.log.Info().Str("port", r.portName).Msg("link closed")
}
