package bridge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
)

// Sender delivers outbound requests to the backend.
type Sender interface {
	Send(ctx context.Context, req Request) error
}

// scanner limits; query results for a large org can be a single long line
const (
	initialScanBuffer = 64 * 1024
	maxScanBuffer     = 16 * 1024 * 1024
)

// Conn is a newline-delimited JSON connection to the backend: one request
// or event per line. Writes are serialized; reads happen on the caller's
// goroutine via Run.
type Conn struct {
	r      io.Reader
	w      io.Writer
	logger *slog.Logger

	mu sync.Mutex
}

// NewConn wraps an established reader/writer pair.
func NewConn(r io.Reader, w io.Writer, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Conn{r: r, w: w, logger: logger}
}

// StartCommand launches a backend bridge subprocess and connects to its
// stdio. The subprocess lives as long as the context.
func StartCommand(ctx context.Context, command []string, logger *slog.Logger) (*Conn, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("backend command not configured")
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening backend stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening backend stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting backend %q: %w", command[0], err)
	}

	return NewConn(stdout, stdin, logger), nil
}

// Send encodes and writes one request. Fire-and-forget: a nil error means
// the request left the panel, not that the backend acted on it.
func (c *Conn) Send(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, id, err := Encode(req)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing request: %w", err)
	}
	c.logger.Debug("request sent", "type", requestTypeOf(req), "correlation_id", id)
	return nil
}

// Run reads events until EOF or context cancellation, handing each decoded
// event to handle. Undecodable lines are logged and skipped so one bad
// payload cannot stall the channel.
func (c *Conn) Run(ctx context.Context, handle func(Event)) error {
	scanner := bufio.NewScanner(c.r)
	scanner.Buffer(make([]byte, 0, initialScanBuffer), maxScanBuffer)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		ev, err := Decode(line)
		if err != nil {
			c.logger.Warn("dropping undecodable event", "error", err)
			continue
		}
		handle(ev)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading events: %w", err)
	}
	return nil
}

func requestTypeOf(req Request) string {
	return req.requestType()
}
