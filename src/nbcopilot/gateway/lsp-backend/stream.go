package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/multierr"
)

// _maxFrameSize bounds a frame body so a garbled header cannot force a huge allocation.
const _maxFrameSize = 64 << 20

type stream struct {
	in      *bufio.Reader
	inClose io.Closer
	out     io.WriteCloser
}

// NewStream frames messages over a backend's stdio.
// Unlike jsonrpc2.NewStream, a frame that cannot be parsed is reported as a MalformedFrameError
// and the next Read resumes at the following line, so one bad frame does not end the session.
// Write is not safe for concurrent use.
func NewStream(stdout io.ReadCloser, stdin io.WriteCloser) jsonrpc2.Stream {
	return &stream{
		in:      bufio.NewReader(stdout),
		inClose: stdout,
		out:     stdin,
	}
}

func (s *stream) Read(ctx context.Context) (jsonrpc2.Message, int64, error) {
	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	default:
	}

	var total int64
	header, n, err := s.readHeaderLine()
	total += n
	if err != nil {
		return nil, total, err
	}

	name, value, ok := strings.Cut(header, ":")
	if !ok || !strings.EqualFold(strings.TrimSpace(name), jsonrpc2.HdrContentLength) {
		return nil, total, &errors.MalformedFrameError{Header: header}
	}
	length, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return nil, total, &errors.MalformedFrameError{Header: header, Err: err}
	}
	if length <= 0 {
		return nil, total, &errors.MalformedFrameError{Header: header}
	}
	if length > _maxFrameSize {
		return nil, total, &errors.MalformedFrameError{Header: header, Err: fmt.Errorf("frame exceeds %d bytes", _maxFrameSize)}
	}

	// Skip any further headers up to and including the blank separator line.
	for {
		line, err := s.in.ReadString('\n')
		total += int64(len(line))
		if err != nil {
			return nil, total, err
		}
		if strings.TrimSpace(line) == "" {
			break
		}
	}

	data := make([]byte, length)
	read, err := io.ReadFull(s.in, data)
	total += int64(read)
	if err != nil {
		return nil, total, err
	}

	msg, err := jsonrpc2.DecodeMessage(data)
	if err != nil {
		return nil, total, &errors.MalformedFrameError{Header: header, Err: err}
	}
	return msg, total, nil
}

// readHeaderLine returns the next non-empty line.
func (s *stream) readHeaderLine() (string, int64, error) {
	var total int64
	for {
		line, err := s.in.ReadString('\n')
		total += int64(len(line))
		if err != nil {
			return "", total, err
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, total, nil
		}
	}
}

func (s *stream) Write(ctx context.Context, msg jsonrpc2.Message) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("marshaling message: %w", err)
	}

	// A single write keeps the header and body together on the pipe.
	frame := make([]byte, 0, len(data)+32)
	frame = fmt.Appendf(frame, "%s: %d%s", jsonrpc2.HdrContentLength, len(data), jsonrpc2.HdrContentSeparator)
	frame = append(frame, data...)

	n, err := s.out.Write(frame)
	if err != nil {
		return int64(n), fmt.Errorf("writing to backend: %w", err)
	}
	return int64(n), nil
}

func (s *stream) Close() error {
	return multierr.Append(s.out.Close(), s.inClose.Close())
}
