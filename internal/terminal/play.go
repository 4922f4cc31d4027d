package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/ziadkadry99/storyreel/internal/input"
	"github.com/ziadkadry99/storyreel/internal/presentation"
)

// Play runs a presentation of markup on the terminal attached to in and
// out until it is closed or ctx ends. It returns the index of the last
// slide shown and the slide count.
func Play(ctx context.Context, markup string, in *os.File, out io.Writer, opts ...presentation.Option) (last, count int, err error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, fmt.Errorf("stdin is not a terminal")
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = 80
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return 0, 0, fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	io.WriteString(out, "\x1b[?25l")
	defer io.WriteString(out, "\x1b[?25h\r\n")

	return Run(ctx, markup, in, NewHost(out, width), opts...)
}

// Run drives a presentation on host from raw key bytes read from keys.
//
// Keys are read on a separate goroutine. When keys has a read deadline, as
// pipes and network connections do, Run expires it on return so the reader
// exits. Otherwise the reader stays blocked in Read until the next byte or
// EOF, and the caller owns closing keys.
func Run(ctx context.Context, markup string, keys io.Reader, host *Host, opts ...presentation.Option) (last, count int, err error) {
	done := make(chan struct{})
	p := presentation.Open(markup, host, func() { close(done) }, opts...)
	defer p.Close()

	actions := make(chan Action)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	if d, ok := keys.(interface{ SetReadDeadline(time.Time) error }); ok {
		defer d.SetReadDeadline(time.Now())
	}
	go func() { readErr <- DecodeKeys(keys, actions, host.ActiveElement, stop) }()

	for {
		select {
		case <-ctx.Done():
			st := p.Controller().State()
			return st.Index, st.Count, ctx.Err()
		case <-done:
			st := p.Controller().State()
			return st.Index, st.Count, nil
		case err := <-readErr:
			st := p.Controller().State()
			if err == io.EOF {
				err = nil
			}
			return st.Index, st.Count, err
		case a := <-actions:
			if a.Press != "" {
				p.Dispatch(input.Button{Name: a.Press})
			} else if a.Key != nil {
				p.Dispatch(*a.Key)
			}
		}
	}
}
