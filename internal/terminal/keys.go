package terminal

import (
	"io"

	"github.com/ziadkadry99/storyreel/internal/input"
)

// Action is one decoded keypress.
type Action struct {
	Key   *input.Key
	Press string // control to activate, for Enter
}

// DecodeKeys reads raw terminal bytes from r and sends one Action per
// recognized key until r fails or stop is closed. Bytes of one read
// belong together, so an ESC at the end of a read is the Escape key rather
// than the start of a sequence. Closing stop does not interrupt a Read in
// progress; DecodeKeys returns once that Read does.
func DecodeKeys(r io.Reader, out chan<- Action, active func() string, stop <-chan struct{}) error {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, a := range decode(buf[:n], active) {
			select {
			case out <- a:
			case <-stop:
				return nil
			}
		}
		if err != nil {
			return err
		}
	}
}

func key(name string, shift bool) Action {
	return Action{Key: &input.Key{Name: name, Shift: shift, InsideSurface: true}}
}

func decode(b []byte, active func() string) []Action {
	var actions []Action
	for i := 0; i < len(b); i++ {
		switch c := b[i]; c {
		case 0x1b:
			if i+1 < len(b) && (b[i+1] == '[' || b[i+1] == 'O') {
				final, end := escapeSequence(b, i+1)
				switch final {
				case 'D':
					actions = append(actions, key(input.KeyArrowLeft, false))
				case 'C':
					actions = append(actions, key(input.KeyArrowRight, false))
				case 'Z':
					actions = append(actions, key(input.KeyTab, true))
				}
				i = end
				continue
			}
			actions = append(actions, key(input.KeyEscape, false))
		case ' ':
			actions = append(actions, key(input.KeySpace, false))
		case '\t':
			actions = append(actions, key(input.KeyTab, false))
		case 'h':
			actions = append(actions, key(input.KeyArrowLeft, false))
		case 'l':
			actions = append(actions, key(input.KeyArrowRight, false))
		case 'q', 0x03: // q or Ctrl-C
			actions = append(actions, key(input.KeyEscape, false))
		case '\r', '\n':
			if id := active(); id != "" {
				actions = append(actions, Action{Press: id})
			}
		}
	}
	return actions
}

// escapeSequence scans the CSI or SS3 sequence whose introducer is at b[i]
// and returns its final byte and index. CSI carries parameter bytes before
// the final byte, as in ESC [ 1 ; 5 C; SS3 is always ESC O plus one byte.
// A truncated sequence yields final 0 and consumes the rest of b.
func escapeSequence(b []byte, i int) (final byte, end int) {
	if b[i] == 'O' {
		if i+1 < len(b) {
			return b[i+1], i + 1
		}
		return 0, i
	}
	for j := i + 1; j < len(b); j++ {
		if b[j] >= 0x40 && b[j] <= 0x7e {
			return b[j], j
		}
	}
	return 0, len(b) - 1
}
