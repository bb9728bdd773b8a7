package goBroker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ChallengeReader obtains one out-of-band response code from the operator.
// The client blocks on ReadCode while a device challenge or MFA prompt is
// pending; implementations must honor ctx so a stuck operator cannot hang
// a login forever. Retry policy does not live here — the state machine
// decides whether to re-prompt.
type ChallengeReader interface {
	ReadCode(ctx context.Context, prompt string) (string, error)
}

// IOChallengeReader reads one whitespace-trimmed line per code from an
// io.Reader, writing the prompt to an io.Writer first.
//
// The underlying read cannot be interrupted once started: when ctx
// expires, ReadCode returns immediately but the pending read keeps the
// next input line, which is then discarded. Acceptable for terminal use;
// callers needing stricter semantics supply their own ChallengeReader.
type IOChallengeReader struct {
	out io.Writer

	mu    sync.Mutex
	lines *bufio.Scanner
}

var _ ChallengeReader = (*IOChallengeReader)(nil)

// NewIOChallengeReader builds a reader over r, prompting on w.
func NewIOChallengeReader(r io.Reader, w io.Writer) *IOChallengeReader {
	return &IOChallengeReader{
		out:   w,
		lines: bufio.NewScanner(r),
	}
}

// NewStdinChallengeReader prompts on stderr and reads codes from stdin.
// This is the default when no reader is injected through the builder.
func NewStdinChallengeReader() *IOChallengeReader {
	return NewIOChallengeReader(os.Stdin, os.Stderr)
}

type readResult struct {
	code string
	err  error
}

// ReadCode prints the prompt and blocks for one line of input, trimmed of
// surrounding whitespace.
func (r *IOChallengeReader) ReadCode(ctx context.Context, prompt string) (string, error) {
	if r.out != nil {
		fmt.Fprintf(r.out, "%s: ", prompt)
	}

	ch := make(chan readResult, 1)
	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if !r.lines.Scan() {
			err := r.lines.Err()
			if err == nil {
				err = io.EOF
			}
			ch <- readResult{err: err}
			return
		}
		ch <- readResult{code: strings.TrimSpace(r.lines.Text())}
	}()

	select {
	case res := <-ch:
		return res.code, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
