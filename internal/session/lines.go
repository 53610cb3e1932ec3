package session

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ErrInterrupted is returned by a LineReader when the user interrupts input.
// Like io.EOF it ends the session normally.
var ErrInterrupted = errors.New("interrupted")

// LineReader delivers one trimmed line per call. It returns io.EOF at the
// end of input and ErrInterrupted on interrupt.
type LineReader interface {
	ReadLine() (string, error)
}

// TerminalReader reads lines from an interactive terminal with a prompt and
// in-memory history. The terminal is in raw mode only while a line is read.
type TerminalReader struct {
	fd   int
	term *term.Terminal
}

// NewTerminalReader creates a reader for the terminal behind in, echoing to out.
func NewTerminalReader(in *os.File, out io.Writer, prompt string) *TerminalReader {
	rw := struct {
		io.Reader
		io.Writer
	}{in, out}
	return &TerminalReader{fd: int(in.Fd()), term: term.NewTerminal(rw, prompt)}
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (r *TerminalReader) ReadLine() (string, error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return "", err
	}
	defer term.Restore(r.fd, state)

	// Ctrl-C and Ctrl-D on an empty line both surface as io.EOF.
	line, err := r.term.ReadLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

type scanResult struct {
	line string
	err  error
}

// MaxLineSize is the longest input line a ScannerReader accepts.
const MaxLineSize = 1024 * 1024

// ScannerReader reads lines from a non-interactive source such as a pipe.
// A value received on the interrupt channel ends input with ErrInterrupted.
// Close stops the background reader once the caller is done with it.
type ScannerReader struct {
	results   chan scanResult
	interrupt <-chan os.Signal
	done      chan struct{}
	closeOnce sync.Once
}

// NewScannerReader starts reading r in the background. interrupt may be nil.
func NewScannerReader(r io.Reader, interrupt <-chan os.Signal) *ScannerReader {
	sr := &ScannerReader{
		results:   make(chan scanResult, 1),
		interrupt: interrupt,
		done:      make(chan struct{}),
	}
	go sr.scan(r)
	return sr
}

func (r *ScannerReader) scan(in io.Reader) {
	defer close(r.results)

	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, MaxLineSize)
	for scanner.Scan() {
		if !r.send(scanResult{line: strings.TrimSpace(scanner.Text())}) {
			return
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	r.send(scanResult{err: err})
}

func (r *ScannerReader) send(res scanResult) bool {
	select {
	case r.results <- res:
		return true
	case <-r.done:
		return false
	}
}

func (r *ScannerReader) ReadLine() (string, error) {
	select {
	case <-r.done:
		return "", io.EOF
	default:
	}

	select {
	case res, ok := <-r.results:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	case <-r.interrupt:
		r.Close()
		return "", ErrInterrupted
	}
}

// Close releases the background reader. A goroutine blocked in a read on the
// underlying source exits after that read returns. ReadLine returns io.EOF
// after Close.
func (r *ScannerReader) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}
