package session_test

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/jroosing/zonegen/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerReader_TrimsLines(t *testing.T) {
	r := session.NewScannerReader(strings.NewReader("help\n  send  \n\nquit"), nil)

	var got []string
	for {
		line, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, line)
	}
	assert.Equal(t, []string{"help", "send", "", "quit"}, got)

	_, err := r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestScannerReader_Interrupt(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	interrupt := make(chan os.Signal, 1)
	interrupt <- syscall.SIGINT

	r := session.NewScannerReader(pr, interrupt)
	_, err := r.ReadLine()
	assert.ErrorIs(t, err, session.ErrInterrupted)
}

func TestScannerReader_LongLines(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"default scanner limit", 64 * 1024},
		{"well past the default limit", 200 * 1024},
		{"half the maximum", session.MaxLineSize / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Repeat("a", tt.size)
			r := session.NewScannerReader(strings.NewReader("add x.example.org. 60 IN TXT "+data+"\nquit\n"), nil)
			defer r.Close()

			line, err := r.ReadLine()
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(line, data))

			line, err = r.ReadLine()
			require.NoError(t, err)
			assert.Equal(t, "quit", line)
		})
	}
}

func TestScannerReader_LineTooLong(t *testing.T) {
	r := session.NewScannerReader(strings.NewReader(strings.Repeat("a", session.MaxLineSize+1)+"\n"), nil)
	defer r.Close()

	_, err := r.ReadLine()
	assert.ErrorIs(t, err, bufio.ErrTooLong)
}

func TestScannerReader_Close(t *testing.T) {
	r := session.NewScannerReader(strings.NewReader("help\nsend\nquit\n"), nil)

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "help", line)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}
