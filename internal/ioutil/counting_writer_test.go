package ioutil_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ghettovoice/gomailto/internal/ioutil"
)

var errWrite = errors.New("write failed")

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errWrite }

func TestCountingWriter(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	cw := ioutil.NewCountingWriter(&sb)
	cw.Write([]byte("abc"))       //nolint:errcheck
	cw.WriteString("def")         //nolint:errcheck
	cw.Fprint("g", "h")           //nolint:errcheck
	cw.Call(func(w io.Writer) (int, error) {
		return io.WriteString(w, "ij")
	})

	num, err := cw.Result()
	if err != nil {
		t.Fatalf("Result() error = %v, want nil", err)
	}
	if want := len("abcdefghij"); num != want {
		t.Errorf("Result() num = %d, want %d", num, want)
	}
	if got, want := sb.String(), "abcdefghij"; got != want {
		t.Errorf("written = %q, want %q", got, want)
	}
}

func TestCountingWriter_stickyError(t *testing.T) {
	t.Parallel()

	cw := ioutil.NewCountingWriter(failWriter{})
	if _, err := cw.WriteString("abc"); !errors.Is(err, errWrite) {
		t.Fatalf("WriteString() error = %v, want %v", err, errWrite)
	}
	// subsequent writes are suppressed once an error is recorded
	if n, _ := cw.Write([]byte("def")); n != 0 {
		t.Errorf("Write() after error n = %d, want 0", n)
	}
	if _, err := cw.Result(); !errors.Is(err, errWrite) {
		t.Errorf("Result() error = %v, want %v", err, errWrite)
	}
}

func TestCountingWriterPool(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	cw := ioutil.GetCountingWriter(&sb)
	cw.Fprint("xyz") //nolint:errcheck
	if num, err := cw.Result(); err != nil || num != 3 {
		t.Errorf("Result() = (%d, %v), want (3, nil)", num, err)
	}
	ioutil.FreeCountingWriter(cw)

	cw = ioutil.GetCountingWriter(io.Discard)
	if num, err := cw.Result(); err != nil || num != 0 {
		t.Errorf("Result() on reused writer = (%d, %v), want (0, nil)", num, err)
	}
	ioutil.FreeCountingWriter(cw)
}
