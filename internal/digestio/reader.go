// Package digestio implements C4: reading a byte source (file or stdin) in
// binary or text mode into a spongehash.Hash, honoring the shared
// cancellation flag between every read (binary mode) or every line (text
// mode).
package digestio

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/lordmulder/sponge-hash-aes256/internal/cancel"
	"github.com/lordmulder/sponge-hash-aes256/spongehash"
)

// bufferSize is the binary-mode read chunk size; spec.md §4.4 suggests 8
// KiB on 64-bit platforms. This module targets 64-bit-dominant deployment
// the same way the rest of the corpus does, so a single constant is used
// rather than a build-tag-selected 4 KiB/8 KiB split.
const bufferSize = 8192

// ErrCancelled is returned when the shared cancellation flag is observed to
// have left the Running state mid-read.
var ErrCancelled = errors.New("digestio: cancelled")

// stdinMu is the process-wide exclusive mutex around stdin reads (spec.md
// §4.4 "Stdin locking", §5 "Shared resources": "there is exactly one stdin
// stream per process").
var stdinMu sync.Mutex

// Mode selects binary or text input processing.
type Mode int

const (
	Binary Mode = iota
	Text
)

// HashReader feeds r into h, polling flag for cancellation between reads
// (Binary) or between lines (Text). HashReader takes no lock itself;
// DigestStdin below is the entry point that reads os.Stdin under the
// process-wide stdin mutex.
func HashReader(h *spongehash.Hash, r io.Reader, mode Mode, flag *cancel.Flag) error {
	if mode == Text {
		return hashText(h, r, flag)
	}
	return hashBinary(h, r, flag)
}

func hashBinary(h *spongehash.Hash, r io.Reader, flag *cancel.Flag) error {
	buf := make([]byte, bufferSize)
	for {
		if !flag.Running() {
			return ErrCancelled
		}
		n, err := r.Read(buf)
		if n > 0 {
			h.Update(buf[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// hashText splits the input into lines on any platform line terminator
// (\n, \r\n, or \r) and absorbs each line's bytes followed by a literal
// '\n' between lines; no terminator is appended after the final line
// (spec.md §4.3/§4.4).
func hashText(h *spongehash.Hash, r io.Reader, flag *cancel.Flag) error {
	br := bufio.NewReaderSize(r, bufferSize)
	first := true

	for {
		if !flag.Running() {
			return ErrCancelled
		}

		line, err := readLine(br)
		if len(line) > 0 || err == nil {
			if !first {
				h.Update([]byte{'\n'})
			}
			h.Update(line)
			first = false
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readLine reads up to (and consuming) the next line terminator, returning
// the line's bytes without the terminator. It treats \r, \n, and \r\n all
// as a single line boundary. It returns io.EOF only once the final,
// unterminated fragment (if any) has already been returned; an empty
// trailing fragment after a terminator yields io.EOF with a nil line. A read
// error other than io.EOF is returned together with the bytes read before it.
func readLine(br *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err != io.EOF {
				return line, err
			}
			if len(line) == 0 {
				return nil, io.EOF
			}
			return line, nil
		}
		if b == '\n' {
			return line, nil
		}
		if b == '\r' {
			next, err := br.Peek(1)
			if err == nil && len(next) == 1 && next[0] == '\n' {
				_, _ = br.Discard(1)
			}
			return line, nil
		}
		line = append(line, b)
	}
}

// DigestFile opens path, hashes it according to mode, and writes the digest
// into out. It gives "-" no special meaning; standard input is hashed with
// DigestStdin, which holds the process-wide stdin mutex (spec.md §4.4).
func DigestFile(out []byte, level spongehash.SnailLevel, info []byte, path string, mode Mode, flag *cancel.Flag) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h := spongehash.New(level, info)
	if err := HashReader(h, f, mode, flag); err != nil {
		return err
	}
	h.DigestTo(out)
	return nil
}

// DigestStdin hashes os.Stdin under the process-wide stdin mutex.
func DigestStdin(out []byte, level spongehash.SnailLevel, info []byte, mode Mode, flag *cancel.Flag) error {
	stdinMu.Lock()
	defer stdinMu.Unlock()

	h := spongehash.New(level, info)
	if err := HashReader(h, os.Stdin, mode, flag); err != nil {
		return err
	}
	h.DigestTo(out)
	return nil
}
