// Package verify implements C7: parsing checksum files and dispatching
// per-line verification through the same pipeline shape C6 uses (spec.md
// §4.7). The producer here is "read checksum lines" instead of "walk
// directories"; the worker action is "recompute and compare" instead of
// "compute and emit".
package verify

import (
	"bufio"
	"crypto/subtle"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/lordmulder/sponge-hash-aes256/internal/cancel"
	"github.com/lordmulder/sponge-hash-aes256/internal/digestio"
	"github.com/lordmulder/sponge-hash-aes256/internal/itemerr"
	"github.com/lordmulder/sponge-hash-aes256/spongehash"
)

// Record is one parsed checksum-file line: the expected digest and the
// target file name it describes.
type Record struct {
	Expected []byte
	Name     string
}

// LineItem is what the verifier's producer sends into the pipeline: either
// a successfully parsed Record, or a parse/IO error tied to the checksum
// file and line number it came from.
type LineItem struct {
	Record Record
	Err    *itemerr.Error
}

// ParseLines reads checksum records from r (one checksum file, or stdin),
// sourcePath naming it for error messages, sending one LineItem per
// record or per malformed line to out. Blank lines and lines consisting
// only of leading whitespace followed by nothing are ignored; leading
// whitespace before the digest is ignored (spec.md §9's description of the
// reference tokenizer — any single ASCII whitespace byte separates the
// digest from the name, and no filename escaping is implemented).
func ParseLines(r io.Reader, sourcePath string, out chan<- LineItem, stop func() bool) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if stop != nil && stop() {
			return
		}
		line := scanner.Text()
		rec, ok := parseLine(line)
		if line == "" || strings.TrimSpace(line) == "" {
			continue
		}
		if !ok {
			out <- LineItem{Err: itemerr.NewParse(sourcePath, lineNo, errMalformed)}
			continue
		}
		out <- LineItem{Record: rec}
	}
	if err := scanner.Err(); err != nil {
		out <- LineItem{Err: itemerr.New(itemerr.ChksumFileRead, sourcePath, err)}
	}
}

var errMalformed = &malformedError{}

type malformedError struct{}

func (*malformedError) Error() string { return "malformed checksum record" }

// parseLine implements the grammar from spec.md §4.7:
//
//	<hex-digest> <sp> <filename>
//
// where <sp> is any single ASCII whitespace byte, leading whitespace on the
// line is trimmed first, and <filename> is the remainder of the line
// (which may itself contain internal spaces).
func parseLine(line string) (Record, bool) {
	trimmed := strings.TrimLeft(line, " \t\v\f\r")
	if trimmed == "" {
		return Record{}, false
	}

	idx := strings.IndexAny(trimmed, " \t\v\f\r")
	if idx <= 0 || idx == len(trimmed)-1 {
		return Record{}, false
	}

	hexDigest := trimmed[:idx]
	name := trimmed[idx+1:]
	if name == "" {
		return Record{}, false
	}
	if len(hexDigest)%2 != 0 {
		return Record{}, false
	}
	digest, err := hex.DecodeString(hexDigest)
	if err != nil {
		return Record{}, false
	}
	if len(digest) < 1 || len(digest) > spongehash.MaxDigestSize {
		return Record{}, false
	}

	return Record{Expected: digest, Name: name}, true
}

// OpenChecksumSource opens one checksum file named by path for reading,
// translating open failures into the Chksum* taxonomy (spec.md §7). path
// may be "-" to mean stdin, which is never itself an error to "open".
func OpenChecksumSource(path string) (io.ReadCloser, *itemerr.Error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, itemerr.New(itemerr.ChksumNotFound, path, err)
	}
	if info.IsDir() {
		return nil, itemerr.New(itemerr.ChksumObjIsDir, path, nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, itemerr.New(itemerr.ChksumFileOpen, path, err)
	}
	return f, nil
}

// Outcome is one verification outcome: either a comparison result (match or
// mismatch) or an I/O error opening/reading the target file. Per spec.md
// §4.7, a mismatch never stops a keep_going=false run by itself — only an
// I/O error does — so callers branch on Err and Matched directly rather
// than through a derived "should this stop the run" method.
type Outcome struct {
	Name    string
	Matched bool
	Err     *itemerr.Error
}

// Verify recomputes the digest of the file named by rec.Record.Name (using
// mode, snail, and info exactly as the user requested on the command line —
// -c does not conflict with -s/-i, per spec.md §6 — and the shared
// cancellation flag) and compares it, in constant-time-over-length fashion,
// against rec.Record.Expected. The digest length used is per-record —
// rec.Record.Expected's length, not a global default (spec.md §4.7).
func Verify(rec LineItem, mode digestio.Mode, snail spongehash.SnailLevel, info []byte, flag *cancel.Flag) Outcome {
	if rec.Err != nil {
		return Outcome{Name: rec.Record.Name, Err: rec.Err}
	}

	name := rec.Record.Name
	stat, statErr := os.Lstat(name)
	if statErr != nil {
		return Outcome{Name: name, Err: itemerr.New(itemerr.TargetNotFound, name, statErr)}
	}
	if stat.IsDir() {
		return Outcome{Name: name, Err: itemerr.New(itemerr.TargetObjIsDir, name, nil)}
	}

	got := make([]byte, len(rec.Record.Expected))
	if err := digestio.DigestFile(got, snail, info, name, mode, flag); err != nil {
		kind := itemerr.TargetFileRead
		if os.IsNotExist(err) {
			kind = itemerr.TargetNotFound
		} else if os.IsPermission(err) {
			kind = itemerr.TargetFileOpen
		}
		return Outcome{Name: name, Err: itemerr.New(kind, name, err)}
	}

	match := subtle.ConstantTimeCompare(got, rec.Record.Expected) == 1
	return Outcome{Name: name, Matched: match}
}
