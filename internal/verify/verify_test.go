package verify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lordmulder/sponge-hash-aes256/internal/cancel"
	"github.com/lordmulder/sponge-hash-aes256/internal/digestio"
	"github.com/lordmulder/sponge-hash-aes256/spongehash"
)

func TestParseLineValid(t *testing.T) {
	rec, ok := parseLine("deadbeef  my file.txt")
	require.True(t, ok)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, rec.Expected)
	require.Equal(t, " my file.txt", rec.Name)
}

func TestParseLineLeadingWhitespaceTrimmed(t *testing.T) {
	rec, ok := parseLine("   deadbeef file.txt")
	require.True(t, ok)
	require.Equal(t, "file.txt", rec.Name)
}

func TestParseLineRejectsOddHexLength(t *testing.T) {
	_, ok := parseLine("abc file.txt")
	require.False(t, ok)
}

func TestParseLineRejectsMissingName(t *testing.T) {
	_, ok := parseLine("deadbeef ")
	require.False(t, ok)
	_, ok = parseLine("deadbeef")
	require.False(t, ok)
}

func TestParseLinesSkipsBlankLines(t *testing.T) {
	r := strings.NewReader("deadbeef a.txt\n\n   \ndeadbeef b.txt\n")
	out := make(chan LineItem, 8)
	ParseLines(r, "check.txt", out, nil)
	close(out)

	var items []LineItem
	for item := range out {
		items = append(items, item)
	}
	require.Len(t, items, 2)
	require.Equal(t, "a.txt", items[0].Record.Name)
	require.Equal(t, "b.txt", items[1].Record.Name)
}

func TestParseLinesReportsMalformed(t *testing.T) {
	r := strings.NewReader("not a valid line\n")
	out := make(chan LineItem, 8)
	ParseLines(r, "check.txt", out, nil)
	close(out)

	item := <-out
	require.NotNil(t, item.Err)
	require.Equal(t, 1, item.Err.Line)
}

func TestVerifierInverseRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello verifier"), 0o644))

	digest := make([]byte, spongehash.DefaultDigestSize)
	var flag cancel.Flag
	require.NoError(t, digestio.DigestFile(digest, spongehash.Level0, nil, path, digestio.Binary, &flag))

	rec := LineItem{Record: Record{Expected: digest, Name: path}}
	outcome := Verify(rec, digestio.Binary, spongehash.Level0, nil, &flag)
	require.Nil(t, outcome.Err)
	require.True(t, outcome.Matched)
}

func TestVerifierDetectsMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello verifier"), 0o644))

	wrongDigest := make([]byte, spongehash.DefaultDigestSize)
	rec := LineItem{Record: Record{Expected: wrongDigest, Name: path}}

	var flag cancel.Flag
	outcome := Verify(rec, digestio.Binary, spongehash.Level0, nil, &flag)
	require.Nil(t, outcome.Err)
	require.False(t, outcome.Matched)
}

func TestVerifierTargetNotFound(t *testing.T) {
	rec := LineItem{Record: Record{Expected: make([]byte, 8), Name: "/no/such/file"}}
	var flag cancel.Flag
	outcome := Verify(rec, digestio.Binary, spongehash.Level0, nil, &flag)
	require.NotNil(t, outcome.Err)
}
