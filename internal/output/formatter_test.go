package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteRecordDefault(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, Options{})
	require.NoError(t, f.WriteRecord([]byte{0xde, 0xad}, "file.txt"))
	require.NoError(t, f.Flush())
	require.Equal(t, "dead file.txt\n", buf.String())
}

func TestWriteRecordPlain(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, Options{Plain: true})
	require.NoError(t, f.WriteRecord([]byte{0xbe, 0xef}, "file.txt"))
	require.NoError(t, f.Flush())
	require.Equal(t, "beef\n", buf.String())
}

func TestWriteRecordNull(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, Options{Null: true})
	require.NoError(t, f.WriteRecord([]byte{0xaa}, "f"))
	require.NoError(t, f.Flush())
	require.Equal(t, "aa f\x00", buf.String())
}

func TestWriteRecordNullPlain(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, Options{Null: true, Plain: true})
	require.NoError(t, f.WriteRecord([]byte{0xaa}, "f"))
	require.NoError(t, f.Flush())
	require.Equal(t, "aa\x00", buf.String())
}

func TestWriteStatus(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, Options{})
	require.NoError(t, f.WriteStatus("a.txt", true))
	require.NoError(t, f.WriteStatus("b.txt", false))
	require.NoError(t, f.Flush())
	require.Equal(t, "a.txt: OK\nb.txt: FAILED\n", buf.String())
}
