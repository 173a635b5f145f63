package parser

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/logsentry/internal/model"
	"github.com/hejijunhao/logsentry/internal/testdata"
)

func TestParseFileSyslog(t *testing.T) {
	path := writeSample(t, "auth.log", testdata.AuthLog)

	res, err := ParseFile(path, model.FormatUnknown, Options{})
	require.NoError(t, err)
	assert.Equal(t, model.FormatSyslog, res.Format)
	assert.Len(t, res.Entries, 9)
}

func TestParseFileCSVByExtension(t *testing.T) {
	path := writeSample(t, "export.csv", testdata.ExportCSV)

	res, err := ParseFile(path, model.FormatUnknown, Options{})
	require.NoError(t, err)
	assert.Equal(t, model.FormatCSV, res.Format)
	assert.Len(t, res.Entries, 3)
}

func TestParseIsIdempotent(t *testing.T) {
	path := writeSample(t, "auth.log", testdata.AuthLog)
	p := New(Options{})
	require.NoError(t, p.Load(path))

	first, err := p.Parse(model.FormatUnknown)
	require.NoError(t, err)
	second, err := p.Parse(model.FormatUnknown)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	again, err := ParseFile(path, model.FormatUnknown, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestParseUnknownFormat(t *testing.T) {
	path := writeSample(t, "notes.txt", "Dear diary,\nnothing happened today.\n")

	res, err := ParseFile(path, model.FormatUnknown, Options{})
	var fe *FormatError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Equal(t, model.FormatUnknown, fe.Format)
	assert.Empty(t, res.Entries)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.log")

	_, err := ParseFile(missing, model.FormatUnknown, Options{})
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Equal(t, missing, ioErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), missing)
}

func TestLoadGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(testdata.AuthLog))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := writeSample(t, "auth.log.gz", buf.String())
	res, err := ParseFile(path, model.FormatUnknown, Options{})
	require.NoError(t, err)
	assert.Len(t, res.Entries, 9)
}

func TestLoadUTF16WithBOM(t *testing.T) {
	units := utf16.Encode([]rune(testdata.SecurityXML))
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFE})
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, units))

	path := writeSample(t, "security.xml", buf.String())
	p := New(Options{})
	require.NoError(t, p.Load(path))
	assert.Equal(t, model.FormatWindowsEvent, p.Detect())

	res, err := p.Parse(model.FormatUnknown)
	require.NoError(t, err)
	assert.Len(t, res.Entries, 3)
}

func TestLoadStripsUTF8BOM(t *testing.T) {
	path := writeSample(t, "export.csv", "\xEF\xBB\xBFdate,computer,app,details\n2024,h,s,m\n")
	res, err := ParseFile(path, model.FormatUnknown, Options{})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "2024", res.Entries[0].Timestamp)
}

func TestLoadContent(t *testing.T) {
	p := New(Options{})
	p.LoadContent("", "Mar 10 10:00:00 host1 sshd[1]: hello")
	assert.Equal(t, model.FormatSyslog, p.Detect())

	res, err := p.Parse(model.FormatUnknown)
	require.NoError(t, err)
	assert.Len(t, res.Entries, 1)
}

func TestFormatsRegistered(t *testing.T) {
	assert.Equal(t, []model.Format{model.FormatSyslog, model.FormatWindowsEvent, model.FormatCSV}, Formats())

	_, err := Get(model.FormatUnknown)
	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path, err := testdata.WriteFile(t.TempDir(), name, content)
	require.NoError(t, err)
	return path
}
