package parser

import (
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/hejijunhao/logsentry/internal/model"
)

// Parser loads one source fully into memory and extracts entries from it.
// A Parser holds no state between Parse calls, so parsing the same content
// twice yields identical results.
type Parser struct {
	opts    Options
	path    string
	content string
}

// New creates a Parser with the given options.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Load reads the file at path. Gzip-compressed files (".gz") are inflated.
// UTF-16 exports with a byte-order mark are transcoded to UTF-8 and the text
// is NFC-normalized so keyword matching sees one spelling per character.
func (p *Parser) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return &IOError{Path: path, Err: err}
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	content, err := decode(data)
	if err != nil {
		return &IOError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	p.path = path
	p.content = content
	slog.Debug("loaded log source", "path", path, "bytes", len(data))
	return nil
}

// LoadContent uses content directly. name is only used for extension-based
// format selection and may be empty.
func (p *Parser) LoadContent(name, content string) {
	p.path = name
	p.content = norm.NFC.String(content)
}

// Content returns the loaded text.
func (p *Parser) Content() string {
	return p.content
}

// Path returns the name of the loaded source.
func (p *Parser) Path() string {
	return p.path
}

// Detect classifies the loaded content. See Detect.
func (p *Parser) Detect() model.Format {
	return Detect(p.content)
}

// Parse extracts entries using format, or resolves the format from the file
// extension and content when format is FormatUnknown. It fails only for
// unsupported content or an unusable CSV header; individual bad records are
// reported in Result.Skipped.
func (p *Parser) Parse(format model.Format) (Result, error) {
	resolved := Resolve(format, p.path, p.content)
	if resolved == model.FormatUnknown {
		return Result{}, &FormatError{Reason: "content matches neither Windows-Event XML nor syslog layout"}
	}

	ctor, err := Get(resolved)
	if err != nil {
		return Result{}, err
	}
	res, err := ctor(p.opts).Extract(p.content)
	if err != nil {
		return res, err
	}

	slog.Info("parsed log source",
		"path", p.path,
		"format", resolved.String(),
		"records", res.Stats.Records,
		"parsed", res.Stats.Parsed,
		"skipped", res.Stats.Skipped)
	return res, nil
}

// ParseFile loads and parses path in one call.
func ParseFile(path string, format model.Format, opts Options) (Result, error) {
	p := New(opts)
	if err := p.Load(path); err != nil {
		return Result{}, err
	}
	return p.Parse(format)
}

// decode converts raw bytes to normalized UTF-8 text, honouring a UTF-8 or
// UTF-16 byte-order mark. Invalid UTF-8 sequences become U+FFFD.
func decode(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", err
	}
	return norm.NFC.String(string(out)), nil
}
