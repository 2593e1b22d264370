// Package export renders the stored package graph into portable documents.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"codeatlas/internal/model"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML, FormatTOML:
		return Format(s), nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (json, yaml, toml)", s)
	}
}

// Options controls one export.
type Options struct {
	Format   Format
	Compress bool
}

// Document is the exported envelope around the graph.
type Document struct {
	Generated    string              `json:"generated" yaml:"generated" toml:"generated"`
	PackageCount int                 `json:"packageCount" yaml:"packageCount" toml:"packageCount"`
	Packages     []model.PackageView `json:"packages" yaml:"packages" toml:"packages"`
}

// Write encodes the graph to w in the selected format, optionally wrapped
// in a zstd stream.
func Write(w io.Writer, views []model.PackageView, opts Options) error {
	doc := Document{
		Generated:    time.Now().UTC().Format(time.RFC3339),
		PackageCount: len(views),
		Packages:     views,
	}

	out := w
	var enc *zstd.Encoder
	if opts.Compress {
		var err error
		enc, err = zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to open compressed stream: %w", err)
		}
		out = enc
	}

	if err := encode(out, doc, opts.Format); err != nil {
		if enc != nil {
			_ = enc.Close()
		}
		return err
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to finish compressed stream: %w", err)
		}
	}
	return nil
}

// Read decodes a document previously produced by Write. Compression is
// detected from the zstd magic bytes, so callers need not remember whether
// an export was compressed.
func Read(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	if isZstd(data) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, fmt.Errorf("failed to decompress export: %w", err)
		}
	}

	var doc Document
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	return &doc, nil
}

func encode(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func isZstd(data []byte) bool {
	if len(data) < len(zstdMagic) {
		return false
	}
	for i, b := range zstdMagic {
		if data[i] != b {
			return false
		}
	}
	return true
}
