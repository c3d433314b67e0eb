package decode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/srf-tools/microphonics/internal/model"
)

// CommentPrefix marks header and comment lines in a data file.
const CommentPrefix = "#"

// DecimationKey is the header entry recording the chassis decimation.
const DecimationKey = "wave_samp_per"

// maxLineSize bounds a single line read from a data file.
const maxLineSize = 1 << 20

// Header is the comment block at the top of a data file, one entry per line
// with the comment marker kept.
type Header []string

// Value looks up a "# key: value" or "# key = value" line. Keys compare
// case-insensitively; the first match wins.
func (h Header) Value(key string) (string, bool) {
	for _, line := range h {
		body := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), CommentPrefix))
		sep := strings.IndexAny(body, ":=")
		if sep < 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(body[:sep]), key) {
			return strings.TrimSpace(body[sep+1:]), true
		}
	}
	return "", false
}

// Decimation returns the positive decimation recorded under DecimationKey.
func (h Header) Decimation() (int, bool) {
	v, ok := h.Value(DecimationKey)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// SplitHeader reads r and separates the leading comment block from the data
// lines. Blank lines are dropped wherever they appear, so only records reach
// the decoder.
func SplitHeader(r io.Reader) (Header, []string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var header Header
	var lines []string
	inData := false
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !inData && strings.HasPrefix(trimmed, CommentPrefix) {
			header = append(header, line)
			continue
		}
		inData = true
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read data: %w", err)
	}
	return header, lines, nil
}

// Read decodes a complete data stream into a dataset.
func Read(r io.Reader) (*model.Dataset, error) {
	header, lines, err := SplitHeader(r)
	if err != nil {
		return nil, err
	}
	channels, err := ParseChannels(lines)
	if err != nil {
		return nil, err
	}
	return &model.Dataset{
		Header:   header,
		Records:  len(lines),
		Channels: channels,
	}, nil
}

// Load opens and decodes the data file at path.
func Load(path string) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	ds.Source = path
	ds.Cavities = model.ChannelCavities(path)
	return ds, nil
}
