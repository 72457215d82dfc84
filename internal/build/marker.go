package build

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

const markerHeader = "bfgo-project v1"

// Marker records what a generated project was built from. Each line of the
// marker file is `<name> <hash>`, the same shape as go.sum entries.
type Marker struct {
	Source     string // source file name
	SourceHash string
	MainHash   string
}

// HashBytes returns the h1: hash of content: base64 of its SHA-256 after
// normalizing line endings.
func HashBytes(content []byte) string {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	sum := sha256.Sum256(content)
	return "h1:" + base64.StdEncoding.EncodeToString(sum[:])
}

// Bytes renders the marker file.
func (m Marker) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(markerHeader + "\n")
	fmt.Fprintf(&buf, "%s %s\n", m.Source, m.SourceHash)
	fmt.Fprintf(&buf, "%s %s\n", MainFile, m.MainHash)
	return buf.Bytes()
}

// ParseMarker parses a marker file.
func ParseMarker(data []byte) (Marker, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	if !sc.Scan() || sc.Text() != markerHeader {
		return Marker{}, fmt.Errorf("marker: missing %q header", markerHeader)
	}

	var m Marker
	var lines int
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		name, hash, ok := strings.Cut(line, " ")
		if !ok || !strings.HasPrefix(hash, "h1:") {
			return Marker{}, fmt.Errorf("marker: malformed line %q", line)
		}
		switch lines {
		case 0:
			m.Source, m.SourceHash = name, hash
		case 1:
			if name != MainFile {
				return Marker{}, fmt.Errorf("marker: expected %s entry, got %q", MainFile, name)
			}
			m.MainHash = hash
		default:
			return Marker{}, fmt.Errorf("marker: unexpected line %q", line)
		}
		lines++
	}
	if err := sc.Err(); err != nil {
		return Marker{}, err
	}
	if lines != 2 {
		return Marker{}, fmt.Errorf("marker: expected 2 entries, got %d", lines)
	}
	return m, nil
}
