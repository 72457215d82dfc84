package bf

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Segment kinds in the nested-record form.
const (
	KindExecutable = "executable"
	KindLoop       = "loop"
)

// FileRecord is the plain nested-record form of a File, used for AST dumps.
type FileRecord struct {
	NeedsInput bool            `json:"needs_input" yaml:"needs_input"`
	Segments   []SegmentRecord `json:"segments" yaml:"segments"`
}

// SegmentRecord is one segment. Tokens is set for executable segments and
// Body for loops.
type SegmentRecord struct {
	Kind   string          `json:"kind" yaml:"kind"`
	Tokens []TokenRecord   `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Body   []SegmentRecord `json:"body,omitempty" yaml:"body,omitempty"`
}

// TokenRecord is one token. Count is zero for a bare instruction and the
// repeat count for a Repeated token.
type TokenRecord struct {
	Op    string `json:"op" yaml:"op"`
	Count int    `json:"count,omitempty" yaml:"count,omitempty"`
}

// Encode converts f to its nested-record form.
func Encode(f *File) FileRecord {
	return FileRecord{
		NeedsInput: f.NeedsInput,
		Segments:   encodeSegments(f.Segments),
	}
}

func encodeSegments(segments []Segment) []SegmentRecord {
	out := make([]SegmentRecord, 0, len(segments))
	for _, seg := range segments {
		switch s := seg.(type) {
		case *Executable:
			rec := SegmentRecord{Kind: KindExecutable}
			for _, t := range s.Tokens {
				rec.Tokens = append(rec.Tokens, encodeToken(t))
			}
			out = append(out, rec)
		case *Loop:
			out = append(out, SegmentRecord{Kind: KindLoop, Body: encodeSegments(s.Body)})
		}
	}
	return out
}

func encodeToken(u Unit) TokenRecord {
	rec := TokenRecord{Op: string(u.Instruction().Byte())}
	if r, ok := u.(Repeated); ok {
		rec.Count = r.N
	}
	return rec
}

// Decode rebuilds a File from its nested-record form. NeedsInput is
// recomputed from the decoded segments and must agree with the record.
func Decode(rec FileRecord) (*File, error) {
	segments, err := decodeSegments(rec.Segments, "segments")
	if err != nil {
		return nil, err
	}
	reads := needsInput(Flatten(segments))
	if reads != rec.NeedsInput {
		return nil, fmt.Errorf("needs_input is %t but the segments %s", rec.NeedsInput, readsPhrase(reads))
	}
	return &File{Segments: segments, NeedsInput: reads}, nil
}

func readsPhrase(reads bool) string {
	if reads {
		return "contain a read"
	}
	return "contain no read"
}

func decodeSegments(recs []SegmentRecord, path string) ([]Segment, error) {
	var out []Segment
	for i, rec := range recs {
		where := fmt.Sprintf("%s[%d]", path, i)
		switch rec.Kind {
		case KindExecutable:
			if len(rec.Body) > 0 {
				return nil, fmt.Errorf("%s: executable segment has a body", where)
			}
			exec := &Executable{}
			for j, tr := range rec.Tokens {
				u, err := decodeToken(tr)
				if err != nil {
					return nil, fmt.Errorf("%s.tokens[%d]: %w", where, j, err)
				}
				exec.Tokens = append(exec.Tokens, u)
			}
			out = append(out, exec)
		case KindLoop:
			if len(rec.Tokens) > 0 {
				return nil, fmt.Errorf("%s: loop segment has tokens", where)
			}
			body, err := decodeSegments(rec.Body, where+".body")
			if err != nil {
				return nil, err
			}
			out = append(out, &Loop{Body: body})
		default:
			return nil, fmt.Errorf("%s: unknown segment kind %q", where, rec.Kind)
		}
	}
	return out, nil
}

func decodeToken(rec TokenRecord) (Unit, error) {
	if len(rec.Op) != 1 {
		return nil, fmt.Errorf("invalid op %q", rec.Op)
	}
	in, ok := FromByte(rec.Op[0])
	if !ok {
		return nil, fmt.Errorf("invalid op %q", rec.Op)
	}
	if in.IsLoop() {
		return nil, fmt.Errorf("loop marker %q inside an executable segment", rec.Op)
	}
	switch {
	case rec.Count < 0:
		return nil, fmt.Errorf("negative count %d", rec.Count)
	case rec.Count == 0:
		return in, nil
	}
	return Repeated{Op: in, N: rec.Count}, nil
}

// MarshalJSON renders f as indented JSON.
func MarshalJSON(f *File) ([]byte, error) {
	return json.MarshalIndent(Encode(f), "", "  ")
}

// UnmarshalJSON parses a JSON dump produced by MarshalJSON.
func UnmarshalJSON(data []byte) (*File, error) {
	var rec FileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	return Decode(rec)
}

// MarshalYAML renders f as YAML.
func MarshalYAML(f *File) ([]byte, error) {
	return yaml.Marshal(Encode(f))
}

// UnmarshalYAML parses a YAML dump produced by MarshalYAML.
func UnmarshalYAML(data []byte) (*File, error) {
	var rec FileRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}
	return Decode(rec)
}
