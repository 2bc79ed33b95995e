package rnabam

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/biogo/hts/sam"
)

// DefaultGroup is assigned when no grouping scheme is configured.
const DefaultGroup = "NA"

// ReadGrouper maps each read to a group id (barcode, source file, ...) so
// downstream consumers can split assignments per sample.
type ReadGrouper interface {
	GroupID(rec *sam.Record, bamPath string) string
}

// NewReadGrouper parses a grouping spec: "" or "none" for no grouping,
// "file_name" to group by source BAM, "read_id" to group by read name, or
// "tag:XX" to group by a BAM tag value.
func NewReadGrouper(spec string) (ReadGrouper, error) {
	switch {
	case spec == "" || spec == "none":
		return defaultGrouper{}, nil
	case spec == "file_name":
		return fileNameGrouper{}, nil
	case spec == "read_id":
		return readIDGrouper{}, nil
	case strings.HasPrefix(spec, "tag:"):
		tag := strings.TrimPrefix(spec, "tag:")
		if len(tag) != 2 {
			return nil, fmt.Errorf("read grouping tag must be two characters, got %q", tag)
		}
		return tagGrouper{tag: []byte(tag)}, nil
	}
	return nil, fmt.Errorf("unknown read grouping scheme %q", spec)
}

type defaultGrouper struct{}

func (defaultGrouper) GroupID(*sam.Record, string) string { return DefaultGroup }

type fileNameGrouper struct{}

func (fileNameGrouper) GroupID(_ *sam.Record, bamPath string) string {
	base := filepath.Base(bamPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type readIDGrouper struct{}

func (readIDGrouper) GroupID(rec *sam.Record, _ string) string { return rec.Name }

type tagGrouper struct {
	tag []byte
}

func (g tagGrouper) GroupID(rec *sam.Record, _ string) string {
	aux, ok := rec.Tag(g.tag)
	if !ok {
		return DefaultGroup
	}
	switch v := aux.Value().(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
