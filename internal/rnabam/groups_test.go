package rnabam

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReadGrouper(t *testing.T) {
	rec := &sam.Record{Name: "read1"}

	t.Run("default", func(t *testing.T) {
		g, err := NewReadGrouper("")
		require.NoError(t, err)
		assert.Equal(t, DefaultGroup, g.GroupID(rec, "/data/sample1.bam"))
	})

	t.Run("file name", func(t *testing.T) {
		g, err := NewReadGrouper("file_name")
		require.NoError(t, err)
		assert.Equal(t, "sample1", g.GroupID(rec, "/data/sample1.bam"))
	})

	t.Run("read id", func(t *testing.T) {
		g, err := NewReadGrouper("read_id")
		require.NoError(t, err)
		assert.Equal(t, "read1", g.GroupID(rec, "/data/sample1.bam"))
	})

	t.Run("tag", func(t *testing.T) {
		aux, err := sam.NewAux(sam.NewTag("BC"), "barcode7")
		require.NoError(t, err)
		tagged := &sam.Record{Name: "read1", AuxFields: sam.AuxFields{aux}}

		g, err := NewReadGrouper("tag:BC")
		require.NoError(t, err)
		assert.Equal(t, "barcode7", g.GroupID(tagged, ""))
		assert.Equal(t, DefaultGroup, g.GroupID(rec, ""))
	})

	t.Run("invalid specs", func(t *testing.T) {
		_, err := NewReadGrouper("tag:TOOLONG")
		assert.Error(t, err)
		_, err = NewReadGrouper("bogus")
		assert.Error(t, err)
	})
}
