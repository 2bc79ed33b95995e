package genedb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isocat/isocat/internal/assign"
	"github.com/isocat/isocat/internal/gene"
)

func buildTestCatalog(t *testing.T) *gene.Catalog {
	t.Helper()
	iso1 := gene.NewIsoform("iso1", "chr1", 1, []gene.Interval{
		{Start: 1, End: 100}, {Start: 201, End: 300},
	})
	iso2 := gene.NewIsoform("iso2", "chr1", 1, []gene.Interval{
		{Start: 1, End: 100}, {Start: 201, End: 400},
	})
	iso3 := gene.NewIsoform("iso3", "chr2", -1, []gene.Interval{{Start: 500, End: 900}})

	catalog := gene.NewCatalog()
	require.NoError(t, catalog.Add(gene.NewGene("gene1", "GENE1", "chr1", 1, []*gene.Isoform{iso1, iso2})))
	require.NoError(t, catalog.Add(gene.NewGene("gene2", "GENE2", "chr2", -1, []*gene.Isoform{iso3})))
	catalog.Finalize()
	return catalog
}

func TestStore_CatalogRoundTrip(t *testing.T) {
	store, err := Open("") // in-memory
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveCatalog(buildTestCatalog(t)))

	n, err := store.GeneCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	loaded, err := store.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.GeneCount())
	assert.Equal(t, []string{"chr1", "chr2"}, loaded.Chromosomes())

	genes := loaded.FindGenes("chr1", 50, 60)
	require.Len(t, genes, 1)
	g := genes[0]
	assert.Equal(t, "gene1", g.ID)
	assert.Equal(t, "GENE1", g.Name)
	require.NotNil(t, g.Isoform("iso2"))
	assert.Equal(t, []gene.Interval{{Start: 101, End: 200}}, g.Isoform("iso2").Introns)

	// The axis is rebuilt on load, not persisted.
	assert.Equal(t, 1, g.Axis().Len())
	assert.Equal(t, gene.Interval{Start: 101, End: 200}, g.Axis().Introns[0])

	mono := loaded.FindGenes("chr2", 600, 700)
	require.Len(t, mono, 1)
	assert.Equal(t, int8(-1), mono[0].Strand)
	assert.Equal(t, 0, mono[0].Axis().Len())
}

func TestStore_SaveCatalogReplacesExisting(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveCatalog(buildTestCatalog(t)))
	require.NoError(t, store.SaveCatalog(buildTestCatalog(t)))

	n, err := store.GeneCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_Assignments(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	defer store.Close()

	assignments := []*assign.ReadAssignment{
		{
			ReadID:   "read1",
			ChrID:    "chr1",
			GeneID:   "gene1",
			Type:     assign.AssignmentUnique,
			Isoforms: []string{"iso1"},
			Events:   []assign.MatchEvent{{Subtype: assign.EventNone}},
		},
		{
			ReadID:   "read2",
			ChrID:    "chr1",
			GeneID:   "gene1",
			Type:     assign.AssignmentAmbiguous,
			Isoforms: []string{"iso1", "iso2"},
			Events:   []assign.MatchEvent{{Subtype: assign.EventNone}},
		},
		{
			ReadID: "read3",
			Type:   assign.AssignmentIntergenic,
		},
	}
	require.NoError(t, store.WriteAssignments(assignments))

	counts, err := store.CountAssignmentsByType()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"unique":     1,
		"ambiguous":  1,
		"intergenic": 1,
	}, counts)
}

func TestStore_Clear(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveCatalog(buildTestCatalog(t)))
	require.NoError(t, store.Clear())

	n, err := store.GeneCount()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
