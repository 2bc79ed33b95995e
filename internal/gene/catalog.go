package gene

import (
	"sort"

	"github.com/biogo/store/interval"
)

// geneInterval adapts a gene region to the biogo interval tree.
type geneInterval struct {
	start, end int // half-open for tree queries
	uid        uintptr
	gene       *Gene
}

func (i geneInterval) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return i.end > b.Start && i.start < b.End
}

func (i geneInterval) ID() uintptr { return i.uid }

func (i geneInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.start, End: i.end}
}

// Catalog indexes genes by chromosome for overlap queries. Genes are added
// once during loading; Finalize must be called before querying.
type Catalog struct {
	trees map[string]*interval.IntTree
	genes map[string][]*Gene
	nUID  uintptr
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		trees: make(map[string]*interval.IntTree),
		genes: make(map[string][]*Gene),
	}
}

// Add inserts a gene into the catalog.
func (c *Catalog) Add(g *Gene) error {
	tree, ok := c.trees[g.Chrom]
	if !ok {
		tree = &interval.IntTree{}
		c.trees[g.Chrom] = tree
	}
	iv := geneInterval{start: g.Start - 1, end: g.End, uid: c.nUID, gene: g}
	c.nUID++
	if err := tree.Insert(iv, true); err != nil {
		return err
	}
	c.genes[g.Chrom] = append(c.genes[g.Chrom], g)
	return nil
}

// Finalize adjusts tree ranges after bulk insertion.
func (c *Catalog) Finalize() {
	for _, tree := range c.trees {
		tree.AdjustRanges()
	}
}

// FindGenes returns the genes overlapping [start, end] on chrom, ordered by
// genomic start then id.
func (c *Catalog) FindGenes(chrom string, start, end int) []*Gene {
	tree, ok := c.trees[chrom]
	if !ok {
		return nil
	}
	var result []*Gene
	query := geneInterval{start: start - 1, end: end}
	for _, hit := range tree.Get(query) {
		result = append(result, hit.(geneInterval).gene)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Start != result[j].Start {
			return result[i].Start < result[j].Start
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Chromosomes returns all chromosome names with at least one gene, sorted.
func (c *Catalog) Chromosomes() []string {
	chroms := make([]string, 0, len(c.genes))
	for chrom := range c.genes {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	return chroms
}

// GenesOnChromosome returns the genes on a chromosome in insertion order.
func (c *Catalog) GenesOnChromosome(chrom string) []*Gene {
	return c.genes[chrom]
}

// GeneCount returns the total number of genes in the catalog.
func (c *Catalog) GeneCount() int {
	n := 0
	for _, gs := range c.genes {
		n += len(gs)
	}
	return n
}
