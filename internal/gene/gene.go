package gene

import (
	"sort"
	"sync"
)

// Isoform is one annotated transcript structure of a gene: ordered exons,
// the introns induced between them, and the genomic region it covers.
type Isoform struct {
	ID      string
	GeneID  string
	Chrom   string
	Strand  int8 // +1 or -1
	Exons   []Interval
	Introns []Interval
}

// NewIsoform builds an isoform from its ordered exon list. Introns are
// derived as the gaps between consecutive exons.
func NewIsoform(id, chrom string, strand int8, exons []Interval) *Isoform {
	iso := &Isoform{
		ID:     id,
		Chrom:  chrom,
		Strand: strand,
		Exons:  exons,
	}
	iso.Introns = IntronsFromExons(exons)
	return iso
}

// IntronsFromExons returns the ordered intron intervals induced by the gaps
// between consecutive exons.
func IntronsFromExons(exons []Interval) []Interval {
	if len(exons) < 2 {
		return nil
	}
	introns := make([]Interval, 0, len(exons)-1)
	for i := 1; i < len(exons); i++ {
		introns = append(introns, Interval{Start: exons[i-1].End + 1, End: exons[i].Start - 1})
	}
	return introns
}

// Region returns the genomic span of the isoform.
func (iso *Isoform) Region() Interval {
	if len(iso.Exons) == 0 {
		return Interval{}
	}
	return Interval{Start: iso.Exons[0].Start, End: iso.Exons[len(iso.Exons)-1].End}
}

// MonoExonic returns true if the isoform has a single exon.
func (iso *Isoform) MonoExonic() bool {
	return len(iso.Introns) == 0
}

// Gene is an ordered, strand-aware collection of isoforms together with the
// canonical intron axis shared by every profile built for this gene.
type Gene struct {
	ID       string
	Name     string
	Chrom    string
	Start    int
	End      int
	Strand   int8
	Isoforms []*Isoform

	axis           *IntronAxis
	exonRegions    []Interval
	intronProfiles map[string][]int8
	isoformsByID   map[string]*Isoform

	mu            sync.Mutex
	observedStart int
	observedEnd   int
}

// NewGene assembles a gene from its isoforms and freezes the intron axis.
// The axis ordering is fixed here and never resorted afterwards.
func NewGene(id, name, chrom string, strand int8, isoforms []*Isoform) *Gene {
	g := &Gene{
		ID:           id,
		Name:         name,
		Chrom:        chrom,
		Strand:       strand,
		Isoforms:     isoforms,
		isoformsByID: make(map[string]*Isoform, len(isoforms)),
	}
	for _, iso := range isoforms {
		iso.GeneID = id
		r := iso.Region()
		if g.Start == 0 || r.Start < g.Start {
			g.Start = r.Start
		}
		if r.End > g.End {
			g.End = r.End
		}
		g.isoformsByID[iso.ID] = iso
	}
	g.axis = BuildIntronAxis(isoforms)
	g.exonRegions = SplitExonRegions(isoforms)
	g.intronProfiles = make(map[string][]int8, len(isoforms))
	for _, iso := range isoforms {
		g.intronProfiles[iso.ID] = g.axis.IsoformProfile(iso)
	}
	g.observedStart = g.Start
	g.observedEnd = g.End
	return g
}

// Region returns the genomic span of the gene.
func (g *Gene) Region() Interval {
	return Interval{Start: g.Start, End: g.End}
}

// Axis returns the gene's canonical intron axis.
func (g *Gene) Axis() *IntronAxis {
	return g.axis
}

// ExonRegions returns the gene's split exon regions: every isoform exon,
// flattened into non-overlapping fragments split at each annotated boundary.
// The slice is built once and must not be mutated.
func (g *Gene) ExonRegions() []Interval {
	return g.exonRegions
}

// SplitExonRegions flattens all isoform exons into ordered non-overlapping
// regions split at every exon boundary. Exon profiles are positional vectors
// over these regions, judged by overlap rather than boundary equality.
func SplitExonRegions(isoforms []*Isoform) []Interval {
	var exons []Interval
	for _, iso := range isoforms {
		exons = append(exons, iso.Exons...)
	}
	if len(exons) == 0 {
		return nil
	}

	points := make(map[int]struct{}, 2*len(exons))
	for _, e := range exons {
		points[e.Start] = struct{}{}
		points[e.End+1] = struct{}{}
	}
	cuts := make([]int, 0, len(points))
	for p := range points {
		cuts = append(cuts, p)
	}
	sort.Ints(cuts)

	var regions []Interval
	for i := 1; i < len(cuts); i++ {
		r := Interval{Start: cuts[i-1], End: cuts[i] - 1}
		for _, e := range exons {
			if e.Overlaps(r) {
				regions = append(regions, r)
				break
			}
		}
	}
	return regions
}

// IntronProfiles returns the precomputed per-isoform intron profiles over
// the gene axis. The map is built once and must not be mutated.
func (g *Gene) IntronProfiles() map[string][]int8 {
	return g.intronProfiles
}

// Isoform returns the isoform with the given id, or nil.
func (g *Gene) Isoform(id string) *Isoform {
	return g.isoformsByID[id]
}

// ExpandObservedRegion widens the gene's observed-region bounds to include a
// read's span. Safe to call from concurrent read workers.
func (g *Gene) ExpandObservedRegion(start, end int) {
	g.mu.Lock()
	if start < g.observedStart {
		g.observedStart = start
	}
	if end > g.observedEnd {
		g.observedEnd = end
	}
	g.mu.Unlock()
}

// ObservedRegion returns the accumulated bounds of all reads seen for this
// gene, initialized to the annotated gene region.
func (g *Gene) ObservedRegion() Interval {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Interval{Start: g.observedStart, End: g.observedEnd}
}
