package rnabam

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/fatih/set.v0"

	"github.com/isocat/isocat/internal/assign"
	"github.com/isocat/isocat/internal/gene"
)

// Processor streams records from BAM files, decodes them, and assigns each
// read to an isoform of the overlapping genes. Decoding stays on the reader
// side; classification runs on a worker pool per file. Already-seen
// alignments (same read, same placement) are counted once across all files.
type Processor struct {
	catalog     *gene.Catalog
	params      assign.Params
	grouper     ReadGrouper
	polyaFinder *PolyAFinder
	polyaFixer  *PolyAFixer
	cageFinder  *CagePeakFinder
	logger      *zap.Logger

	mu        sync.Mutex
	resolvers map[string]*assign.Resolver

	processed set.Interface
}

// NewProcessor creates a processor over the gene catalog.
func NewProcessor(catalog *gene.Catalog, params assign.Params) *Processor {
	return &Processor{
		catalog:     catalog,
		params:      params,
		grouper:     defaultGrouper{},
		polyaFinder: NewPolyAFinder(params.PolyAWindow, params.PolyAFraction),
		polyaFixer:  NewPolyAFixer(params.MaxFakeTerminalExonLen),
		logger:      zap.NewNop(),
		resolvers:   make(map[string]*assign.Resolver),
		processed:   set.New(set.ThreadSafe),
	}
}

// SetGrouper replaces the read grouping scheme.
func (p *Processor) SetGrouper(g ReadGrouper) { p.grouper = g }

// SetCageFinder enables CAGE peak support detection.
func (p *Processor) SetCageFinder(c *CagePeakFinder) { p.cageFinder = c }

// SetLogger sets the logger for diagnostic messages.
func (p *Processor) SetLogger(l *zap.Logger) { p.logger = l }

// ProcessBAMs reads every BAM file concurrently and returns all read
// assignments. Within one file the assignments keep the record order; the
// per-file batches interleave by completion.
func (p *Processor) ProcessBAMs(ctx context.Context, paths []string) ([]*assign.ReadAssignment, error) {
	var (
		mu          sync.Mutex
		assignments []*assign.ReadAssignment
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		g.Go(func() error {
			return p.processFile(ctx, path, func(a *assign.ReadAssignment) {
				mu.Lock()
				assignments = append(assignments, a)
				mu.Unlock()
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (p *Processor) processFile(ctx context.Context, path string, sink func(*assign.ReadAssignment)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open BAM: %w", err)
	}
	defer f.Close()

	r, err := bam.NewReader(f, 1)
	if err != nil {
		return fmt.Errorf("read BAM %s: %w", path, err)
	}
	defer r.Close()

	items := make(chan assign.WorkItem, 64)
	results := assign.RunPool(items, p.params.Workers, p.classifyRead)

	nRead := 0
	var readErr error
	go func() {
		defer close(items)
		seq := 0
		for {
			if err := ctx.Err(); err != nil {
				readErr = err
				return
			}
			rec, err := r.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				readErr = fmt.Errorf("read BAM %s: %w", path, err)
				return
			}
			nRead++

			if rec.Flags&sam.Unmapped != 0 || rec.Flags&sam.Supplementary != 0 {
				continue
			}
			secondary := rec.Flags&sam.Secondary != 0
			if secondary && p.params.NoSecondary {
				continue
			}

			info, readID := p.decodeRecord(rec, path, secondary)
			if info == nil {
				continue
			}
			items <- assign.WorkItem{Seq: seq, ReadID: readID, Info: info}
			seq++
		}
	}()

	nAssigned := 0
	collectErr := assign.OrderedCollect(results, func(res assign.WorkResult) error {
		if res.Assignment != nil {
			nAssigned++
			sink(res.Assignment)
		}
		return nil
	})
	// The results channel only closes after the feeder returns, so reading
	// nRead and readErr here is safe.
	if readErr != nil {
		return readErr
	}
	if collectErr != nil {
		return collectErr
	}

	p.logger.Info("processed BAM file",
		zap.String("path", path),
		zap.Int("records", nRead),
		zap.Int("assigned", nAssigned))
	return nil
}

// decodeRecord turns one record into resolver input, or nil when the record
// is undecodable or a duplicate placement. Tail detection, exon correction,
// CAGE lookup, grouping, and indel stats all happen here so the workers only
// classify.
func (p *Processor) decodeRecord(rec *sam.Record, path string, secondary bool) (*assign.AlignmentInfo, string) {
	aln, err := DecodeAlignment(rec)
	if err != nil {
		p.logger.Debug("skipping alignment", zap.String("read", rec.Name), zap.Error(err))
		return nil, ""
	}
	region := aln.Region()

	key := fmt.Sprintf("%s:%s:%d-%d", aln.ReadID, aln.Chrom, region.Start, region.End)
	if p.processed.Has(key) {
		return nil, ""
	}
	p.processed.Add(key)

	polyA := p.polyaFinder.FindTails(rec, aln)
	exons, trimmed := p.polyaFixer.CorrectExons(aln.Exons, polyA)
	if trimmed {
		aln.Exons = exons
		aln.Introns = gene.IntronsFromExons(exons)
		region = aln.Region()
	}

	var cageHits []int
	if p.cageFinder != nil {
		cageHits = p.cageFinder.FindHits(aln.Chrom, aln)
	}

	info := &assign.AlignmentInfo{
		Chrom:        aln.Chrom,
		Exons:        aln.Exons,
		Introns:      aln.Introns,
		Region:       region,
		Strand:       aln.Strand,
		ReadGroup:    p.grouper.GroupID(rec, path),
		Multimapper:  secondary,
		PolyA:        polyA,
		CageHits:     cageHits,
		ExonsTrimmed: trimmed,
	}
	if p.params.IndelStats {
		info.IndelCount, info.JunctionsWithIndels = CountIndelStats(rec, p.params.IndelNearSpliceSiteDist)
	}
	return info, aln.ReadID
}

// classifyRead is the worker-side step: gene lookup, per-gene assignment,
// and result enrichment. Safe for concurrent use.
func (p *Processor) classifyRead(readID string, info *assign.AlignmentInfo) *assign.ReadAssignment {
	genes := p.catalog.FindGenes(info.Chrom, info.Region.Start, info.Region.End)
	if len(genes) == 0 {
		a := assign.NewIntergenicAssignment(readID)
		a.ChrID = info.Chrom
		a.Exons = info.Exons
		a.Strand = info.Strand
		a.ReadGroup = info.ReadGroup
		return a
	}

	best, bestGene := p.assignToBestGene(readID, info, genes)
	bestGene.ExpandObservedRegion(info.Region.Start, info.Region.End)

	if info.ExonsTrimmed {
		best.AddEvent(assign.MatchEvent{
			Subtype:         assign.EventAlignedPolyATail,
			IsoformPosition: assign.NoPosition,
			ReadPosition:    assign.NoPosition,
		})
	}
	if p.params.IndelStats {
		best.IndelCount = info.IndelCount
		best.JunctionsWithIndels = info.JunctionsWithIndels
		best.IntronsMatch = intronsMatch(info.Introns, bestGene.Axis(), p.params.Delta)
	}
	if p.params.CountExons {
		best.IntronGeneProfile = assign.BuildReadProfile(info.Introns, info.Region, bestGene.Axis(), p.params.Delta)
		best.ExonGeneProfile = assign.BuildReadExonProfile(info.Exons, info.Region, bestGene.ExonRegions())
	}
	return best
}

// assignToBestGene scores the read against every overlapping gene and keeps
// the assignment with the strongest classification.
func (p *Processor) assignToBestGene(readID string, info *assign.AlignmentInfo, genes []*gene.Gene) (*assign.ReadAssignment, *gene.Gene) {
	var (
		best     *assign.ReadAssignment
		bestGene *gene.Gene
	)
	for _, g := range genes {
		a := p.resolverFor(g).AssignToIsoform(readID, info)
		if best == nil || typePriority(a.Type) < typePriority(best.Type) {
			best = a
			bestGene = g
		}
	}
	return best, bestGene
}

func (p *Processor) resolverFor(g *gene.Gene) *assign.Resolver {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.resolvers[g.ID]; ok {
		return r
	}
	r := assign.NewResolver(g, p.params)
	r.SetLogger(p.logger)
	p.resolvers[g.ID] = r
	return r
}

// typePriority orders assignment types from strongest to weakest evidence
// for gene selection.
func typePriority(t assign.AssignmentType) int {
	switch t {
	case assign.AssignmentUnique:
		return 0
	case assign.AssignmentUniqueMinorDifference:
		return 1
	case assign.AssignmentAmbiguous:
		return 2
	case assign.AssignmentNovelInCatalog:
		return 3
	case assign.AssignmentNovelNotInCatalog:
		return 4
	default:
		return 5
	}
}

// intronsMatch reports whether every read junction matches an annotated
// intron of the gene within delta.
func intronsMatch(introns []gene.Interval, axis *gene.IntronAxis, delta int) bool {
	if len(introns) == 0 {
		return false
	}
	for _, in := range introns {
		if !axis.ContainsSimilar(in, delta) {
			return false
		}
	}
	return true
}
