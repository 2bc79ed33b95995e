package rnabam

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/isocat/isocat/internal/gene"
)

// CagePeakFinder holds CAGE peaks per chromosome and reports peaks
// supporting a read's transcription start site.
type CagePeakFinder struct {
	shift int
	peaks map[string][]gene.Interval
}

// NewCagePeakFinder creates a finder matching read starts to peaks within
// shift bases.
func NewCagePeakFinder(shift int) *CagePeakFinder {
	return &CagePeakFinder{shift: shift, peaks: make(map[string][]gene.Interval)}
}

// LoadBED reads CAGE peaks from a BED file, transparently decompressing
// .gz input. Only the first three columns are used; BED starts are 0-based
// half-open and converted to 1-based closed.
func (c *CagePeakFinder) LoadBED(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open CAGE peaks: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open CAGE peaks: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return fmt.Errorf("CAGE peaks line %d: expected at least 3 columns", lineNum)
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("CAGE peaks line %d: %w", lineNum, err)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("CAGE peaks line %d: %w", lineNum, err)
		}
		chrom := fields[0]
		c.peaks[chrom] = append(c.peaks[chrom], gene.Interval{Start: start + 1, End: end})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read CAGE peaks: %w", err)
	}

	for chrom := range c.peaks {
		sort.Slice(c.peaks[chrom], func(i, j int) bool {
			return c.peaks[chrom][i].Start < c.peaks[chrom][j].Start
		})
	}
	return nil
}

// FindHits returns the starts of peaks within shift bases of the read's
// 5' position (the alignment start on the forward strand, the end on the
// reverse strand).
func (c *CagePeakFinder) FindHits(chrom string, aln *Alignment) []int {
	peaks := c.peaks[chrom]
	if len(peaks) == 0 {
		return nil
	}
	pos := aln.Region().Start
	if aln.Strand == -1 {
		pos = aln.Region().End
	}
	query := gene.Interval{Start: pos - c.shift, End: pos + c.shift}

	lo := sort.Search(len(peaks), func(i int) bool {
		return peaks[i].Start >= query.Start
	})
	if lo > 0 && peaks[lo-1].End >= query.Start {
		lo--
	}
	var hits []int
	for i := lo; i < len(peaks) && peaks[i].Start <= query.End; i++ {
		if peaks[i].Overlaps(query) {
			hits = append(hits, peaks[i].Start)
		}
	}
	return hits
}
