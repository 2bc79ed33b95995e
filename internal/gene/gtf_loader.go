package gene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// GTFLoader loads a gene model from a GTF annotation file.
type GTFLoader struct {
	path string
}

// NewGTFLoader creates a loader for the given GTF path (plain or gzipped).
func NewGTFLoader(path string) *GTFLoader {
	return &GTFLoader{path: path}
}

// Load parses the GTF file and populates the catalog.
func (l *GTFLoader) Load(c *Catalog) error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open GTF file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	genes, err := parseGTF(reader)
	if err != nil {
		return err
	}
	for _, g := range genes {
		if err := c.Add(g); err != nil {
			return fmt.Errorf("index gene %s: %w", g.ID, err)
		}
	}
	c.Finalize()
	return nil
}

// gtfFeature is one parsed GTF line.
type gtfFeature struct {
	chrom       string
	featureType string
	start       int
	end         int
	strand      string
	attributes  map[string]string
}

type isoformBuilder struct {
	id     string
	geneID string
	chrom  string
	strand int8
	exons  []Interval
}

// parseGTF reads GTF content and assembles genes with their isoforms.
func parseGTF(reader io.Reader) ([]*Gene, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	builders := make(map[string]*isoformBuilder)
	var order []string
	geneNames := make(map[string]string)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		feat, err := parseGTFLine(line)
		if err != nil {
			continue // skip malformed lines
		}

		switch feat.featureType {
		case "gene":
			geneID := stripVersion(feat.attributes["gene_id"])
			if geneID != "" {
				geneNames[geneID] = feat.attributes["gene_name"]
			}

		case "transcript", "exon":
			transcriptID := stripVersion(feat.attributes["transcript_id"])
			if transcriptID == "" {
				continue
			}
			b, ok := builders[transcriptID]
			if !ok {
				b = &isoformBuilder{
					id:     transcriptID,
					geneID: stripVersion(feat.attributes["gene_id"]),
					chrom:  feat.chrom,
					strand: parseStrand(feat.strand),
				}
				builders[transcriptID] = b
				order = append(order, transcriptID)
			}
			if feat.featureType == "exon" {
				b.exons = append(b.exons, Interval{Start: feat.start, End: feat.end})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	// Group isoforms by gene, preserving file order of first appearance.
	byGene := make(map[string][]*Isoform)
	var geneOrder []string
	geneStrand := make(map[string]int8)
	geneChrom := make(map[string]string)
	for _, id := range order {
		b := builders[id]
		if len(b.exons) == 0 {
			continue
		}
		sort.Slice(b.exons, func(i, j int) bool {
			return b.exons[i].Start < b.exons[j].Start
		})
		iso := NewIsoform(b.id, b.chrom, b.strand, b.exons)
		if _, seen := byGene[b.geneID]; !seen {
			geneOrder = append(geneOrder, b.geneID)
			geneStrand[b.geneID] = b.strand
			geneChrom[b.geneID] = b.chrom
		}
		byGene[b.geneID] = append(byGene[b.geneID], iso)
	}

	genes := make([]*Gene, 0, len(geneOrder))
	for _, geneID := range geneOrder {
		genes = append(genes, NewGene(geneID, geneNames[geneID], geneChrom[geneID], geneStrand[geneID], byGene[geneID]))
	}
	return genes, nil
}

// parseGTFLine parses one tab-separated GTF record.
func parseGTFLine(line string) (*gtfFeature, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, fmt.Errorf("invalid GTF line: expected 9 fields, got %d", len(fields))
	}

	start, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}
	end, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}

	return &gtfFeature{
		chrom:       fields[0],
		featureType: fields[2],
		start:       start,
		end:         end,
		strand:      fields[6],
		attributes:  parseAttributes(fields[8]),
	}, nil
}

// parseAttributes parses the GTF attribute column: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}
		key := part[:idx]
		value := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"")
		attrs[key] = value
	}
	return attrs
}

func parseStrand(s string) int8 {
	if s == "-" {
		return -1
	}
	return 1
}

// stripVersion removes the version suffix from an Ensembl-style id,
// e.g. "ENST00000456328.2" -> "ENST00000456328".
func stripVersion(id string) string {
	if idx := strings.LastIndex(id, "."); idx != -1 {
		return id[:idx]
	}
	return id
}
