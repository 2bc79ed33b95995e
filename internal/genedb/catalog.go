package genedb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/isocat/isocat/internal/assign"
	"github.com/isocat/isocat/internal/gene"
)

// SaveCatalog batch-inserts all genes, isoforms, and exons using the
// Appender API. Existing catalog rows are replaced.
func (s *Store) SaveCatalog(catalog *gene.Catalog) error {
	for _, table := range []string{"exons", "isoforms", "genes"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	newAppender := func(table string) (*goduckdb.Appender, error) {
		var a *goduckdb.Appender
		err := conn.Raw(func(driverConn any) error {
			var err error
			a, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
			return err
		})
		return a, err
	}

	geneApp, err := newAppender("genes")
	if err != nil {
		return fmt.Errorf("create genes appender: %w", err)
	}
	defer geneApp.Close()
	isoApp, err := newAppender("isoforms")
	if err != nil {
		return fmt.Errorf("create isoforms appender: %w", err)
	}
	defer isoApp.Close()
	exonApp, err := newAppender("exons")
	if err != nil {
		return fmt.Errorf("create exons appender: %w", err)
	}
	defer exonApp.Close()

	for _, chrom := range catalog.Chromosomes() {
		for _, g := range catalog.GenesOnChromosome(chrom) {
			if err := geneApp.AppendRow(g.ID, g.Name, g.Chrom, g.Strand); err != nil {
				return fmt.Errorf("append gene %s: %w", g.ID, err)
			}
			for _, iso := range g.Isoforms {
				if err := isoApp.AppendRow(iso.ID, g.ID, iso.Chrom, iso.Strand); err != nil {
					return fmt.Errorf("append isoform %s: %w", iso.ID, err)
				}
				for i, exon := range iso.Exons {
					if err := exonApp.AppendRow(iso.ID, int32(i), int64(exon.Start), int64(exon.End)); err != nil {
						return fmt.Errorf("append exon %s/%d: %w", iso.ID, i, err)
					}
				}
			}
		}
	}

	for _, a := range []*goduckdb.Appender{exonApp, isoApp, geneApp} {
		if err := a.Flush(); err != nil {
			return fmt.Errorf("flush catalog: %w", err)
		}
	}
	return nil
}

// LoadCatalog rebuilds the full gene catalog from the database. Axes and
// isoform profiles are recomputed, not stored.
func (s *Store) LoadCatalog() (*gene.Catalog, error) {
	type geneRow struct {
		name   string
		chrom  string
		strand int8
	}
	geneRows := make(map[string]geneRow)
	geneOrder := []string{}

	rows, err := s.db.Query("SELECT gene_id, gene_name, chrom, strand FROM genes ORDER BY gene_id")
	if err != nil {
		return nil, fmt.Errorf("query genes: %w", err)
	}
	for rows.Next() {
		var id string
		var gr geneRow
		if err := rows.Scan(&id, &gr.name, &gr.chrom, &gr.strand); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan gene: %w", err)
		}
		geneRows[id] = gr
		geneOrder = append(geneOrder, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	exonsByIsoform := make(map[string][]gene.Interval)
	rows, err = s.db.Query("SELECT isoform_id, exon_start, exon_end FROM exons ORDER BY isoform_id, exon_index")
	if err != nil {
		return nil, fmt.Errorf("query exons: %w", err)
	}
	for rows.Next() {
		var isoID string
		var start, end int64
		if err := rows.Scan(&isoID, &start, &end); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan exon: %w", err)
		}
		exonsByIsoform[isoID] = append(exonsByIsoform[isoID], gene.Interval{Start: int(start), End: int(end)})
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	isoformsByGene := make(map[string][]*gene.Isoform)
	rows, err = s.db.Query("SELECT isoform_id, gene_id, chrom, strand FROM isoforms ORDER BY gene_id, isoform_id")
	if err != nil {
		return nil, fmt.Errorf("query isoforms: %w", err)
	}
	for rows.Next() {
		var isoID, geneID, chrom string
		var strand int8
		if err := rows.Scan(&isoID, &geneID, &chrom, &strand); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan isoform: %w", err)
		}
		exons := exonsByIsoform[isoID]
		if len(exons) == 0 {
			rows.Close()
			return nil, fmt.Errorf("isoform %s has no exons", isoID)
		}
		isoformsByGene[geneID] = append(isoformsByGene[geneID], gene.NewIsoform(isoID, chrom, strand, exons))
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	catalog := gene.NewCatalog()
	for _, id := range geneOrder {
		gr := geneRows[id]
		isoforms := isoformsByGene[id]
		if len(isoforms) == 0 {
			return nil, fmt.Errorf("gene %s has no isoforms", id)
		}
		if err := catalog.Add(gene.NewGene(id, gr.name, gr.chrom, gr.strand, isoforms)); err != nil {
			return nil, fmt.Errorf("index gene %s: %w", id, err)
		}
	}
	catalog.Finalize()
	return catalog, nil
}

// WriteAssignments batch-inserts read assignments via the Appender API.
func (s *Store) WriteAssignments(assignments []*assign.ReadAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "assignments")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, a := range assignments {
		events := make([]string, len(a.Events))
		for i, e := range a.Events {
			events[i] = e.Subtype.String()
		}
		if err := appender.AppendRow(
			a.ReadID, a.ChrID, a.GeneID, a.Type.String(),
			strings.Join(a.Isoforms, ","), strings.Join(events, ","),
			a.ReadGroup, a.PolyAFound,
		); err != nil {
			return fmt.Errorf("append assignment %s: %w", a.ReadID, err)
		}
	}
	return appender.Flush()
}

// CountAssignmentsByType returns assignment counts grouped by type.
func (s *Store) CountAssignmentsByType() (map[string]int, error) {
	rows, err := s.db.Query("SELECT assignment_type, COUNT(*) FROM assignments GROUP BY assignment_type")
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan assignment count: %w", err)
		}
		counts[t] = n
	}
	return counts, rows.Err()
}
