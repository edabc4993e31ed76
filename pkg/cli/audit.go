package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	urfave "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pcurve/pctl/pkg/data"
	"github.com/pcurve/pctl/pkg/doc"
	"github.com/pcurve/pctl/pkg/extract"
	"github.com/pcurve/pctl/pkg/pcurve"
)

var (
	dirFlag = &urfave.StringFlag{
		Name:  "dir",
		Usage: "Audit every supported document in a directory",
	}

	noSaveFlag = &urfave.BoolFlag{
		Name:  "no-save",
		Usage: "Do not record the audit in the local database",
	}

	auditCmd = &urfave.Command{
		Name:      "audit",
		Aliases:   []string{"a"},
		Usage:     "Audit a paper for statistical signs of p-hacking",
		ArgsUsage: "[PATH]",
		UsageText: `pctl audit paper.pdf                 # audit one paper
   pctl audit --dir ./author_papers     # audit a downloaded corpus
   pctl --format json audit paper.pdf   # emit the full record as JSON`,
		Action: cmdAudit,
		Flags: []urfave.Flag{
			dirFlag,
			noSaveFlag,
		},
	}
)

// auditRun holds the outcome of one document's extract-and-score pipeline.
type auditRun struct {
	doc     *doc.Document
	values  []float64
	summary *pcurve.Summary
	result  *pcurve.Result
}

func cmdAudit(c *urfave.Context) error {
	dir := c.String(dirFlag.Name)
	if dir != "" {
		return cmdAuditDir(c, dir)
	}

	path := c.Args().First()
	if path == "" {
		return urfave.ShowSubcommandHelp(c)
	}

	run, err := runAudit(path)
	if err != nil {
		return err
	}

	cfg := getConfig(c)
	if !c.Bool(noSaveFlag.Name) {
		if _, err := data.SaveAudit(cfg.DB, run.doc, run.values, run.summary, run.result); err != nil {
			slog.Error("failed to record audit", "path", path, "error", err)
		}
	}

	return printRun(run)
}

func cmdAuditDir(c *urfave.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := doc.DetectFormat(e.Name()); err == nil {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no supported documents in %s", dir)
	}
	sort.Strings(paths)

	// Each document's pipeline is independent, so score them in parallel
	// and record results sequentially afterwards.
	runs := make([]*auditRun, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, p := range paths {
		g.Go(func() error {
			run, err := runAudit(p)
			if err != nil {
				slog.Error("audit failed", "path", p, "error", err)
				return nil
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cfg := getConfig(c)
	audited := 0
	for _, run := range runs {
		if run == nil {
			continue
		}
		audited++
		if !c.Bool(noSaveFlag.Name) {
			if _, err := data.SaveAudit(cfg.DB, run.doc, run.values, run.summary, run.result); err != nil {
				slog.Error("failed to record audit", "path", run.doc.Path, "error", err)
			}
		}
	}

	if outputFormat != formatText {
		list := make([]*data.Audit, 0, audited)
		for _, run := range runs {
			if run != nil {
				list = append(list, toRecord(run))
			}
		}
		return encode(list)
	}

	for _, run := range runs {
		if run == nil {
			continue
		}
		fmt.Printf("%-40s %3d/100 - %s\n", filepath.Base(run.doc.Path), run.result.Score, run.result.Verdict)
	}
	fmt.Printf("\nAudited %d of %d document(s)\n", audited, len(paths))
	return nil
}

// runAudit is the extract-and-score pipeline for a single document.
func runAudit(path string) (*auditRun, error) {
	d, err := doc.ExtractText(path)
	if err != nil {
		return nil, err
	}

	values := extract.Extract(d.Text)
	return &auditRun{
		doc:     d,
		values:  values,
		summary: pcurve.Summarize(values),
		result:  pcurve.Analyze(values),
	}, nil
}

func toRecord(run *auditRun) *data.Audit {
	return &data.Audit{
		Path:    run.doc.Path,
		File:    filepath.Base(run.doc.Path),
		Format:  string(run.doc.Format),
		Pages:   run.doc.Pages,
		Summary: run.summary,
		Score:   run.result.Score,
		Verdict: run.result.Verdict,
		Values:  run.values,
	}
}

func printRun(run *auditRun) error {
	if outputFormat != formatText {
		return encode(toRecord(run))
	}

	s := run.summary
	if len(run.values) == 0 {
		fmt.Printf("No p-values extracted from %s\n", filepath.Base(run.doc.Path))
	} else {
		fmt.Printf("Extracted %d p-value(s); in [0, 0.05] window: %d, above 0.05: %d\n",
			s.TotalCount, s.FilteredCount, s.AboveCount)
		fmt.Printf("  Risky (0.04-0.05): %d, Highly sig (<=0.01): %d\n", s.RiskyCount, s.HighSigCount)
		fmt.Printf("  Risk ratio: %.3f\n", s.RiskRatio)
	}

	fmt.Printf("\nIntegrity score: %d/100 - %s\n", run.result.Score, run.result.Verdict)
	return nil
}
