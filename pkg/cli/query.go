package cli

import (
	"fmt"

	urfave "github.com/urfave/cli/v2"

	"github.com/pcurve/pctl/pkg/data"
)

const queryResultLimitDefault = 100

var (
	queryLimitFlag = &urfave.IntFlag{
		Name:  "limit",
		Usage: "Limits number of results returned",
		Value: queryResultLimitDefault,
	}

	auditIDFlag = &urfave.Int64Flag{
		Name:     "id",
		Usage:    "Audit record ID",
		Required: true,
	}

	queryCmd = &urfave.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "List stored audit results",
		Subcommands: []*urfave.Command{
			{
				Name:    "list",
				Usage:   "List recent audits, newest first",
				Aliases: []string{"l"},
				Action:  cmdQueryAudits,
				Flags: []urfave.Flag{
					queryLimitFlag,
				},
			},
			{
				Name:    "detail",
				Usage:   "Get one audit with its extracted p-values",
				Aliases: []string{"d"},
				Action:  cmdQueryAudit,
				Flags: []urfave.Flag{
					auditIDFlag,
				},
			},
		},
	}
)

func cmdQueryAudits(c *urfave.Context) error {
	limit := c.Int(queryLimitFlag.Name)

	cfg := getConfig(c)
	list, err := data.ListAudits(cfg.DB, limit)
	if err != nil {
		return fmt.Errorf("failed to query audits: %w", err)
	}

	if outputFormat == formatText {
		for _, a := range list {
			fmt.Printf("%5d  %-40s %3d/100 - %-16s %s\n", a.ID, a.File, a.Score, a.Verdict, a.CreatedAt)
		}
		fmt.Printf("\n%d audit(s)\n", len(list))
		return nil
	}

	return encode(list)
}

func cmdQueryAudit(c *urfave.Context) error {
	id := c.Int64(auditIDFlag.Name)

	cfg := getConfig(c)
	a, err := data.GetAudit(cfg.DB, id)
	if err != nil {
		return fmt.Errorf("failed to query audit: %w", err)
	}
	if a == nil {
		return fmt.Errorf("no audit with id %d", id)
	}

	return encode(a)
}
