package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/ncobase/screener/config"
	"github.com/ncobase/screener/market"
	"github.com/ncobase/screener/server"
	"github.com/ncobase/screener/service"
	"github.com/spf13/cobra"
)

// NewScreenCommand creates the screen command, which runs a formula
// against the configured market source without a database
func NewScreenCommand(load func() (*config.Config, error)) *cobra.Command {
	var (
		sortBy    string
		sortOrder string
		limit     int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "screen <expression>",
		Short: "Screen the market with a formula",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			cleanupLogging, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer cleanupLogging()

			mkt, err := server.NewMarket(cfg, nil, nil)
			if err != nil {
				return err
			}
			compiler := server.NewCompiler(cfg.Screening)
			defer compiler.Close()

			screening := service.NewScreeningService(&service.Dependencies{
				Compiler: compiler,
				Market:   mkt,
				Config:   cfg.Screening,
			}, nil)

			matched, total, err := screening.Match(cmd.Context(), strings.Join(args, " "), sortBy, sortOrder)
			if err != nil {
				return err
			}
			if limit > 0 && len(matched) > limit {
				matched = matched[:limit]
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"total_count": total, "result_count": len(matched), "bonds": matched})
			}
			writeBondTable(out, matched)
			fmt.Fprintf(out, "\n%d of %d bonds matched\n", len(matched), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort-by", service.DefaultSortField, "field to sort by")
	cmd.Flags().StringVar(&sortOrder, "order", "asc", "sort order, asc or desc")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most n bonds")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func writeBondTable(w io.Writer, bonds []*market.Bond) {
	table := uitable.New()
	table.MaxColWidth = 24
	table.AddRow("CODE", "NAME", "PRICE", "PREMIUM%", "DOUBLE LOW", "YTM%", "RATING")
	for _, b := range bonds {
		table.AddRow(b.Code, b.Name, num(b.Price), num(b.PremiumRate), num(b.DoubleLow), num(b.YTM), b.CreditRating)
	}
	fmt.Fprintln(w, table)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
