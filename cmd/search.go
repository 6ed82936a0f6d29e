package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
	"github.com/IshwariGadewar/SmartBasket/pkg/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Compare prices for a product across platforms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		areaCode, _ := cmd.Flags().GetString("area")
		platformList, _ := cmd.Flags().GetStringSlice("platforms")
		if len(platformList) == 0 {
			platformList = catalog.Platforms()
		}

		lock, err := lockDB()
		if err != nil {
			return err
		}
		defer lock.Unlock()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		svc := newSearchService(db)
		resp, err := svc.Search(cmd.Context(), search.Request{
			Query:     args[0],
			AreaCode:  areaCode,
			Platforms: platformList,
		})
		if err != nil {
			return err
		}

		if len(resp.UnavailablePlatforms) > 0 {
			fmt.Printf("Not serviceable in %s: %s\n\n", areaCode, strings.Join(resp.UnavailablePlatforms, ", "))
		}
		for _, g := range resp.MatchGroups {
			fmt.Printf("%s\n", g.Label)
			for _, l := range g.Listings {
				stock := ""
				if !l.InStock {
					stock = " [out of stock]"
				}
				fmt.Printf("  %-10s ₹%-8.2f %-40s %s%s\n", l.Platform, l.Price, truncate(l.Name, 40), l.Quantity, stock)
			}
		}
		if best := resp.PriceAnalysis.BestValue; best != nil {
			fmt.Printf("\nBest value: %s on %s at ₹%.2f\n", best.Name, best.Platform, best.Price)
		}
		for _, rec := range resp.PriceAnalysis.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
		return nil
	},
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringP("area", "a", "", "Delivery area pincode (required)")
	searchCmd.Flags().StringSliceP("platforms", "p", nil, "Platforms to search (default: all)")
	searchCmd.MarkFlagRequired("area")
}
