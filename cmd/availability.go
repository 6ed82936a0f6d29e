package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IshwariGadewar/SmartBasket/internal/utils"
	"github.com/IshwariGadewar/SmartBasket/pkg/availability"
	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
)

var availabilityCmd = &cobra.Command{
	Use:   "availability <pincode>",
	Short: "Show which platforms deliver to a pincode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		areaCode := args[0]
		if !utils.IsAreaCode(areaCode) {
			return fmt.Errorf("%q is not a 6-digit pincode", areaCode)
		}

		snapshot := availability.Snapshot(areaCode)
		for _, p := range catalog.Platforms() {
			status := "unavailable"
			if snapshot[p] {
				status = "available"
			}
			fmt.Printf("%-10s %s\n", p, status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(availabilityCmd)
}
