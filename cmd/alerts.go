package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IshwariGadewar/SmartBasket/pkg/storage"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage price-watch alerts",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		userRef, _ := cmd.Flags().GetString("user")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		alerts, err := db.ListAlertsByUser(cmd.Context(), userRef)
		if err != nil {
			return err
		}
		if len(alerts) == 0 {
			fmt.Println("No alerts.")
			return nil
		}
		for _, a := range alerts {
			state := "inactive"
			if a.IsActive {
				state = "active"
			}
			if a.TriggeredAt != nil {
				state = "triggered " + a.TriggeredAt.Format("2006-01-02 15:04")
			}
			fmt.Printf("#%-4d product %-6d %-14s target ₹%-10.2f %s\n", a.ID, a.ProductID, a.AlertType, a.TargetPrice, state)
		}
		return nil
	},
}

var alertsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a price-watch alert on a stored product",
	RunE: func(cmd *cobra.Command, args []string) error {
		userRef, _ := cmd.Flags().GetString("user")
		productID, _ := cmd.Flags().GetInt64("product")
		targetPrice, _ := cmd.Flags().GetFloat64("target")
		alertType, _ := cmd.Flags().GetString("type")
		message, _ := cmd.Flags().GetString("message")

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

		id, err := db.CreateAlert(cmd.Context(), storage.Alert{
			UserRef:       userRef,
			ProductID:     productID,
			TargetPrice:   targetPrice,
			AlertType:     alertType,
			CustomMessage: message,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created alert #%d\n", id)
		return nil
	},
}

var alertsRmCmd = &cobra.Command{
	Use:   "rm <alert-id>",
	Short: "Delete an alert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userRef, _ := cmd.Flags().GetString("user")

		var id int64
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid alert id %q", args[0])
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

		if err := db.DeleteAlert(cmd.Context(), id, userRef); err != nil {
			return err
		}
		fmt.Printf("Deleted alert #%d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsListCmd, alertsAddCmd, alertsRmCmd)

	alertsCmd.PersistentFlags().StringP("user", "u", "default", "User reference the alerts belong to")

	alertsAddCmd.Flags().Int64P("product", "P", 0, "Stored product ID to watch")
	alertsAddCmd.Flags().Float64P("target", "t", 0, "Target price")
	alertsAddCmd.Flags().String("type", storage.AlertPriceDrop, "Alert type: price_drop, price_increase, stock_available, custom")
	alertsAddCmd.Flags().String("message", "", "Custom notification message")
	alertsAddCmd.MarkFlagRequired("product")
	alertsAddCmd.MarkFlagRequired("target")
}
