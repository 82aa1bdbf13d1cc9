package main

import "github.com/spf13/cobra"

// Derived reports live outside the plain CRUD surface.
func init() {
	reportsCmd := &cobra.Command{Use: "reports", Short: "Derived occupancy and throughput reports"}

	reportsCmd.AddCommand(&cobra.Command{
		Use:   "occupancy PORT_ID",
		Short: "Berth occupancy for a port",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(doGet("/api/ports/" + args[0] + "/occupancy"))
		},
	})

	reportsCmd.AddCommand(&cobra.Command{
		Use:   "usage WAREHOUSE_ID",
		Short: "Capacity usage for a warehouse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(doGet("/api/warehouses/" + args[0] + "/usage"))
		},
	})

	reportsCmd.AddCommand(&cobra.Command{
		Use:   "monthly-cargo",
		Short: "Cargo throughput per month over the trailing year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(doGet("/api/cargo/stats/monthly"))
		},
	})

	reportsCmd.AddCommand(&cobra.Command{
		Use:   "health",
		Short: "Service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(doGet("/api/health"))
		},
	})

	rootCmd.AddCommand(reportsCmd)
}
