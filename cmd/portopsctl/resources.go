package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

type resource struct {
	use        string
	short      string
	path       string
	searchable bool // list accepts -q
	statusable bool // has a PATCH /status lifecycle
}

var apiResources = []resource{
	{use: "ships", short: "Ship operations", path: "/api/ships"},
	{use: "ports", short: "Port operations", path: "/api/ports"},
	{use: "berths", short: "Berth assignment operations", path: "/api/berths", statusable: true},
	{use: "voyages", short: "Voyage plan operations", path: "/api/voyages", statusable: true},
	{use: "cargo", short: "Cargo operations", path: "/api/cargo", searchable: true},
	{use: "warehouses", short: "Warehouse operations", path: "/api/warehouses", searchable: true},
	{use: "tasks", short: "Transport task operations", path: "/api/transport-tasks", statusable: true},
}

func init() {
	for _, r := range apiResources {
		rootCmd.AddCommand(newResourceCommand(r))
	}
}

func newResourceCommand(r resource) *cobra.Command {
	cmd := &cobra.Command{Use: r.use, Short: r.short}

	var query string
	var upcoming bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", r.use),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := r.path
			params := url.Values{}
			if query != "" {
				params.Set("q", query)
			}
			if upcoming {
				params.Set("upcoming", "true")
			}
			if len(params) > 0 {
				path += "?" + params.Encode()
			}
			return run(doGet(path))
		},
	}
	if r.searchable {
		listCmd.Flags().StringVarP(&query, "query", "q", "", "Substring filter")
	}
	if r.use == "berths" {
		listCmd.Flags().BoolVar(&upcoming, "upcoming", false, "Only future non-cancelled assignments")
	}
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: fmt.Sprintf("Get one of %s by ID", r.use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(doGet(r.path + "/" + args[0]))
		},
	})

	var createFile string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create one of %s from a JSON payload", r.use),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readPayload(createFile)
			if err != nil {
				return err
			}
			return run(request(http.MethodPost, r.path, body))
		},
	}
	createCmd.Flags().StringVarP(&createFile, "file", "f", "-", "JSON payload file, - for stdin")
	cmd.AddCommand(createCmd)

	var updateFile string
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: fmt.Sprintf("Replace one of %s from a JSON payload", r.use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readPayload(updateFile)
			if err != nil {
				return err
			}
			return run(request(http.MethodPut, r.path+"/"+args[0], body))
		},
	}
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "-", "JSON payload file, - for stdin")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: fmt.Sprintf("Delete one of %s by ID", r.use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(doDelete(r.path + "/" + args[0]))
		},
	})

	if r.statusable {
		cmd.AddCommand(&cobra.Command{
			Use:   "status ID STATUS",
			Short: "Drive a lifecycle transition",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				body := []byte(fmt.Sprintf(`{"status":%q}`, args[1]))
				return run(request(http.MethodPatch, r.path+"/"+args[0]+"/status", body))
			},
		})
	}

	return cmd
}

// run prints a response body to stdout, passing errors through.
func run(data string, err error) error {
	if err != nil {
		return err
	}
	if data != "" {
		_, _ = fmt.Fprintln(os.Stdout, data)
	}
	return nil
}
