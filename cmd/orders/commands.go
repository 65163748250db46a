package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/diewo77/go-orders/internal/db"
	"github.com/diewo77/go-orders/internal/models"
	"github.com/diewo77/go-orders/internal/render"
	"github.com/diewo77/go-orders/internal/services"
	"github.com/diewo77/go-orders/internal/tui"
	"github.com/diewo77/go-orders/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the storage schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := bootstrap()
			if err != nil {
				return err
			}
			defer d.Close()
			if err := db.Migrate(d.db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
			return nil
		},
	}
}

func newListCmd(lang *string) *cobra.Command {
	var (
		jsonOutput bool
		sortKey    string
		desc       bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := bootstrap()
			if err != nil {
				return err
			}
			defer d.Close()
			orders, err := d.orders.List()
			if err != nil {
				return err
			}
			services.SortOrders(orders, sortKey, desc)
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(orders)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderOrders(orders, d.language(*lang)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort by date, total, sender, receiver or status")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

// newCreateCmd stores an order read from a YAML or JSON file.
func newCreateCmd(lang *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Save an order from a YAML or JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			var o models.Order
			// YAML is a superset of JSON, one decoder covers both
			if err := yaml.Unmarshal(raw, &o); err != nil {
				return fmt.Errorf("decode order: %w", err)
			}
			d, err := bootstrap()
			if err != nil {
				return err
			}
			defer d.Close()
			if err := validation.ValidateOrder(&o); err != nil {
				var ve *validation.ValidationError
				if errors.As(err, &ve) {
					return fmt.Errorf("%s: %w", ve.Message(d.language(*lang)), err)
				}
				return err
			}
			id, err := d.orders.Create(o)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "order file, - for stdin")
	return cmd
}

func newPrintCmd(lang *string) *cobra.Command {
	var (
		all bool
		pdf bool
		out string
	)
	cmd := &cobra.Command{
		Use:   "print [id]",
		Short: "Render an invoice (or every order with --all) as HTML or PDF",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("give either an order id or --all")
			}
			if all && pdf {
				return errors.New("--pdf prints a single order")
			}
			d, err := bootstrap()
			if err != nil {
				return err
			}
			defer d.Close()
			s, err := d.settings.Load()
			if err != nil {
				return err
			}
			l := d.language(*lang)

			var body []byte
			if all {
				orders, err := d.orders.List()
				if err != nil {
					return err
				}
				doc, err := d.renderer.Batch(orders, s, l, false)
				if errors.Is(err, render.ErrNoOrders) {
					return errors.New("no orders to print")
				}
				if err != nil {
					return err
				}
				body = doc.HTML
			} else {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid order id %q", args[0])
				}
				o, err := d.orders.FindByID(id)
				if err != nil {
					return fmt.Errorf("order %d: %w", id, err)
				}
				if pdf {
					body, err = d.renderer.PDF(o, s, l)
				} else {
					var doc *render.Document
					doc, err = d.renderer.Single(o, s, l, false)
					if doc != nil {
						body = doc.HTML
					}
				}
				if err != nil {
					return err
				}
			}
			return writeOutput(cmd, out, body)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "print every order, one page each")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "render a PDF instead of HTML")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			d, err := bootstrap()
			if err != nil {
				return err
			}
			defer d.Close()
			deleted, err := d.orders.Delete(id)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("order %d: %w", id, services.ErrNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %d deleted\n", id)
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func writeOutput(cmd *cobra.Command, path string, body []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", path, len(body))
	return nil
}
