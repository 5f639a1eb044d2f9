package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"storefront/internal/config"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/spf13/cobra"
)

// newProductsCommand creates the product management command.
func newProductsCommand() *cobra.Command {
	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "Product catalogue commands",
		Long:  "List, add and seed products in the configured store",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all products",
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return withService(cmd, func(ctx context.Context, svc service.ProductService) error {
				products, err := svc.List(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), products)
				}
				return printTable(cmd.OutOrStdout(), products)
			})
		},
	}
	listCmd.Flags().Bool("json", false, "Print the same JSON envelope as GET /api/products")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			description, _ := cmd.Flags().GetString("description")
			price, _ := cmd.Flags().GetString("price")

			return withService(cmd, func(ctx context.Context, svc service.ProductService) error {
				p, err := svc.Create(ctx, model.ProductForm{Name: name, Description: description, Price: price})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added product %d: %s (%s)\n", p.ID, p.Name, formatPrice(p.Price))
				return nil
			})
		},
	}
	addCmd.Flags().String("name", "", "Product name (required)")
	addCmd.Flags().String("description", "", "Product description (required)")
	addCmd.Flags().String("price", "", "Product price (required)")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Add generated sample products",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			return withService(cmd, func(ctx context.Context, svc service.ProductService) error {
				created, err := service.Seed(ctx, svc, count)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products\n", len(created))
				return nil
			})
		},
	}
	seedCmd.Flags().Int("count", 5, "Number of sample products to add")

	productsCmd.AddCommand(listCmd, addCmd, seedCmd)
	return productsCmd
}

// withService loads configuration, opens the store and runs fn. Logs go to
// stderr so command output stays machine readable.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc service.ProductService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, os.Stderr)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	productRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(ctx, service.NewProductService(productRepo, nil, logger))
}

func printJSON(w io.Writer, products []model.Product) error {
	if products == nil {
		products = []model.Product{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(model.ProductListResponse{
		Success:  true,
		Count:    len(products),
		Products: products,
	})
}

func printTable(w io.Writer, products []model.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCREATED")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, formatPrice(p.Price), p.CreatedAt.UTC().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
