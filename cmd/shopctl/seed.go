package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"seafood-shop/internal/domain"
	"seafood-shop/internal/service"
)

type sample struct {
	category string
	product  service.ProductInput
}

func samples() []sample {
	v := func(name string, price int64, unit string) service.VariantInput {
		return service.VariantInput{Name: name, Price: domain.Money(price), Unit: unit}
	}
	return []sample{
		{"Hải sản Tươi", service.ProductInput{
			Name: "Tôm sú", Type: "tôm", Description: "Tôm sú nuôi Cà Mau",
			Variants: []service.VariantInput{v("Size 20 con/kg", 420000, "kg"), v("Size 30 con/kg", 320000, "kg")},
		}},
		{"Hải sản Tươi", service.ProductInput{
			Name: "Cua Cà Mau", Type: "cua", Description: "Cua gạch",
			Variants: []service.VariantInput{v("Cua gạch", 550000, "kg")},
		}},
		{"Hải sản Khô", service.ProductInput{
			Name: "Mực khô", Type: "mực",
			Variants: []service.VariantInput{v("Loại 1", 1200000, "kg"), v("Gói 200g", 250000, "gói")},
		}},
		{"Hải sản Đông lạnh", service.ProductInput{
			Name: "Cá hồi phi lê", Type: "cá",
			Variants: []service.VariantInput{v("Khay 500g", 280000, "khay")},
		}},
	}
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample products; existing names are skipped",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, done, err := open()
		if err != nil {
			return err
		}
		defer done()

		n, err := seed(cmd.Context(), e.svc.Catalog)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seed(ctx context.Context, catalog *service.CatalogService) (int, error) {
	cats, err := catalog.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	ids := make(map[string]string, len(cats))
	for _, c := range cats {
		ids[c.Name] = c.ID
	}

	created := 0
	for _, s := range samples() {
		id, ok := ids[s.category]
		if !ok {
			return created, fmt.Errorf("category %q missing, run migrate first", s.category)
		}
		s.product.CategoryID = id
		_, err := catalog.CreateProduct(ctx, service.Actor{Role: domain.RoleAdmin}, s.product)
		if domain.IsKind(err, domain.KindConflict) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", s.product.Name, err)
		}
		created++
	}
	return created, nil
}
