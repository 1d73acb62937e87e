package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	catalogapp "github.com/servicehub/admin/internal/application/catalog"
	"github.com/servicehub/admin/internal/domain/catalog"
	csvimport "github.com/servicehub/admin/internal/infrastructure/import"
	"github.com/servicehub/admin/internal/infrastructure/logger"
	"github.com/servicehub/admin/internal/infrastructure/migration"
	"github.com/servicehub/admin/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seedFile           string
	seedTenant         string
	seedSpecialtiesCSV string
	seedProductsCSV    string
)

// seedCmd loads the starter catalog through the catalog services, so codes,
// rates and prices go through the same validation as the API.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load specialties and products from YAML or CSV files",
	Long: `Creates the specialties and products of the files that the tenant does not
have yet. Existing codes are skipped, so the command can be re-run after
editing a file. Products are repriced once the new specialties exist.

Spreadsheet exports are accepted through --specialties-csv and --products-csv
(one row per task, comma or semicolon separated). Their entries are added to
the YAML document; pass --file "" to load the spreadsheets alone.

Works with both database drivers; on sqlite the schema is created first.`,
	Example: `  migrate seed --file seeds/catalog.yaml --tenant 00000000-0000-0000-0000-000000000001
  migrate seed --file "" --specialties-csv seeds/specialties.csv --products-csv seeds/products.csv`,
	Args:    cobra.NoArgs,
	RunE:    runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "seeds/catalog.yaml", "seed document")
	seedCmd.Flags().StringVar(&seedTenant, "tenant", "", "tenant id (default bootstrap.tenant_id)")
	seedCmd.Flags().StringVar(&seedSpecialtiesCSV, "specialties-csv", "", "specialty spreadsheet (CSV)")
	seedCmd.Flags().StringVar(&seedProductsCSV, "products-csv", "", "product spreadsheet (CSV), one row per task")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedTenant == "" {
		seedTenant = cfg.Bootstrap.TenantID
	}
	tenantID, err := uuid.Parse(seedTenant)
	if err != nil {
		return fmt.Errorf("invalid tenant id %q: %w", seedTenant, err)
	}

	seed, err := loadSeed()
	if err != nil {
		return err
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
	}

	specialtyRepo := persistence.NewGormSpecialtyRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	calculator := catalog.NewPriceCalculator(catalog.PriceTable{
		QualificationFeePct: decimal.NewFromFloat(cfg.Pricing.QualificationFeePct),
		TaxPct:              decimal.NewFromFloat(cfg.Pricing.TaxPct),
		OperationalFeePct:   decimal.NewFromFloat(cfg.Pricing.OperationalFeePct),
	})

	productService := catalogapp.NewProductService(productRepo, specialtyRepo, calculator, nil)
	productService.SetLogger(log)
	seeder := migration.NewSeeder(catalogapp.NewSpecialtyService(specialtyRepo, productRepo), productService, log)

	log.Info("Seeding catalog",
		zap.String("file", seedFile),
		zap.String("tenant_id", tenantID.String()),
		zap.String("driver", cfg.Database.Driver),
	)
	result, err := seeder.Apply(cmd.Context(), tenantID, seed)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "specialties: %d created, %d skipped\nproducts: %d created, %d skipped, %d repriced\n",
		result.SpecialtiesCreated, result.SpecialtiesSkipped,
		result.ProductsCreated, result.ProductsSkipped, result.ProductsRepriced)
	return nil
}

// loadSeed combines the YAML document with the spreadsheets given on the
// command line
func loadSeed() (*migration.CatalogSeed, error) {
	seed := &migration.CatalogSeed{}
	if seedFile != "" {
		var err error
		if seed, err = migration.LoadCatalogSeed(seedFile); err != nil {
			return nil, err
		}
	}

	if seedSpecialtiesCSV != "" {
		specialties, err := readCSV(seedSpecialtiesCSV, csvimport.ReadSpecialties)
		if err != nil {
			return nil, err
		}
		seed.Merge(&migration.CatalogSeed{Specialties: specialties})
	}
	if seedProductsCSV != "" {
		products, err := readCSV(seedProductsCSV, csvimport.ReadProducts)
		if err != nil {
			return nil, err
		}
		seed.Merge(&migration.CatalogSeed{Products: products})
	}

	if len(seed.Specialties) == 0 && len(seed.Products) == 0 {
		return nil, fmt.Errorf("nothing to seed, pass --file or a CSV flag")
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return seed, nil
}

func readCSV[T any](path string, read func(io.Reader, ...csvimport.ParserOption) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info("Spreadsheet loaded", zap.String("file", path), zap.Int("entries", len(rows)))
	return rows, nil
}
