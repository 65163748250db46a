package main

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/diewo77/go-orders/i18n"
	"github.com/diewo77/go-orders/internal/config"
	"github.com/diewo77/go-orders/internal/db"
	"github.com/diewo77/go-orders/internal/render"
	"github.com/diewo77/go-orders/internal/services"
	"github.com/diewo77/go-orders/internal/storage"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:           "orders",
		Short:         "Order management and invoice printing",
		Long:          "Record customer orders, keep company settings and print invoices from the browser or the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&lang, "lang", "", "language for printed output (ar, en); defaults to APP_LANG")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newListCmd(&lang))
	cmd.AddCommand(newCreateCmd(&lang))
	cmd.AddCommand(newPrintCmd(&lang))
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newSettingsCmd())
	return cmd
}

// deps are the collaborators shared by the commands and the HTTP app.
type deps struct {
	cfg      *config.Config
	db       *gorm.DB
	orders   *services.OrderRepository
	settings *services.SettingsStore
	renderer *render.Renderer
}

// bootstrap connects the database, ensures the schema and loads the repositories.
func bootstrap() (*deps, error) {
	cfg := config.Load()
	conn, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	node, err := snowflake.NewNode(cfg.App.NodeID)
	if err != nil {
		return nil, fmt.Errorf("invalid NODE_ID: %w", err)
	}
	store := storage.NewGormStore(conn, cfg.Storage.QuotaBytes)
	orders, err := services.NewOrderRepository(store, node)
	if err != nil {
		return nil, err
	}
	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, err
	}
	return &deps{
		cfg:      cfg,
		db:       conn,
		orders:   orders,
		settings: services.NewSettingsStore(store),
		renderer: renderer,
	}, nil
}

func (d *deps) Close() {
	if sqlDB, err := d.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// language picks the --lang flag over the configured default.
func (d *deps) language(flag string) string {
	if i18n.Supported(flag) {
		return flag
	}
	if i18n.Supported(d.cfg.App.Lang) {
		return d.cfg.App.Lang
	}
	return i18n.Default
}
