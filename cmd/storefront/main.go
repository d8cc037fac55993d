package main

import (
	"context"
	"log"

	"github.com/flourever/storefront/internal/config"
	"github.com/flourever/storefront/internal/database"
	"github.com/flourever/storefront/internal/mail"
	"github.com/flourever/storefront/internal/order"
	"github.com/flourever/storefront/internal/product"
	"github.com/flourever/storefront/internal/user"
)

// @title FlourEver Storefront API
// @version 1.0
// @description Bakery storefront backend: catalog, checkout, order tracking and admin.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTPAddr != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass)
	}

	r := newRouter(deps{
		cfg:      cfg,
		products: product.NewPGRepo(pool),
		users:    user.NewPGRepo(pool),
		orders:   order.NewPGRepo(pool),
		mailer:   mailer,
	})

	log.Printf("storefront listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
