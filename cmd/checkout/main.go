package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/greencart/checkout-client/internal/checkout"
	"github.com/greencart/checkout-client/internal/checkout/hosted"
	"github.com/greencart/checkout-client/internal/ledger"
	"github.com/greencart/checkout-client/internal/receipts"
	"github.com/greencart/checkout-client/internal/receipts/pdfrender"
	"github.com/greencart/checkout-client/pkg/auth"
	"github.com/greencart/checkout-client/pkg/config"
	"github.com/greencart/checkout-client/pkg/db"
	pkgerrors "github.com/greencart/checkout-client/pkg/errors"
	"github.com/greencart/checkout-client/pkg/logger"
	"github.com/greencart/checkout-client/pkg/metrics"
	"github.com/greencart/checkout-client/pkg/storefront"
)

const usage = `usage: checkout <command> [flags]

commands:
  pay      create an order, collect the payment, and deliver the receipt
  receipt  regenerate the receipt for an already captured payment
  history  list recorded receipt artifacts for a payment
`

func main() {
	logg := logger.New(logger.Options{ServiceName: "checkout"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "checkout",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap", err)
		os.Exit(1)
	}
	defer app.close(logg)

	switch os.Args[1] {
	case "pay":
		err = runPay(ctx, app, os.Args[2:])
	case "receipt":
		err = runReceipt(ctx, app, os.Args[2:])
	case "history":
		err = runHistory(ctx, app, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		if cfg.App.IsDev() {
			logg.Debug(ctx, fmt.Sprintf("error chain: %v", pkgerrors.Dump(err).Chain))
		}
		logg.Error(ctx, pkgerrors.PublicMessage(err), err)
		os.Exit(1)
	}
}

// application holds the wired services for one CLI invocation.
type application struct {
	cfg      *config.Config
	logg     *logger.Logger
	client   *storefront.Client
	pipeline *receipts.Pipeline
	checkout *checkout.Service
	ledger   ledger.Service
	dbClient *db.Client
}

func (a *application) close(logg *logger.Logger) {
	if a.dbClient != nil {
		if err := a.dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing ledger database", err)
		}
	}
}

func bootstrap(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*application, error) {
	credential := auth.NewCredential(cfg.API.Token)
	if credential.IsZero() {
		logg.Warn(ctx, "no api token configured, backend calls will be unauthenticated")
	} else if credential.Expired(time.Now()) {
		logg.Warn(ctx, "api token is expired")
	}

	client, err := storefront.NewClient(credential, storefront.WithBaseURL(cfg.API.BaseURL))
	if err != nil {
		return nil, err
	}

	app := &application{cfg: cfg, logg: logg, client: client}

	if cfg.Ledger.SQLitePath != "" {
		dbClient, err := db.New(ctx, cfg.Ledger, logg)
		if err != nil {
			return nil, err
		}
		app.dbClient = dbClient
		ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()))
		if err != nil {
			return nil, err
		}
		app.ledger = ledgerService
	}

	renderer := pdfrender.New(cfg.Checkout.BrandName)
	pipeline, err := receipts.NewPipeline(receipts.PipelineParams{
		API:         client,
		Renderer:    renderer,
		Ledger:      app.ledger,
		Logger:      logg,
		OutputDir:   cfg.Receipt.OutputDir,
		RenderDelay: cfg.Receipt.RenderDelay,
	})
	if err != nil {
		return nil, err
	}
	app.pipeline = pipeline

	gateway, err := hosted.New(cfg.Checkout, logg)
	if err != nil {
		return nil, err
	}
	loader, err := checkout.NewSessionLoader(cfg.Checkout.ScriptURL, logg)
	if err != nil {
		return nil, err
	}
	service, err := checkout.NewService(checkout.ServiceParams{
		Orders:   client,
		Gateway:  gateway,
		Pipeline: pipeline,
		Loader:   loader,
		Metrics:  metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}
	app.checkout = service

	return app, nil
}

func runPay(ctx context.Context, app *application, args []string) error {
	flags := flag.NewFlagSet("pay", flag.ExitOnError)
	amount := flags.Int64("amount", 0, "amount in minor units (paise)")
	currency := flags.String("currency", "INR", "3-letter currency code")
	name := flags.String("name", "", "customer name")
	email := flags.String("email", "", "customer email")
	phone := flags.String("phone", "", "customer phone")
	addressID := flags.String("address", "", "delivery address id")
	if err := flags.Parse(args); err != nil {
		return err
	}

	result, err := app.checkout.Pay(ctx, checkout.PayInput{
		AmountMinor:       *amount,
		Currency:          *currency,
		CustomerName:      *name,
		CustomerEmail:     *email,
		CustomerPhone:     *phone,
		DeliveryAddressID: *addressID,
	})
	if err != nil {
		return err
	}
	if result.Receipt != nil && result.Receipt.ArtifactPath != "" {
		fmt.Println(result.Receipt.ArtifactPath)
	}
	return nil
}

func runReceipt(ctx context.Context, app *application, args []string) error {
	flags := flag.NewFlagSet("receipt", flag.ExitOnError)
	paymentID := flags.String("payment", "", "payment id to regenerate the receipt for")
	name := flags.String("name", "", "customer name")
	email := flags.String("email", "", "customer email")
	phone := flags.String("phone", "", "customer phone")
	addressID := flags.String("address", "", "delivery address id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *paymentID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}

	result, err := app.pipeline.Regenerate(ctx, *paymentID, receipts.CustomerInfo{
		Name:              *name,
		Email:             *email,
		Phone:             *phone,
		DeliveryAddressID: *addressID,
	})
	if err != nil {
		return err
	}
	fmt.Println(result.ArtifactPath)
	return nil
}

func runHistory(ctx context.Context, app *application, args []string) error {
	flags := flag.NewFlagSet("history", flag.ExitOnError)
	paymentID := flags.String("payment", "", "payment id to list artifacts for")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *paymentID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	if app.ledger == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "artifact ledger is disabled, set GREENCART_LEDGER_SQLITE_PATH")
	}

	artifacts, err := app.ledger.History(ctx, *paymentID)
	if err != nil {
		return err
	}
	for _, artifact := range artifacts {
		fmt.Printf("%s\t%s\t%d bytes\t%s\n",
			artifact.CreatedAt.Format(time.RFC3339),
			artifact.FileName,
			artifact.ByteSize,
			artifact.Outcome,
		)
	}
	return nil
}
