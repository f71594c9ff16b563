// Command seed loads recharge codes from a CSV file and mints development
// session tokens.
//
//	seed -config config.yaml -csv codes.csv
//	seed -config config.yaml -mint admin -user alice
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"recharge-inventory/internal/config"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/repository"
	fs "recharge-inventory/internal/infra/db/firestore"
	pg "recharge-inventory/internal/infra/db/postgres"
	"recharge-inventory/internal/infra/i18n"
	"recharge-inventory/internal/infra/logging"
	"recharge-inventory/internal/infra/web"
	"recharge-inventory/internal/usecase"
)

func main() {
	csvPath := flag.String("csv", "", "CSV file to import (code,type,platform,denomination,purchasePrice,salePrice,purchaseDate)")
	mintRole := flag.String("mint", "", "print a session token for this role (admin|vendor) and exit")
	userID := flag.String("user", "dev-admin", "user id for -mint and for the import actor")
	cfgPath, dev := config.ParseFlags()

	cfg, err := config.LoadConfig(cfgPath, dev)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *mintRole != "" {
		if cfg.Auth.Provider != config.AuthJWT {
			log.Fatalf("-mint needs auth.provider=jwt, got %q", cfg.Auth.Provider)
		}
		am := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, false, "", cfg.Auth.TokenTTL)
		tok, err := am.Mint(&model.User{ID: *userID, Role: model.Role(*mintRole)})
		if err != nil {
			log.Fatalf("mint: %v", err)
		}
		fmt.Println(tok)
		return
	}

	if *csvPath == "" {
		log.Fatal("nothing to do: pass -csv or -mint")
	}
	content, err := os.ReadFile(*csvPath)
	if err != nil {
		log.Fatalf("read %s: %v", *csvPath, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var (
		codes repository.RechargeCodeRepository
		txs   repository.TransactionRepository
		tm    repository.TransactionManager
	)
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := pg.NewPgxPool(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		codes, txs, tm = pg.NewRechargeCodeRepo(pool), pg.NewTransactionRepo(pool), pg.NewTxManager(pool)
	case config.DriverFirestore:
		client, err := fs.NewClient(ctx, cfg.Firebase)
		if err != nil {
			log.Fatalf("firestore: %v", err)
		}
		defer client.Close()
		codes, txs, tm = fs.NewRechargeCodeRepo(client), fs.NewTransactionRepo(client), fs.NewTxManager(client)
	default:
		log.Fatal("storage.driver must be set to seed data")
	}

	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Locale)
	if err != nil {
		tr = i18n.MustDefault()
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	uc := usecase.NewInventoryUseCase(codes, txs, tm, logger, usecase.WithTranslator(tr))

	actor := &model.User{ID: *userID, Role: model.RoleAdmin}
	res, created, err := uc.ImportCSV(ctx, actor, string(content))
	if err != nil {
		var detailed *usecase.DetailedError
		if errors.As(err, &detailed) {
			for _, item := range detailed.Items {
				fmt.Fprintln(os.Stderr, "  -", item)
			}
		}
		log.Fatalf("import: %v", err)
	}
	fmt.Printf("imported %d of %d rows\n", len(created), len(res.Candidates))
}
