// Package firestore stores recharge codes and transactions in Cloud Firestore,
// in the rechargeCodes and transactions collections.
package firestore

import (
	"context"
	"fmt"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"recharge-inventory/internal/config"
	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/ports/repository"
)

const (
	CodesCollection        = "rechargeCodes"
	TransactionsCollection = "transactions"
)

// NewClient opens a Firestore client for the configured project. Without a
// credentials file, Application Default Credentials are used.
func NewClient(ctx context.Context, cfg config.FirebaseConfig) (*gfs.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	cli, err := gfs.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return cli, nil
}

// asTx unwraps a repository.Tx. A nil handle means "no transaction".
func asTx(tx repository.Tx) (*gfs.Transaction, error) {
	switch v := tx.(type) {
	case nil:
		return nil, nil
	case *gfs.Transaction:
		return v, nil
	default:
		return nil, domain.ErrInvalidExecContext
	}
}

// mapErr translates gRPC status codes into domain errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return domain.ErrNotFound
	case codes.AlreadyExists:
		return domain.ErrAlreadyExists
	}
	return err
}
