package service

import (
	"context"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
)

type storeUserDirectory struct {
	store Store
}

// NewUserDirectory резолвит пользователей из собственной таблицы users.
func NewUserDirectory(store Store) UserDirectory {
	return &storeUserDirectory{store: store}
}

func (d *storeUserDirectory) Resolve(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u *models.User
	err := d.store.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		u, err = tx.Users.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}
