package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain/model"
	"marketplace/internal/usecase"
)

func TestBusinessLifecycle(t *testing.T) {
	ctx := context.Background()
	merchant := model.User{ID: 1, Role: model.RoleMerchant}

	t.Run("register then read back", func(t *testing.T) {
		store := newMemStore()
		uc := usecase.NewBusinessUsecase(memBusinesses{store})

		b, err := uc.Register(ctx, merchant, usecase.BusinessAttrs{
			Name: "  Roastery  ", ContactEmail: "hello@roastery.test",
		})
		require.NoError(t, err)
		assert.Equal(t, "Roastery", b.Name)

		got, err := uc.GetMine(ctx, merchant)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	})

	t.Run("one business per merchant", func(t *testing.T) {
		store := newMemStore()
		uc := usecase.NewBusinessUsecase(memBusinesses{store})

		_, err := uc.Register(ctx, merchant, usecase.BusinessAttrs{Name: "Roastery"})
		require.NoError(t, err)
		_, err = uc.Register(ctx, merchant, usecase.BusinessAttrs{Name: "Second"})
		assert.ErrorIs(t, err, usecase.ErrInvalidAttributes)
	})

	t.Run("customers cannot register one", func(t *testing.T) {
		store := newMemStore()
		uc := usecase.NewBusinessUsecase(memBusinesses{store})

		_, err := uc.Register(ctx, model.User{ID: 2, Role: model.RoleCustomer}, usecase.BusinessAttrs{Name: "Nope"})
		assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	})

	t.Run("update", func(t *testing.T) {
		store := newMemStore()
		uc := usecase.NewBusinessUsecase(memBusinesses{store})

		_, err := uc.Register(ctx, merchant, usecase.BusinessAttrs{Name: "Roastery"})
		require.NoError(t, err)

		b, err := uc.Update(ctx, merchant, usecase.BusinessAttrs{Name: "Roastery & Co", Description: "beans"})
		require.NoError(t, err)
		assert.Equal(t, "Roastery & Co", b.Name)
		assert.Equal(t, "beans", b.Description)
	})

	t.Run("update before registering", func(t *testing.T) {
		store := newMemStore()
		uc := usecase.NewBusinessUsecase(memBusinesses{store})

		_, err := uc.Update(ctx, merchant, usecase.BusinessAttrs{Name: "Ghost"})
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})
}
