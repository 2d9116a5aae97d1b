package cli

import (
	"time"

	"gorm.io/gorm"

	"marketplace/internal/config"
	infra "marketplace/internal/infra/repository"
	"marketplace/internal/repository"
	"marketplace/internal/usecase"
	"marketplace/internal/usecase/auth"
)

// App holds every wired dependency. Both the interactive shell and the HTTP
// server are built from it.
type App struct {
	Cfg config.Config

	Users repository.UserRepository

	Register *auth.RegisterUsecase
	Login    *auth.LoginUsecase
	Password *auth.ChangePasswordUsecase

	Products   *usecase.ProductUsecase
	Businesses *usecase.BusinessUsecase
	Cart       *usecase.CartUsecase
	Orders     *usecase.OrderUsecase
}

func NewApp(cfg config.Config, gormDB *gorm.DB) *App {
	userRepo := infra.NewUserGormRepository(gormDB)
	businessRepo := infra.NewBusinessGormRepository(gormDB)
	productRepo := infra.NewProductGormRepository(gormDB)
	cartItemRepo := infra.NewCartItemGormRepository(gormDB)
	orderRepo := infra.NewOrderGormRepository(gormDB)
	orderItemRepo := infra.NewOrderItemGormRepository(gormDB)
	inventoryRepo := infra.NewInventoryGormRepository(gormDB)
	txManager := infra.NewTxManagerGorm(gormDB)

	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, 15*time.Minute)

	return &App{
		Cfg:   cfg,
		Users: userRepo,

		Register: auth.NewRegisterUsecase(userRepo, hasher),
		Login:    auth.NewLoginUsecase(userRepo, verifier, issuer),
		Password: auth.NewChangePasswordUsecase(userRepo, hasher, verifier),

		Products:   usecase.NewProductUsecase(productRepo, inventoryRepo, businessRepo, txManager),
		Businesses: usecase.NewBusinessUsecase(businessRepo),
		Cart:       usecase.NewCartUsecase(cartItemRepo, productRepo),
		Orders:     usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, businessRepo),
	}
}
