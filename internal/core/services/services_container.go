package services

import (
	portsrepo "github.com/SscSPs/campus_coin_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_coin_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// queue and renderer may be nil, which disables notifications and QR codes respectively.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	queue portssvc.NotificationQueue,
	renderer portssvc.CouponImageRenderer,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	opts := []TransferServiceOption{
		WithCouponCodeGenerator(NewCouponCodeGenerator(cfg.CouponPrefix)),
		WithSemesterCreditAmount(cfg.SemesterCreditAmount),
	}
	if queue != nil {
		opts = append(opts, WithNotificationQueue(queue))
	}
	if renderer != nil {
		opts = append(opts, WithCouponRenderer(renderer))
	}

	container.Transfer = NewTransferService(repos.LedgerRepo, repos.HolderRepo, repos.DirectoryRepo, opts...)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.HolderRepo, repos.DirectoryRepo)
	container.Coupon = NewCouponService(repos.LedgerRepo, repos.DirectoryRepo, renderer, queue)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TransferSvc     = (*transferService)(nil)
	_ portssvc.LedgerSvcFacade = (*ledgerService)(nil)
	_ portssvc.CouponSvc       = (*couponService)(nil)
)
