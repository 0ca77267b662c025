package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	"github.com/SscSPs/campus_coin_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func couponFixture(t *testing.T) (*memStore, *captureQueue) {
	t.Helper()
	store := newMemStore()
	store.addStudent("S1", "Sam", "100")
	store.addStudent("S2", "Sol", "0")
	store.addPerk(domain.Perk{ID: "PK1", Name: "Free coffee", Price: dec("30"), Active: true, CompanyName: "Campus Cafe"})

	transfers := services.NewTransferService(store, store, store,
		services.WithCouponCodeGenerator(func() string { return "CUP-QR000001" }))
	_, err := transfers.RedeemPerk(context.Background(), "S1", "PK1")
	require.NoError(t, err)
	_, err = transfers.TransferCoupon(context.Background(), "CUP-QR000001", "S1", "S2")
	require.NoError(t, err)

	return store, &captureQueue{}
}

func TestCouponService_CouponQRCode(t *testing.T) {
	store, queue := couponFixture(t)
	svc := services.NewCouponService(store, store, stubRenderer{}, queue)

	png, err := svc.CouponQRCode(context.Background(), "cup-qr000001")
	require.NoError(t, err)
	assert.Equal(t, []byte("png:CUP-QR000001"), png)

	_, err = svc.CouponQRCode(context.Background(), "CUP-MISSING0")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	failing := services.NewCouponService(store, store, stubRenderer{err: errors.New("encoder")}, queue)
	_, err = failing.CouponQRCode(context.Background(), "CUP-QR000001")
	assert.ErrorIs(t, err, apperrors.ErrInternal)
}

func TestCouponService_ResendGoesToCurrentOwner(t *testing.T) {
	store, queue := couponFixture(t)
	svc := services.NewCouponService(store, store, stubRenderer{}, queue)

	require.NoError(t, svc.ResendCoupon(context.Background(), "CUP-QR000001"))

	sent := queue.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "S2@students.uni.test", sent[0].To)
	assert.Contains(t, sent[0].Body, "Free coffee")
	assert.Equal(t, []byte("png:CUP-QR000001"), sent[0].InlineImage)
}

func TestCouponService_ResendFailures(t *testing.T) {
	store, queue := couponFixture(t)

	svc := services.NewCouponService(store, store, stubRenderer{}, queue)
	assert.ErrorIs(t, svc.ResendCoupon(context.Background(), "CUP-MISSING0"), apperrors.ErrNotFound)

	queue.full = true
	assert.ErrorIs(t, svc.ResendCoupon(context.Background(), "CUP-QR000001"), apperrors.ErrInternal)
}
