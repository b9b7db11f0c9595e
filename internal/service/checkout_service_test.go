package service

import (
	"context"
	"errors"
	"testing"

	"avin-home/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walkToReview fills a cart and moves a fresh checkout to the review step
func walkToReview(t *testing.T, env *testEnv, cartID string, method domain.PaymentMethod) {
	t.Helper()
	ctx := context.Background()

	_, err := env.checkoutService.Start(ctx, cartID, nil)
	require.NoError(t, err)
	_, err = env.checkoutService.UpdateShipping(ctx, cartID, validShipping())
	require.NoError(t, err)
	_, err = env.checkoutService.Next(ctx, cartID)
	require.NoError(t, err)
	_, err = env.checkoutService.SelectPayment(ctx, cartID, method)
	require.NoError(t, err)
	state, err := env.checkoutService.Next(ctx, cartID)
	require.NoError(t, err)
	require.Equal(t, domain.StepReview, state.Checkout.Step)
}

func TestCheckoutStartRequiresItems(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.checkoutService.Start(context.Background(), "empty", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = env.checkoutService.Get(context.Background(), "empty")
	assert.ErrorIs(t, err, domain.ErrCheckoutNotFound)
}

func TestCheckoutStartPrefillsCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(t, "p", 100_000, 5)
	_, err := env.cartService.AddProduct(ctx, "c", "p", 1)
	require.NoError(t, err)

	state, err := env.checkoutService.Start(ctx, "c", &domain.Customer{ID: "user-7", Email: "u7@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "user-7", state.Checkout.UserID)
	assert.Equal(t, "u7@example.com", state.Checkout.Shipping.Email)
	assert.Equal(t, domain.StepShipping, state.Checkout.Step)
	assert.Equal(t, domain.PaymentBankTransfer, state.Checkout.PaymentMethod)
}

func TestCheckoutNextRejectsInvalidShipping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(t, "p", 100_000, 5)
	_, err := env.cartService.AddProduct(ctx, "c", "p", 1)
	require.NoError(t, err)

	_, err = env.checkoutService.Start(ctx, "c", nil)
	require.NoError(t, err)

	info := validShipping()
	info.Email = "not-an-email"
	info.Phone = "0812abc"
	info.PostalCode = "40A15"
	info.City = ""
	_, err = env.checkoutService.UpdateShipping(ctx, "c", info)
	require.NoError(t, err)

	_, err = env.checkoutService.Next(ctx, "c")
	require.ErrorIs(t, err, domain.ErrShippingInvalid)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	fields := map[string]bool{}
	for _, f := range validationErr.Fields {
		fields[f.Field] = true
	}
	assert.Equal(t, map[string]bool{"email": true, "phone": true, "postal_code": true, "city": true}, fields)

	state, err := env.checkoutService.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, domain.StepShipping, state.Checkout.Step)
	assert.Len(t, state.Checkout.Errors, 4)
}

func TestCheckoutStepsCannotBeSkipped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(t, "p", 100_000, 5)
	_, err := env.cartService.AddProduct(ctx, "c", "p", 1)
	require.NoError(t, err)
	_, err = env.checkoutService.Start(ctx, "c", nil)
	require.NoError(t, err)

	_, err = env.checkoutService.Back(ctx, "c")
	assert.ErrorIs(t, err, domain.ErrInvalidStep)

	_, err = env.checkoutService.SelectPayment(ctx, "c", domain.PaymentCOD)
	assert.ErrorIs(t, err, domain.ErrInvalidStep)

	_, err = env.checkoutService.Confirm(ctx, "c")
	assert.ErrorIs(t, err, domain.ErrInvalidStep)

	walkToReview(t, env, "c", domain.PaymentEWallet)

	_, err = env.checkoutService.Next(ctx, "c")
	assert.ErrorIs(t, err, domain.ErrInvalidStep)

	state, err := env.checkoutService.Back(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, domain.StepPayment, state.Checkout.Step)

	_, err = env.checkoutService.SelectPayment(ctx, "c", "barter")
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)
}

func TestCheckoutConfirmPlacesOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(t, "table", 500_000, 10)
	_, err := env.cartService.AddProduct(ctx, "c", "table", 2)
	require.NoError(t, err)

	walkToReview(t, env, "c", domain.PaymentBankTransfer)

	order, err := env.checkoutService.Confirm(ctx, "c")
	require.NoError(t, err)

	assert.Regexp(t, orderIDPattern, order.ID)
	assert.True(t, order.Subtotal.Equal(idr(1_000_000)))
	assert.True(t, order.ShippingFee.Equal(idr(50_000)))
	assert.True(t, order.Tax.Equal(idr(110_000)))
	assert.True(t, order.CODFee.IsZero())
	assert.True(t, order.TotalAmount.Equal(idr(1_160_000)), "total %s", order.TotalAmount)
	assert.Equal(t, "Siti Rahma", order.CustomerName)
	assert.Equal(t, "siti@example.com", order.CustomerEmail)
	assert.Equal(t, "siti@example.com", order.UserID)
	assert.Equal(t, "Bandung", order.ShippingAddress.City)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// a second confirmation of the same flow is rejected
	_, err = env.checkoutService.Confirm(ctx, "c")
	assert.ErrorIs(t, err, domain.ErrCheckoutProcessing)

	// the cart survives until the delayed clear runs
	cart, err := env.cartService.Get(ctx, "c")
	require.NoError(t, err)
	assert.False(t, cart.IsEmpty())
	require.Len(t, env.scheduled, 1)

	env.runScheduled()

	cart, err = env.cartService.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	_, err = env.checkoutService.Get(ctx, "c")
	assert.ErrorIs(t, err, domain.ErrCheckoutNotFound)

	stored, err := env.orderService.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, stored.Status)
}

func TestCheckoutCODSurchargeAppearsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(t, "bed", 2_500_000, 3)
	_, err := env.cartService.AddProduct(ctx, "c", "bed", 1)
	require.NoError(t, err)

	walkToReview(t, env, "c", domain.PaymentCOD)

	order, err := env.checkoutService.Confirm(ctx, "c")
	require.NoError(t, err)

	// 2,500,000 + free shipping + 275,000 tax + 10,000 COD
	assert.True(t, order.ShippingFee.IsZero())
	assert.True(t, order.CODFee.Equal(idr(10_000)))
	assert.True(t, order.TotalAmount.Equal(idr(2_785_000)), "total %s", order.TotalAmount)
}

func TestCheckoutConfirmBlockedByStockConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(t, "chair", 300_000, 5)
	_, err := env.cartService.AddProduct(ctx, "c", "chair", 4)
	require.NoError(t, err)

	walkToReview(t, env, "c", domain.PaymentCreditCard)

	stock := 1
	_, err = env.products.Update(ctx, "chair", domain.ProductPatch{Stock: &stock})
	require.NoError(t, err)

	_, err = env.checkoutService.Confirm(ctx, "c")
	require.ErrorIs(t, err, domain.ErrStockExceeded)

	var conflict *StockConflictError
	require.True(t, errors.As(err, &conflict))
	require.Len(t, conflict.Warnings, 1)
	assert.Equal(t, 4, conflict.Warnings[0].Requested)
	assert.Equal(t, 1, conflict.Warnings[0].Available)

	orders, err := env.orderService.ListByStatus(ctx, "all")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, env.scheduled)

	// the flow is released so the customer can fix the cart and retry
	_, err = env.cartService.SetQuantity(ctx, "c", "chair", 1)
	require.NoError(t, err)
	order, err := env.checkoutService.Confirm(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 1, order.Items[0].Quantity)
}

func TestCheckoutConfirmEmptiedCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(t, "rug", 150_000, 5)
	_, err := env.cartService.AddProduct(ctx, "c", "rug", 1)
	require.NoError(t, err)

	walkToReview(t, env, "c", domain.PaymentBankTransfer)
	require.NoError(t, env.cartService.Clear(ctx, "c"))

	_, err = env.checkoutService.Confirm(ctx, "c")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCheckoutStartBlockedUntilOrderedCartIsCleared(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(t, "sofa", 800_000, 10)
	_, err := env.cartService.AddProduct(ctx, "c", "sofa", 1)
	require.NoError(t, err)

	walkToReview(t, env, "c", domain.PaymentBankTransfer)
	_, err = env.checkoutService.Confirm(ctx, "c")
	require.NoError(t, err)

	// the cart still holds the ordered sofa until the delayed clear runs
	_, err = env.checkoutService.Start(ctx, "c", nil)
	require.ErrorIs(t, err, domain.ErrCheckoutCompleted)

	state, err := env.checkoutService.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, state.Checkout.Complete())

	orders, err := env.orderService.ListByStatus(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	env.runScheduled()

	_, err = env.cartService.AddProduct(ctx, "c", "sofa", 1)
	require.NoError(t, err)
	state, err = env.checkoutService.Start(ctx, "c", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StepShipping, state.Checkout.Step)
	assert.False(t, state.Checkout.Complete())
}

func TestCheckoutClearKeepsLinesAddedAfterOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addProduct(t, "desk", 1_200_000, 5)
	env.addProduct(t, "lamp", 250_000, 5)
	_, err := env.cartService.AddProduct(ctx, "c", "desk", 1)
	require.NoError(t, err)

	walkToReview(t, env, "c", domain.PaymentEWallet)
	_, err = env.checkoutService.Confirm(ctx, "c")
	require.NoError(t, err)

	_, err = env.cartService.AddProduct(ctx, "c", "lamp", 2)
	require.NoError(t, err)

	env.runScheduled()

	cart, err := env.cartService.Get(ctx, "c")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "lamp", cart.Items[0].ID)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	_, err = env.checkoutService.Get(ctx, "c")
	assert.ErrorIs(t, err, domain.ErrCheckoutNotFound)
}
