package order

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shopviet-be/internal/product"
	"shopviet-be/internal/settings"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTx(ctx context.Context, o *Order, clearCartUserID *uint) (*Order, error) {
	args := m.Called(ctx, o, clearCartUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uint, filter ListFilter) ([]*Order, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListAdmin(ctx context.Context, filter AdminListFilter) ([]*Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uint, status Status, reason *string, restoreStock bool) error {
	args := m.Called(ctx, id, status, reason, restoreStock)
	return args.Error(0)
}

func (m *MockRepository) UpdatePaymentInfo(ctx context.Context, id uint, update PaymentUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockRepository) SoftDelete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Statistics(ctx context.Context) (*Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Statistics), args.Error(1)
}

type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) OrderConfirmation(ctx context.Context, o *Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockNotifier) OrderStatusChanged(ctx context.Context, o *Order, previous Status) error {
	args := m.Called(ctx, o, previous)
	return args.Error(0)
}

// fakeSettings returns the defaults used by the live settings table.
type fakeSettings map[string]float64

func (f fakeSettings) Number(key string, fallback float64) float64 {
	if v, ok := f[key]; ok {
		return v
	}
	return fallback
}

func defaultSettings() fakeSettings {
	return fakeSettings{
		settings.KeyFreeShippingThreshold: 500000,
		settings.KeyFlatShippingFee:       30000,
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func catalogProduct(id uint, price int64, sale *int64, stock int) *product.Product {
	p := &product.Product{
		ID:            id,
		Name:          "Product",
		Price:         dec(price),
		StockQuantity: stock,
		IsActive:      true,
	}
	if sale != nil {
		p.SalePrice = decPtr(*sale)
	}
	return p
}

func validInput(items ...CreateItemInput) CreateInput {
	return CreateInput{
		Items:           items,
		CustomerName:    "Nguyen Van A",
		CustomerPhone:   "0901234567",
		CustomerEmail:   "a@example.com",
		ShippingAddress: "1 Le Loi",
		ShippingCity:    "TP. Hồ Chí Minh",
	}
}

func TestCreateOrderPricing(t *testing.T) {
	ctx := context.Background()

	t.Run("SalePriceWinsAndFlatShipping", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProducts := new(MockProductReader)
		mockNotifier := new(MockNotifier)
		svc := NewService(mockRepo, mockProducts, defaultSettings(), mockNotifier)

		sale := int64(90000)
		mockProducts.On("GetByID", ctx, uint(1)).Return(catalogProduct(1, 100000, &sale, 10), nil)

		mockRepo.On("CreateTx", ctx, mock.MatchedBy(func(o *Order) bool {
			return o.Subtotal.Equal(dec(180000)) &&
				o.ShippingFee.Equal(dec(30000)) &&
				o.Total.Equal(dec(210000)) &&
				o.Status == StatusPending &&
				o.PaymentStatus == PaymentUnpaid &&
				strings.HasPrefix(o.OrderNumber, "ORD") &&
				len(o.OrderNumber) == 15 &&
				o.Items[0].UnitPrice.Equal(dec(90000))
		}), mock.Anything).Return(&Order{ID: 1, OrderNumber: "ORD202601051234"}, nil)
		mockNotifier.On("OrderConfirmation", ctx, mock.Anything).Return(nil)

		created, err := svc.Create(ctx, 7, validInput(CreateItemInput{ProductID: 1, Quantity: 2}))
		require.NoError(t, err)
		assert.Equal(t, uint(1), created.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("FreeShippingAtThreshold", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProducts := new(MockProductReader)
		svc := NewService(mockRepo, mockProducts, defaultSettings(), nil)

		mockProducts.On("GetByID", ctx, uint(1)).Return(catalogProduct(1, 500000, nil, 10), nil)
		mockRepo.On("CreateTx", ctx, mock.MatchedBy(func(o *Order) bool {
			return o.ShippingFee.IsZero() && o.Total.Equal(dec(500000))
		}), mock.Anything).Return(&Order{ID: 2}, nil)

		_, err := svc.Create(ctx, 7, validInput(CreateItemInput{ProductID: 1, Quantity: 1}))
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ThresholdFromSettings", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProducts := new(MockProductReader)
		svc := NewService(mockRepo, mockProducts, fakeSettings{
			settings.KeyFreeShippingThreshold: 100000,
			settings.KeyFlatShippingFee:       15000,
		}, nil)

		mockProducts.On("GetByID", ctx, uint(1)).Return(catalogProduct(1, 50000, nil, 10), nil)
		mockRepo.On("CreateTx", ctx, mock.MatchedBy(func(o *Order) bool {
			return o.ShippingFee.Equal(dec(15000))
		}), mock.Anything).Return(&Order{ID: 3}, nil)

		_, err := svc.Create(ctx, 7, validInput(CreateItemInput{ProductID: 1, Quantity: 1}))
		require.NoError(t, err)
	})
}

func TestCreateOrderPaymentAndShipping(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsToCOD", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProducts := new(MockProductReader)
		svc := NewService(mockRepo, mockProducts, defaultSettings(), nil)

		mockProducts.On("GetByID", ctx, uint(1)).Return(catalogProduct(1, 100000, nil, 10), nil)
		mockRepo.On("CreateTx", ctx, mock.MatchedBy(func(o *Order) bool {
			return o.PaymentMethod != nil && *o.PaymentMethod == "cod" &&
				o.ShippingCity == "TP. Hồ Chí Minh" &&
				o.ShippingDistrict == nil
		}), mock.Anything).Return(&Order{ID: 1}, nil)

		_, err := svc.Create(ctx, 7, validInput(CreateItemInput{ProductID: 1, Quantity: 1}))
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ExplicitMethodAndLocalityKept", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProducts := new(MockProductReader)
		svc := NewService(mockRepo, mockProducts, defaultSettings(), nil)

		district := "Quận 1"
		ward := "Phường Bến Nghé"
		input := validInput(CreateItemInput{ProductID: 1, Quantity: 1})
		input.PaymentMethod = "vnpay"
		input.ShippingDistrict = &district
		input.ShippingWard = &ward

		mockProducts.On("GetByID", ctx, uint(1)).Return(catalogProduct(1, 100000, nil, 10), nil)
		mockRepo.On("CreateTx", ctx, mock.MatchedBy(func(o *Order) bool {
			return o.PaymentMethod != nil && *o.PaymentMethod == "vnpay" &&
				o.ShippingDistrict != nil && *o.ShippingDistrict == district &&
				o.ShippingWard != nil && *o.ShippingWard == ward
		}), mock.Anything).Return(&Order{ID: 2}, nil)

		_, err := svc.Create(ctx, 7, input)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyItems", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductReader), defaultSettings(), nil)
		_, err := svc.Create(ctx, 7, validInput())
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("MissingProduct", func(t *testing.T) {
		mockProducts := new(MockProductReader)
		svc := NewService(new(MockRepository), mockProducts, defaultSettings(), nil)

		mockProducts.On("GetByID", ctx, uint(9)).Return(nil, product.ErrProductNotFound)

		_, err := svc.Create(ctx, 7, validInput(CreateItemInput{ProductID: 9, Quantity: 1}))
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})

	t.Run("InactiveProduct", func(t *testing.T) {
		mockProducts := new(MockProductReader)
		svc := NewService(new(MockRepository), mockProducts, defaultSettings(), nil)

		p := catalogProduct(1, 100000, nil, 10)
		p.IsActive = false
		mockProducts.On("GetByID", ctx, uint(1)).Return(p, nil)

		_, err := svc.Create(ctx, 7, validInput(CreateItemInput{ProductID: 1, Quantity: 1}))
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		mockProducts := new(MockProductReader)
		svc := NewService(new(MockRepository), mockProducts, defaultSettings(), nil)

		mockProducts.On("GetByID", ctx, uint(1)).Return(catalogProduct(1, 100000, nil, 2), nil)

		_, err := svc.Create(ctx, 7, validInput(CreateItemInput{ProductID: 1, Quantity: 3}))
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})
}

func TestCreateOrderNumberRetry(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	mockProducts := new(MockProductReader)
	svc := NewService(mockRepo, mockProducts, defaultSettings(), nil)

	mockProducts.On("GetByID", ctx, uint(1)).Return(catalogProduct(1, 100000, nil, 10), nil)

	mockRepo.On("CreateTx", ctx, mock.Anything, mock.Anything).
		Return(nil, ErrDuplicateOrderNumber).Twice()
	mockRepo.On("CreateTx", ctx, mock.Anything, mock.Anything).
		Return(&Order{ID: 1, OrderNumber: "ORD202601050001"}, nil).Once()

	created, err := svc.Create(ctx, 7, validInput(CreateItemInput{ProductID: 1, Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, uint(1), created.ID)
	mockRepo.AssertNumberOfCalls(t, "CreateTx", 3)
}

func TestCreateOrderNumberRetryExhausted(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	mockProducts := new(MockProductReader)
	svc := NewService(mockRepo, mockProducts, defaultSettings(), nil)

	mockProducts.On("GetByID", ctx, uint(1)).Return(catalogProduct(1, 100000, nil, 10), nil)
	mockRepo.On("CreateTx", ctx, mock.Anything, mock.Anything).
		Return(nil, ErrDuplicateOrderNumber)

	_, err := svc.Create(ctx, 7, validInput(CreateItemInput{ProductID: 1, Quantity: 1}))
	assert.ErrorIs(t, err, ErrDuplicateOrderNumber)
	mockRepo.AssertNumberOfCalls(t, "CreateTx", 3)
}

func TestCreateOrderNotifierFailureIgnored(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	mockProducts := new(MockProductReader)
	mockNotifier := new(MockNotifier)
	svc := NewService(mockRepo, mockProducts, defaultSettings(), mockNotifier)

	mockProducts.On("GetByID", ctx, uint(1)).Return(catalogProduct(1, 100000, nil, 10), nil)
	mockRepo.On("CreateTx", ctx, mock.Anything, mock.Anything).Return(&Order{ID: 1}, nil)
	mockNotifier.On("OrderConfirmation", ctx, mock.Anything).Return(assert.AnError)

	_, err := svc.Create(ctx, 7, validInput(CreateItemInput{ProductID: 1, Quantity: 1}))
	assert.NoError(t, err)
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		err      error
	}{
		{StatusPending, StatusConfirmed, nil},
		{StatusPending, StatusCancelled, nil},
		{StatusConfirmed, StatusProcessing, nil},
		{StatusConfirmed, StatusCancelled, nil},
		{StatusProcessing, StatusShipping, nil},
		{StatusShipping, StatusDelivered, nil},
		{StatusPending, StatusPending, ErrSameStatus},
		{StatusDelivered, StatusShipping, ErrTerminalStatus},
		{StatusCancelled, StatusPending, ErrTerminalStatus},
		{StatusPending, StatusShipping, ErrInvalidTransition},
		{StatusProcessing, StatusCancelled, ErrInvalidTransition},
		{StatusShipping, StatusConfirmed, ErrInvalidTransition},
	}

	for _, tc := range cases {
		err := validateTransition(tc.from, tc.to)
		if tc.err == nil {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.ErrorIs(t, err, tc.err, "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestServiceUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("CancellationRestoresStock", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockNotifier := new(MockNotifier)
		svc := NewService(mockRepo, new(MockProductReader), defaultSettings(), mockNotifier)

		mockRepo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, Status: StatusConfirmed}, nil).Once()
		mockRepo.On("UpdateStatus", ctx, uint(1), StatusCancelled, (*string)(nil), true).Return(nil)
		mockRepo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, Status: StatusCancelled}, nil).Once()
		mockNotifier.On("OrderStatusChanged", ctx, mock.Anything, StatusConfirmed).Return(nil)

		updated, err := svc.UpdateStatus(ctx, 1, StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, updated.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ForwardMoveDoesNotTouchStock", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductReader), defaultSettings(), nil)

		mockRepo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, Status: StatusPending}, nil).Once()
		mockRepo.On("UpdateStatus", ctx, uint(1), StatusConfirmed, (*string)(nil), false).Return(nil)
		mockRepo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, Status: StatusConfirmed}, nil).Once()

		_, err := svc.UpdateStatus(ctx, 1, StatusConfirmed)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RejectedBeforeAnyWrite", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductReader), defaultSettings(), nil)

		mockRepo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, Status: StatusDelivered}, nil)

		_, err := svc.UpdateStatus(ctx, 1, StatusShipping)
		assert.ErrorIs(t, err, ErrTerminalStatus)
		mockRepo.AssertNotCalled(t, "UpdateStatus",
			ctx, uint(1), StatusShipping, (*string)(nil), false)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductReader), defaultSettings(), nil)
		_, err := svc.UpdateStatus(ctx, 1, Status("exploded"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerCancelsPending", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductReader), defaultSettings(), nil)

		reason := "changed my mind"
		mockRepo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, UserID: 7, Status: StatusPending}, nil).Once()
		mockRepo.On("UpdateStatus", ctx, uint(1), StatusCancelled, &reason, true).Return(nil)
		mockRepo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, UserID: 7, Status: StatusCancelled, CancelledReason: &reason}, nil).Once()

		updated, err := svc.Cancel(ctx, 1, 7, false, reason)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, updated.Status)
	})

	t.Run("StrangerRejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductReader), defaultSettings(), nil)

		mockRepo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, UserID: 7, Status: StatusPending}, nil)

		_, err := svc.Cancel(ctx, 1, 8, false, "")
		assert.ErrorIs(t, err, ErrNotOrderOwner)
	})

	t.Run("AdminCancelsAnyOwner", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductReader), defaultSettings(), nil)

		mockRepo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, UserID: 7, Status: StatusConfirmed}, nil).Once()
		mockRepo.On("UpdateStatus", ctx, uint(1), StatusCancelled, (*string)(nil), true).Return(nil)
		mockRepo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, UserID: 7, Status: StatusCancelled}, nil).Once()

		_, err := svc.Cancel(ctx, 1, 99, true, "")
		require.NoError(t, err)
	})

	t.Run("TooLateToCancel", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductReader), defaultSettings(), nil)

		mockRepo.On("GetByID", ctx, uint(1)).
			Return(&Order{ID: 1, UserID: 7, Status: StatusShipping}, nil)

		_, err := svc.Cancel(ctx, 1, 7, false, "")
		assert.ErrorIs(t, err, ErrCannotCancel)
	})
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()

	t.Run("PendingConfirmed", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductReader), defaultSettings(), nil)

		mockRepo.On("GetByID", ctx, uint(1)).Return(&Order{ID: 1, Status: StatusPending}, nil)
		mockRepo.On("UpdateStatus", ctx, uint(1), StatusConfirmed, (*string)(nil), false).Return(nil)

		require.NoError(t, svc.Confirm(ctx, 1))
	})

	t.Run("AlreadyProcessingIsNoop", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductReader), defaultSettings(), nil)

		mockRepo.On("GetByID", ctx, uint(1)).Return(&Order{ID: 1, Status: StatusProcessing}, nil)

		require.NoError(t, svc.Confirm(ctx, 1))
		mockRepo.AssertNotCalled(t, "UpdateStatus",
			ctx, uint(1), StatusConfirmed, (*string)(nil), false)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("CancelledDeletable", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductReader), defaultSettings(), nil)

		mockRepo.On("GetByID", ctx, uint(1)).Return(&Order{ID: 1, Status: StatusCancelled}, nil)
		mockRepo.On("SoftDelete", ctx, uint(1)).Return(nil)

		require.NoError(t, svc.Delete(ctx, 1))
	})

	t.Run("DeliveredNotDeletable", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductReader), defaultSettings(), nil)

		mockRepo.On("GetByID", ctx, uint(1)).Return(&Order{ID: 1, Status: StatusDelivered}, nil)

		assert.ErrorIs(t, svc.Delete(ctx, 1), ErrCannotDelete)
	})
}

func TestGetOwnership(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, new(MockProductReader), defaultSettings(), nil)

	mockRepo.On("GetByID", ctx, uint(1)).Return(&Order{ID: 1, UserID: 7}, nil)

	_, err := svc.Get(ctx, 1, 8, false)
	assert.ErrorIs(t, err, ErrNotOrderOwner)

	o, err := svc.Get(ctx, 1, 8, true)
	require.NoError(t, err)
	assert.Equal(t, uint(1), o.ID)
}
