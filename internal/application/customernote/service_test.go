package customernote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/shipment"
	"github.com/pgd-harmeet/shipstation-triggers/pkg/logger"
)

// MockTagLister is a mock of TagLister.
type MockTagLister struct {
	mock.Mock
}

func (m *MockTagLister) ListTags(ctx context.Context) ([]shipment.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipment.Tag), args.Error(1)
}

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) ListOrdersByNumber(ctx context.Context, orderNumber string) (*shipment.OrderList, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.OrderList), args.Error(1)
}

func (m *MockOrderStore) CreateOrUpdateOrder(ctx context.Context, order shipment.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishCustomerNote(ctx context.Context, orderNumber string) error {
	args := m.Called(ctx, orderNumber)
	return args.Error(0)
}

var tags = []shipment.Tag{{TagID: 7, Name: "Rush"}, {TagID: 42, Name: "WSI"}}

func orders() *shipment.OrderList {
	return &shipment.OrderList{
		Total: 3,
		Orders: []shipment.Order{
			{"orderId": float64(1), "orderNumber": "100038532", "tagIds": []any{float64(42)}},
			{"orderId": float64(2), "orderNumber": "100038532", "tagIds": []any{float64(7)}},
			{"orderId": float64(3), "orderNumber": "100038532", "tagIds": nil},
		},
	}
}

func TestService_QueueNote(t *testing.T) {
	publisher := new(MockPublisher)
	service := NewService(new(MockTagLister), new(MockOrderStore), publisher, "WSI", logger.NewNop())
	publisher.On("PublishCustomerNote", mock.Anything, "100038532").Return(nil)

	require.NoError(t, service.QueueNote(context.Background(), " 100038532 "))
	publisher.AssertExpectations(t)
}

func TestService_QueueNote_Empty(t *testing.T) {
	publisher := new(MockPublisher)
	service := NewService(new(MockTagLister), new(MockOrderStore), publisher, "WSI", logger.NewNop())

	err := service.QueueNote(context.Background(), "")

	assert.ErrorIs(t, err, ErrMissingOrderNumber)
	publisher.AssertNotCalled(t, "PublishCustomerNote", mock.Anything, mock.Anything)
}

func TestService_AddNote_OnlyTaggedOrders(t *testing.T) {
	// Arrange
	tagLister := new(MockTagLister)
	store := new(MockOrderStore)
	service := NewService(tagLister, store, new(MockPublisher), "WSI", logger.NewNop())
	ctx := context.Background()

	tagLister.On("ListTags", ctx).Return(tags, nil)
	list := orders()
	store.On("ListOrdersByNumber", ctx, "100038532").Return(list, nil)
	store.On("CreateOrUpdateOrder", ctx, mock.MatchedBy(func(o shipment.Order) bool {
		return o["orderId"] == float64(1) && o["customerNotes"] == NoteSentToWSI
	})).Return(nil).Once()

	// Act
	n, err := service.AddNote(ctx, "100038532")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotContains(t, list.Orders[0], "customerNotes")
	tagLister.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestService_AddNote_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tags    []shipment.Tag
		orders  *shipment.OrderList
		wantErr error
	}{
		{name: "no WSI tag", tags: tags[:1], wantErr: ErrTagNotFound},
		{name: "no orders", tags: tags, orders: &shipment.OrderList{}, wantErr: ErrNoOrders},
		{
			name: "no tagged orders",
			tags: tags,
			orders: &shipment.OrderList{Total: 1, Orders: []shipment.Order{
				{"orderId": float64(2), "tagIds": []any{float64(7)}},
			}},
			wantErr: ErrNoTaggedOrders,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tagLister := new(MockTagLister)
			store := new(MockOrderStore)
			service := NewService(tagLister, store, new(MockPublisher), "WSI", logger.NewNop())

			tagLister.On("ListTags", mock.Anything).Return(tt.tags, nil)
			if tt.orders != nil {
				store.On("ListOrdersByNumber", mock.Anything, "100038532").Return(tt.orders, nil)
			}

			n, err := service.AddNote(context.Background(), "100038532")

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, n)
			store.AssertNotCalled(t, "CreateOrUpdateOrder", mock.Anything, mock.Anything)
		})
	}
}

func TestService_AddNote_UpdateFails(t *testing.T) {
	tagLister := new(MockTagLister)
	store := new(MockOrderStore)
	service := NewService(tagLister, store, new(MockPublisher), "WSI", logger.NewNop())

	tagLister.On("ListTags", mock.Anything).Return(tags, nil)
	store.On("ListOrdersByNumber", mock.Anything, "100038532").Return(orders(), nil)
	store.On("CreateOrUpdateOrder", mock.Anything, mock.Anything).Return(errors.New("400 Bad Request"))

	n, err := service.AddNote(context.Background(), "100038532")

	assert.ErrorContains(t, err, "add note to order 1")
	assert.Equal(t, 0, n)
}

func TestService_AddNote_TagLookupFails(t *testing.T) {
	tagLister := new(MockTagLister)
	service := NewService(tagLister, new(MockOrderStore), new(MockPublisher), "WSI", logger.NewNop())
	tagLister.On("ListTags", mock.Anything).Return(nil, errors.New("unauthorized"))

	_, err := service.AddNote(context.Background(), "100038532")

	assert.ErrorContains(t, err, "list tags")
}

func TestService_HandleQueuedNote(t *testing.T) {
	tagLister := new(MockTagLister)
	store := new(MockOrderStore)
	service := NewService(tagLister, store, new(MockPublisher), "WSI", logger.NewNop())

	tagLister.On("ListTags", mock.Anything).Return(tags, nil)
	store.On("ListOrdersByNumber", mock.Anything, "none").Return(&shipment.OrderList{}, nil)
	store.On("ListOrdersByNumber", mock.Anything, "flaky").Return(nil, errors.New("502 Bad Gateway"))

	assert.NoError(t, service.HandleQueuedNote(context.Background(), "none"))
	assert.ErrorContains(t, service.HandleQueuedNote(context.Background(), "flaky"), "list orders")
}
