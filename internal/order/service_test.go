package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	Repository
	CreateFunc    func(ctx context.Context, o *Order) error
	BatchEditFunc func(ctx context.Context, ids []int64, deliveryDate *string, paymentType *string) (int64, error)
}

func (m *mockRepo) Create(ctx context.Context, o *Order) error { return m.CreateFunc(ctx, o) }
func (m *mockRepo) BatchEdit(ctx context.Context, ids []int64, deliveryDate *string, paymentType *string) (int64, error) {
	return m.BatchEditFunc(ctx, ids, deliveryDate, paymentType)
}

func TestService_CreateOrder(t *testing.T) {
	t.Run("rejects missing customer name", func(t *testing.T) {
		svc := NewService(&mockRepo{})
		err := svc.CreateOrder(context.Background(), &Order{TotalValue: decimal.NewFromInt(100)})
		assert.Error(t, err)
	})

	t.Run("rejects negative total", func(t *testing.T) {
		svc := NewService(&mockRepo{})
		err := svc.CreateOrder(context.Background(), &Order{
			CustomerName: "Alice",
			TotalValue:   decimal.NewFromInt(-1),
		})
		assert.Error(t, err)
	})

	t.Run("creates a valid order", func(t *testing.T) {
		repo := &mockRepo{
			CreateFunc: func(ctx context.Context, o *Order) error {
				o.ID = 1
				return nil
			},
		}
		svc := NewService(repo)
		o := &Order{CustomerName: "Alice", TotalValue: decimal.NewFromInt(3000)}
		require.NoError(t, svc.CreateOrder(context.Background(), o))
		assert.Equal(t, int64(1), o.ID)
	})
}

func TestService_BatchEdit(t *testing.T) {
	t.Run("requires at least one field", func(t *testing.T) {
		svc := NewService(&mockRepo{})
		_, err := svc.BatchEdit(context.Background(), []int64{1, 2}, nil, nil)
		assert.Error(t, err)
	})

	t.Run("passes fields through", func(t *testing.T) {
		date := "2024-06-01"
		repo := &mockRepo{
			BatchEditFunc: func(ctx context.Context, ids []int64, deliveryDate *string, paymentType *string) (int64, error) {
				assert.Equal(t, []int64{1, 2}, ids)
				require.NotNil(t, deliveryDate)
				assert.Equal(t, date, *deliveryDate)
				assert.Nil(t, paymentType)
				return 2, nil
			},
		}
		svc := NewService(repo)
		n, err := svc.BatchEdit(context.Background(), []int64{1, 2}, &date, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}
