package cart

import (
	"context"
	"errors"
	"testing"

	"pizzapalace/internal/domain"
	"pizzapalace/internal/storage"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	margherita = domain.Product{ID: 1, Name: "Margherita", UnitPrice: 12.99, ImageURL: "m.jpg"}
	garlic     = domain.Product{ID: 2, Name: "Garlic Sticks", UnitPrice: 6.99}
	tiramisu   = domain.Product{ID: 5, Name: "Tiramisu", UnitPrice: 6.99}
)

func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	backend := storage.NewMemory()
	return NewStore(context.Background(), Key("test"), backend, nil), backend
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	adds := []domain.Product{margherita, garlic, margherita, margherita, garlic}
	for _, p := range adds {
		s.AddToCart(ctx, p)
	}

	lines := s.Lines()
	require.Len(t, lines, 2)
	counts := map[int64]int{}
	for _, l := range lines {
		counts[l.ProductID] = l.Quantity
	}
	assert.Equal(t, map[int64]int{1: 3, 2: 2}, counts)
	assert.Equal(t, "m.jpg", lines[0].ImageURL)
}

func TestAddTwiceThenRemove(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.AddToCart(ctx, tiramisu)
	s.AddToCart(ctx, tiramisu)
	snap := s.RemoveFromCart(ctx, 5)

	assert.Empty(t, snap.Lines)
	assert.Zero(t, s.GetTotalItems())
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	s.AddToCart(ctx, margherita)

	s.RemoveFromCart(ctx, 99)

	assert.Len(t, s.Lines(), 1)
}

func TestUpdateQuantityNonPositiveRemoves(t *testing.T) {
	for _, qty := range []int{0, -1, -7} {
		ctx := context.Background()
		viaUpdate, _ := newTestStore(t)
		viaRemove, _ := newTestStore(t)
		for _, s := range []*Store{viaUpdate, viaRemove} {
			s.AddToCart(ctx, margherita)
			s.AddToCart(ctx, garlic)
		}

		viaUpdate.UpdateQuantity(ctx, margherita.ID, qty)
		viaRemove.RemoveFromCart(ctx, margherita.ID)

		if diff := cmp.Diff(viaRemove.Lines(), viaUpdate.Lines()); diff != "" {
			t.Fatalf("quantity %d: update differs from remove (-remove +update):\n%s", qty, diff)
		}
	}
}

func TestUpdateQuantityDoesNotClamp(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	s.AddToCart(ctx, margherita)

	s.UpdateQuantity(ctx, margherita.ID, 1_000_000)

	assert.Equal(t, 1_000_000, s.GetTotalItems())
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	s.AddToCart(ctx, margherita)
	s.AddToCart(ctx, margherita)
	s.AddToCart(ctx, garlic)

	assert.InDelta(t, 32.97, s.GetTotal(), 1e-9)
	assert.Equal(t, 3, s.GetTotalItems())

	snap := s.Snapshot()
	assert.InDelta(t, 32.97, snap.Total, 1e-9)
	assert.Equal(t, 3, snap.TotalItems)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)
	s.AddToCart(ctx, margherita)

	snap := s.ClearCart(ctx)

	assert.Empty(t, snap.Lines)
	raw, err := backend.Get(ctx, Key("test"))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestCartSurvivesReload(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)
	s.AddToCart(ctx, margherita)
	s.AddToCart(ctx, garlic)
	s.UpdateQuantity(ctx, garlic.ID, 4)

	reloaded := NewStore(ctx, Key("test"), backend, nil)

	if diff := cmp.Diff(s.Lines(), reloaded.Lines()); diff != "" {
		t.Fatalf("reloaded cart differs (-before +after):\n%s", diff)
	}
}

func TestPersistedFormat(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)
	s.AddToCart(ctx, margherita)

	raw, err := backend.Get(ctx, Key("test"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Margherita","price":12.99,"quantity":1,"image_url":"m.jpg"}]`, string(raw))
}

func TestMalformedStorageStartsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	require.NoError(t, backend.Set(ctx, Key("bad"), []byte(`{not json`)))

	s := NewStore(ctx, Key("bad"), backend, nil)

	assert.Empty(t, s.Lines())
}

func TestHydrateNormalizesLines(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	raw := `[{"id":1,"name":"A","price":1,"quantity":2},{"id":2,"name":"B","price":1,"quantity":0},{"id":1,"name":"A","price":1,"quantity":1}]`
	require.NoError(t, backend.Set(ctx, Key("dup"), []byte(raw)))

	s := NewStore(ctx, Key("dup"), backend, nil)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

type failingBackend struct {
	setCalls int
}

func (f *failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk gone")
}

func (f *failingBackend) Set(context.Context, string, []byte) error {
	f.setCalls++
	return errors.New("disk gone")
}

func TestPersistFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{}
	s := NewStore(ctx, Key("x"), backend, nil)

	snap := s.AddToCart(ctx, margherita)

	assert.Len(t, snap.Lines, 1)
	assert.Equal(t, 1, backend.setCalls)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var seen []int
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		seen = append(seen, snap.TotalItems)
	})
	s.AddToCart(ctx, margherita)
	s.AddToCart(ctx, margherita)
	unsubscribe()
	unsubscribe()
	s.AddToCart(ctx, margherita)

	assert.Equal(t, []int{1, 2}, seen)
}

func TestAddUnitsMatchesRepeatedAdds(t *testing.T) {
	ctx := context.Background()
	repeated, _ := newTestStore(t)
	bulk, backend := newTestStore(t)
	for range 4 {
		repeated.AddToCart(ctx, margherita)
	}
	repeated.AddToCart(ctx, garlic)

	bulk.AddUnits(ctx, margherita, 3)
	bulk.AddUnits(ctx, margherita, 1)
	bulk.AddUnits(ctx, garlic, 0)

	if diff := cmp.Diff(repeated.Lines(), bulk.Lines()); diff != "" {
		t.Fatalf("bulk add differs (-repeated +bulk):\n%s", diff)
	}
	raw, err := backend.Get(ctx, Key("test"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"quantity":4`)
}

func TestMutationSeesWritesFromAnotherStore(t *testing.T) {
	ctx := context.Background()
	first, backend := newTestStore(t)
	second := NewStore(ctx, Key("test"), backend, nil)

	first.AddToCart(ctx, margherita)
	snap := second.AddToCart(ctx, garlic)
	require.Len(t, snap.Lines, 2)

	snap = first.RemoveFromCart(ctx, margherita.ID)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, garlic.ID, snap.Lines[0].ProductID)
}

type flakyBackend struct {
	*storage.Memory
	failGets bool
}

func (f *flakyBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGets {
		return nil, errors.New("connection reset")
	}
	return f.Memory.Get(ctx, key)
}

func TestReadErrorKeepsCurrentLines(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{Memory: storage.NewMemory()}
	s := NewStore(ctx, Key("flaky"), backend, nil)
	s.AddToCart(ctx, margherita)

	backend.failGets = true
	snap := s.AddToCart(ctx, margherita)

	assert.Equal(t, 2, snap.TotalItems)
}
