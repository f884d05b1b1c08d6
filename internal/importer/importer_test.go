package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pizzapalace/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProductRepo struct {
	items []domain.Product
	err   error
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,description,price,category,image_url,featured,available
Margherita,"Tomato, mozzarella, basil",12.99,Pizza,https://example.com/m.jpg,true,
Tiramisu,Coffee dessert,$6.99,dessert,,no,false

Soft Drinks,,2.99,drink,,,yes
`
	repo := &stubProductRepo{}
	count, err := NewCSVImporter(strings.NewReader(csvData), repo).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, repo.items, 3)

	m := repo.items[0]
	assert.Equal(t, "Margherita", m.Name)
	assert.Equal(t, "Tomato, mozzarella, basil", m.Description)
	assert.Equal(t, "pizza", m.Category)
	assert.InDelta(t, 12.99, m.UnitPrice, 1e-9)
	assert.True(t, m.Featured)
	assert.True(t, m.Available)

	tiramisu := repo.items[1]
	assert.InDelta(t, 6.99, tiramisu.UnitPrice, 1e-9)
	assert.False(t, tiramisu.Featured)
	assert.False(t, tiramisu.Available)

	assert.True(t, repo.items[2].Available)
}

func TestCSVImporter_MissingColumn(t *testing.T) {
	_, err := NewCSVImporter(strings.NewReader("name,description\nA,B\n"), &stubProductRepo{}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "price"`)
}

func TestCSVImporter_InvalidRows(t *testing.T) {
	cases := map[string]string{
		"negative price": "name,price,category\nA,-1,pizza\n",
		"bad price":      "name,price,category\nA,abc,pizza\n",
		"no category":    "name,price,category\nA,1.00,\n",
		"bad featured":   "name,price,category,featured\nA,1.00,pizza,maybe\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &stubProductRepo{}
			count, err := NewCSVImporter(strings.NewReader(data), repo).Run(context.Background())
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, count)
			assert.Empty(t, repo.items)
		})
	}
}

func TestCSVImporter_StopsOnWriteError(t *testing.T) {
	repo := &stubProductRepo{err: errors.New("db down")}
	_, err := NewCSVImporter(strings.NewReader("name,price,category\nA,1,pizza\n"), repo).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `upsert product "A"`)
}
