package persistence

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

type reportStore interface {
	Save(r *domain.QuoteReport) error
	Get(id string) (*domain.QuoteReport, error)
	List(limit int) ([]*domain.QuoteReport, error)
	Close() error
}

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testReport(n int) *domain.QuoteReport {
	uni := &domain.UniswapV2FillData{
		Router:           common.HexToAddress("0x7a250d5630b4cf539739df2c5dacb4c659f2488d"),
		TokenAddressPath: []common.Address{common.HexToAddress("0xa1"), common.HexToAddress("0xb2")},
	}
	return &domain.QuoteReport{
		ID:           fmt.Sprintf("report-%d", n),
		Side:         domain.SideSell,
		InputAmount:  decimal.NewFromInt(100),
		AdjustedRate: decimal.RequireFromString("4.5"),
		SourceFlags:  domain.FlagLimitOrder | domain.SourceUniswapV2.Flag(),
		SourcesConsidered: []domain.QuoteReportEntry{{
			Source:      domain.SourceUniswapV2,
			MakerAmount: decimal.NewFromInt(400),
			TakerAmount: decimal.NewFromInt(100),
			FillData:    uni,
		}},
		SourcesDelivered: []domain.QuoteReportEntry{{
			Source:      domain.SourceUniswapV2,
			MakerAmount: decimal.NewFromInt(200),
			TakerAmount: decimal.NewFromInt(50),
			FillData:    uni,
			IsFallback:  true,
		}},
		CreatedAt: baseTime.Add(time.Duration(n) * time.Second),
	}
}

func newBoltStore(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "nested", "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func stores(t *testing.T) map[string]reportStore {
	return map[string]reportStore{
		"bolt":   newBoltStore(t),
		"memory": NewMemoryStorage(100),
	}
}

func TestReportStoreSaveGet(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			want := testReport(1)
			require.NoError(t, s.Save(want))

			got, err := s.Get(want.ID)
			require.NoError(t, err)
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.Side, got.Side)
			assert.True(t, want.AdjustedRate.Equal(got.AdjustedRate))
			assert.Equal(t, want.SourceFlags, got.SourceFlags)
			assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
			require.Len(t, got.SourcesDelivered, 1)
			assert.True(t, got.SourcesDelivered[0].IsFallback)
			fd, ok := got.SourcesDelivered[0].FillData.(*domain.UniswapV2FillData)
			require.True(t, ok)
			assert.Len(t, fd.TokenAddressPath, 2)

			_, err = s.Get("missing")
			assert.ErrorIs(t, err, ErrReportNotFound)
		})
	}
}

func TestReportStoreListNewestFirst(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i := 1; i <= 5; i++ {
				require.NoError(t, s.Save(testReport(i)))
			}

			got, err := s.List(3)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, "report-5", got[0].ID)
			assert.Equal(t, "report-4", got[1].ID)
			assert.Equal(t, "report-3", got[2].ID)

			all, err := s.List(50)
			require.NoError(t, err)
			assert.Len(t, all, 5)

			none, err := s.List(0)
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStorageSaveBatchAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.db")
	s, err := NewStorage(path)
	require.NoError(t, err)

	require.NoError(t, s.SaveBatch([]*domain.QuoteReport{testReport(1), testReport(2)}))
	require.NoError(t, s.SaveBatch(nil))
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, s.Close())

	reopened, err := NewStorage(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get("report-2")
	require.NoError(t, err)
	assert.Equal(t, "report-2", got.ID)
}

func TestMemoryStorageEvictsOldest(t *testing.T) {
	s := NewMemoryStorage(2)
	for i := 1; i <= 3; i++ {
		require.NoError(t, s.Save(testReport(i)))
	}
	// Saving an existing id does not count twice.
	require.NoError(t, s.Save(testReport(3)))

	assert.Equal(t, 2, s.Len())
	_, err := s.Get("report-1")
	assert.ErrorIs(t, err, ErrReportNotFound)

	got, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "report-3", got[0].ID)
	assert.Equal(t, "report-2", got[1].ID)
}
