package perf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mawrid/mawrid/internal/listing"
	"github.com/mawrid/mawrid/internal/suppliers"
)

// slowStore answers List after a fixed delay, like a remote table would.
type slowStore struct {
	rows  []suppliers.Supplier
	delay time.Duration
	lists atomic.Int32
}

func (s *slowStore) List(ctx context.Context) ([]suppliers.Supplier, error) {
	s.lists.Add(1)
	time.Sleep(s.delay)
	return s.rows, nil
}

func (s *slowStore) Search(ctx context.Context, query string) ([]suppliers.Supplier, error) {
	return listing.Apply(s.rows, listing.Filter{Query: query}), nil
}

func (s *slowStore) ListPage(ctx context.Context, offset, limit int) ([]suppliers.Supplier, int, error) {
	return nil, len(s.rows), nil
}

func (s *slowStore) Get(ctx context.Context, id string) (suppliers.Supplier, error) {
	return suppliers.Supplier{}, suppliers.ErrNoRows
}

func (s *slowStore) Insert(ctx context.Context, rec suppliers.Record) (suppliers.Supplier, error) {
	return suppliers.Supplier{}, nil
}

func (s *slowStore) Update(ctx context.Context, id string, rec suppliers.Record) (suppliers.Supplier, error) {
	return suppliers.Supplier{}, nil
}

func (s *slowStore) Delete(ctx context.Context, id string) error { return nil }

func fixture(n int) []suppliers.Supplier {
	cities := []string{"Riyadh", "Jeddah", "Dammam", "Mecca"}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]suppliers.Supplier, n)
	for i := range out {
		city := cities[i%len(cities)]
		out[i] = suppliers.Supplier{
			ID:                    fmt.Sprintf("s-%05d", i),
			CompanyName:           fmt.Sprintf("Company %05d", i),
			ResponsiblePersonName: fmt.Sprintf("Person %d", i),
			Address:               fmt.Sprintf("%s district %d", city, i%37),
			Mobile1:               fmt.Sprintf("05%08d", i),
			City:                  &city,
			CreatedAt:             now.Add(-time.Duration(i) * time.Minute),
		}
	}
	return out
}

func newDirectory(t testing.TB, store suppliers.Store) *suppliers.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := suppliers.NewCache(client, time.Minute, time.Second)
	return suppliers.NewService(store, cache, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDirectoryLatencyTargets(t *testing.T) {
	store := &slowStore{rows: fixture(500), delay: 150 * time.Millisecond}
	svc := newDirectory(t, store)
	ctx := context.Background()

	start := time.Now()
	if _, err := svc.ListAll(ctx); err != nil {
		t.Fatalf("cold list: %v", err)
	}
	cold := time.Since(start)

	samples := make([]time.Duration, 0, 40)
	for i := 0; i < 40; i++ {
		start := time.Now()
		all, err := svc.ListAll(ctx)
		if err != nil {
			t.Fatalf("cached list: %v", err)
		}
		listing.View(all, listing.Filter{Address: "district 3"}, 2, 10)
		samples = append(samples, time.Since(start))
	}

	if cold < store.delay {
		t.Fatalf("cold load did not reach the store: %s", cold)
	}
	if p95 := percentile95(samples); p95 > 50*time.Millisecond {
		t.Fatalf("cached latency regression: p95=%s", p95)
	}
	if got := store.lists.Load(); got != 1 {
		t.Fatalf("store listed %d times, want 1", got)
	}
}

func BenchmarkListingView(b *testing.B) {
	all := fixture(5000)
	filter := listing.Filter{Query: "company 01", Address: "riyadh"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		listing.View(all, filter, 3, 10)
	}
}

func BenchmarkDirectoryListAllCached(b *testing.B) {
	svc := newDirectory(b, &slowStore{rows: fixture(2000)})
	ctx := context.Background()
	if _, err := svc.ListAll(ctx); err != nil {
		b.Fatalf("warm: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.ListAll(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
