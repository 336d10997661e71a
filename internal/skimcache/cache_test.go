package skimcache

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v8"

	"github.com/akerscore/aucs/internal/skim"
)

type fakeSource struct {
	calls  int
	result []skim.Entry
}

func (f *fakeSource) BatchSkim(ctx context.Context, keys []skim.Key) ([]skim.Entry, error) {
	f.calls++
	return f.result, nil
}

func TestCache_MissFallsThroughToCollaborator(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := skim.Key{OriginCell: "c1", DestinationID: "d1", Mode: "walk", TimeSlice: "am"}
	fp := "engine1:graph1:od1:walk:am"

	mock.ExpectGet(cacheKey(key, fp)).RedisNil()
	mock.Regexp().ExpectSet(cacheKey(key, fp), `.*`, DefaultTTL).SetVal("OK")

	source := &fakeSource{result: []skim.Entry{
		{OriginCell: "c1", DestinationID: "d1", Mode: "walk", TimeSlice: "am", Reachable: true, InVehicleMin: 12},
	}}

	c := New(rdb, source, "router.internal", 100, DefaultTTL)
	results, err := c.Get(context.Background(), fp, []skim.Key{key})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(results) != 1 || !results[0].Reachable || results[0].InVehicleMin != 12 {
		t.Fatalf("unexpected result: %+v", results)
	}
	if source.calls != 1 {
		t.Fatalf("expected exactly one collaborator call, got %d", source.calls)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestCache_LRUHitAvoidsRedisAndCollaborator(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	key := skim.Key{OriginCell: "c1", DestinationID: "d1", Mode: "walk", TimeSlice: "am"}
	fp := "engine1:graph1:od1:walk:am"

	source := &fakeSource{result: []skim.Entry{
		{OriginCell: "c1", DestinationID: "d1", Mode: "walk", TimeSlice: "am", Reachable: true},
	}}

	c := New(rdb, source, "router.internal", 100, DefaultTTL)
	c.lru.put(cacheKey(key, fp), skim.Entry{OriginCell: "c1", DestinationID: "d1", Mode: "walk", TimeSlice: "am", Reachable: true, InVehicleMin: 7})

	results, err := c.Get(context.Background(), fp, []skim.Key{key})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if results[0].InVehicleMin != 7 {
		t.Fatalf("expected LRU-cached value, got %+v", results[0])
	}
	if source.calls != 0 {
		t.Fatal("expected no collaborator call on LRU hit")
	}
}
