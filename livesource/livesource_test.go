package livesource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"go.uber.org/goleak"
)

var (
	_ listing.LiveSource[*models.Order] = (*MemoryStore[*models.Order])(nil)
	_ listing.LiveSource[*models.Order] = (*RedisSource[*models.Order])(nil)
	_ Publisher                         = (*RedisPublisher)(nil)
	_ Publisher                         = PubSubPublisher{}
	_ Sink                              = (*MemoryStore[*models.Order])(nil)
)

func order(id string, status models.OrderStatus) *models.Order {
	return &models.Order{ID: id, Status: status}
}

func statuses(records []*models.Order) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID+":"+string(r.Status))
	}
	return out
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(&bytes.Buffer{})
	return l
}

func TestMemoryStore_UpsertRemoveReplace(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(order("A", models.OrderStatusNew), order("B", models.OrderStatusNew))

	store.Upsert(order("B", models.OrderStatusPreparing), order("C", models.OrderStatusNew))
	want := []string{"A:new", "B:preparing", "C:new"}
	if diff := cmp.Diff(want, statuses(store.Snapshot(ctx))); diff != "" {
		t.Fatalf("after upsert (-want +got):\n%s", diff)
	}

	store.Remove("A", "missing")
	if diff := cmp.Diff([]string{"B:preparing", "C:new"}, statuses(store.Snapshot(ctx))); diff != "" {
		t.Fatalf("after remove (-want +got):\n%s", diff)
	}

	store.Replace([]*models.Order{order("D", models.OrderStatusReady), order("D", models.OrderStatusDelivered)})
	if diff := cmp.Diff([]string{"D:delivered"}, statuses(store.Snapshot(ctx))); diff != "" {
		t.Fatalf("after replace (-want +got):\n%s", diff)
	}
	if store.Version() != 3 {
		t.Fatalf("expected version 3, got %d", store.Version())
	}
}

func TestMemoryStore_SnapshotIsACopy(t *testing.T) {
	store := NewMemoryStore(order("A", models.OrderStatusNew))
	snap := store.Snapshot(context.Background())
	snap[0] = order("X", models.OrderStatusNew)

	if got := store.Snapshot(context.Background())[0].ID; got != "A" {
		t.Fatalf("snapshot aliases the store: %s", got)
	}

	var nilStore *MemoryStore[*models.Order]
	if got := nilStore.Snapshot(context.Background()); got != nil {
		t.Fatalf("nil store should have no live data")
	}
}

func TestMemoryStore_ConcurrentReadersAndWriters(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewMemoryStore[*models.Order]()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				store.Upsert(order("A", models.OrderStatusPreparing))
				store.Remove("B")
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				merged := listing.Merge(nil, store.Snapshot(context.Background()))
				if len(merged) > 1 {
					t.Errorf("unexpected records %v", statuses(merged))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDecodeUpdate(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		ok      bool
	}{
		{"upsert", `{"screen":"vendor/orders","op":"upsert","records":[{"id":"A"}]}`, true},
		{"remove", `{"screen":"vendor/orders","op":"remove","ids":["A"]}`, true},
		{"remove without ids", `{"screen":"vendor/orders","op":"remove"}`, false},
		{"upsert without records", `{"screen":"vendor/orders","op":"upsert"}`, false},
		{"unknown op", `{"screen":"vendor/orders","op":"merge","records":[]}`, false},
		{"missing screen", `{"op":"upsert","records":[{"id":"A"}]}`, false},
		{"not json", `nope`, false},
	}
	for _, tc := range cases {
		_, err := DecodeUpdate([]byte(tc.payload))
		if (err == nil) != tc.ok {
			t.Fatalf("%s: ok=%v err=%v", tc.name, tc.ok, err)
		}
	}
}

func TestFeed_HandleRoutesToStore(t *testing.T) {
	router := NewRouter()
	orders := NewMemoryStore[*models.Order]()
	router.Register("vendor/orders", orders)

	var applied []Update
	feed := NewFeed(router, quietLogger(), func(u Update) { applied = append(applied, u) })

	u, err := NewUpdate("vendor/orders", OpUpsert, []*models.Order{order("A", models.OrderStatusReady)})
	if err != nil {
		t.Fatalf("NewUpdate: %v", err)
	}
	data, _ := u.Encode()
	if err := feed.Handle(context.Background(), data); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if diff := cmp.Diff([]string{"A:ready"}, statuses(orders.Snapshot(context.Background()))); diff != "" {
		t.Fatalf("store (-want +got):\n%s", diff)
	}
	if len(applied) != 1 || applied[0].Screen != "vendor/orders" {
		t.Fatalf("applied callback not called: %v", applied)
	}

	data, _ = RemoveUpdate("admin/ledger", "X").Encode()
	if err := feed.Handle(context.Background(), data); !errors.Is(err, utils.ErrorUnknownScreen) {
		t.Fatalf("expected unknown screen, got %v", err)
	}
	if got := router.Screens(); len(got) != 1 || got[0] != "vendor/orders" {
		t.Fatalf("unexpected screens %v", got)
	}
}

func TestFeed_PushHandlerAlwaysAcks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter()
	orders := NewMemoryStore[*models.Order]()
	router.Register("vendor/orders", orders)
	feed := NewFeed(router, quietLogger(), nil)

	r := gin.New()
	r.POST("/pubsub/live", feed.PushHandler())

	post := func(body []byte) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/pubsub/live", bytes.NewReader(body))
		r.ServeHTTP(w, req)
		return w.Code
	}

	u, _ := NewUpdate("vendor/orders", OpUpsert, []*models.Order{order("P", models.OrderStatusNew)})
	data, _ := u.Encode()
	var envelope PubSubPushEnvelope
	envelope.Message.Data = data
	envelope.Message.ID = "m-1"
	body, _ := json.Marshal(envelope)

	if code := post(body); code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}
	if got := orders.Snapshot(context.Background()); len(got) != 1 || got[0].ID != "P" {
		t.Fatalf("push update not applied: %v", statuses(got))
	}

	if code := post([]byte("{garbage")); code != http.StatusNoContent {
		t.Fatalf("malformed body should be acked, got %d", code)
	}
}

func TestApplyRaw(t *testing.T) {
	current := []json.RawMessage{
		json.RawMessage(`{"id":"A","status":"new"}`),
		json.RawMessage(`{"id":"B","status":"new"}`),
	}

	upsert := Update{Screen: "s", Op: OpUpsert, Records: json.RawMessage(`[{"id":"B","status":"ready"},{"id":"C"}]`)}
	got, err := applyRaw(current, upsert)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	want := []string{`{"id":"A","status":"new"}`, `{"id":"B","status":"ready"}`, `{"id":"C"}`}
	if diff := cmp.Diff(want, rawStrings(got)); diff != "" {
		t.Fatalf("upsert (-want +got):\n%s", diff)
	}

	got, err = applyRaw(got, RemoveUpdate("s", "A", "C"))
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]string{`{"id":"B","status":"ready"}`}, rawStrings(got)); diff != "" {
		t.Fatalf("remove (-want +got):\n%s", diff)
	}

	replace := Update{Screen: "s", Op: OpReplace, Records: json.RawMessage(`[{"id":"Z"}]`)}
	got, _ = applyRaw(got, replace)
	if diff := cmp.Diff([]string{`{"id":"Z"}`}, rawStrings(got)); diff != "" {
		t.Fatalf("replace (-want +got):\n%s", diff)
	}

	if _, err := applyRaw(nil, Update{Screen: "s", Op: OpUpsert, Records: json.RawMessage(`[{"status":"x"}]`)}); err == nil {
		t.Fatalf("expected error for record without id")
	}
	if len(current) != 2 || string(current[1]) != `{"id":"B","status":"new"}` {
		t.Fatalf("input modified")
	}
}

func rawStrings(records []json.RawMessage) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, string(r))
	}
	return out
}
