package subscriber

import (
	"context"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/chim712/shuttle-roid-TestServer/module/live/domain"
	"github.com/chim712/shuttle-roid-TestServer/module/live/internal/repository/store/memory"
	"github.com/chim712/shuttle-roid-TestServer/module/live/service"
)

type mockReportSvc struct {
	ingestFn func(ctx context.Context, body []byte, source string) (*domain.StoredRecord, error)
}

func (m *mockReportSvc) Ingest(ctx context.Context, body []byte, source string) (*domain.StoredRecord, error) {
	return m.ingestFn(ctx, body, source)
}

type fakeMQTTMessage struct {
	payload []byte
}

func (f *fakeMQTTMessage) Duplicate() bool   { return false }
func (f *fakeMQTTMessage) Qos() byte         { return 0 }
func (f *fakeMQTTMessage) Retained() bool    { return false }
func (f *fakeMQTTMessage) Topic() string     { return "shuttle/vehicle/12A3456/report" }
func (f *fakeMQTTMessage) MessageID() uint16 { return 0 }
func (f *fakeMQTTMessage) Payload() []byte   { return f.payload }
func (f *fakeMQTTMessage) Ack()              {}

type fakeToken struct{ err error }

func (f *fakeToken) Wait() bool                       { return true }
func (f *fakeToken) WaitTimeout(_ time.Duration) bool { return true }
func (f *fakeToken) Error() error                     { return f.err }
func (f *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// fakeMQTTClient only implements Subscribe; the embedded interface panics on
// anything else.
type fakeMQTTClient struct {
	mqtt.Client
	err      error
	topics   []string
	handlers []mqtt.MessageHandler
}

func (f *fakeMQTTClient) Subscribe(topic string, _ byte, cb mqtt.MessageHandler) mqtt.Token {
	f.topics = append(f.topics, topic)
	f.handlers = append(f.handlers, cb)
	return &fakeToken{err: f.err}
}

func newSubscriber(svc reportService) *ReportSubscriber {
	return NewReportSubscriber("shuttle/vehicle/+/report", svc, zap.NewNop().Sugar())
}

func TestHandleMessage_Success(t *testing.T) {
	var gotBody []byte
	var gotSource string
	svc := &mockReportSvc{
		ingestFn: func(_ context.Context, body []byte, source string) (*domain.StoredRecord, error) {
			gotBody, gotSource = body, source
			return &domain.StoredRecord{Payload: domain.Report{VehicleNo: "12A3456"}}, nil
		},
	}

	payload := []byte(`{"vehicleNo":"12A3456","route":"R-101","stopLocation":"Main gate"}`)
	newSubscriber(svc).handleMessage(nil, &fakeMQTTMessage{payload: payload})

	if string(gotBody) != string(payload) {
		t.Errorf("expected payload passed through, got %s", gotBody)
	}
	if gotSource != "mqtt" {
		t.Errorf("expected mqtt, got %s", gotSource)
	}
}

func TestHandleMessage_ValidationError(t *testing.T) {
	calls := 0
	svc := &mockReportSvc{
		ingestFn: func(_ context.Context, _ []byte, _ string) (*domain.StoredRecord, error) {
			calls++
			return nil, &domain.ValidationError{Problems: []domain.FieldProblem{{Field: "vehicleNo", Reason: "field required"}}}
		},
	}

	newSubscriber(svc).handleMessage(nil, &fakeMQTTMessage{payload: []byte(`{}`)})
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestHandleMessage_ServiceError(t *testing.T) {
	svc := &mockReportSvc{
		ingestFn: func(_ context.Context, _ []byte, _ string) (*domain.StoredRecord, error) {
			return nil, errors.New("store error")
		},
	}

	newSubscriber(svc).handleMessage(nil, &fakeMQTTMessage{payload: []byte(`{}`)})
}

func TestHandleMessage_StoresIntoLatest(t *testing.T) {
	store := memory.NewLatestStore()
	svc := service.NewReportService(store, nil, zap.NewNop().Sugar())
	sub := newSubscriber(svc)

	sub.handleMessage(nil, &fakeMQTTMessage{payload: []byte(`{"vehicle_no":"X","route":"R","stop_location":"L"}`)})
	sub.handleMessage(nil, &fakeMQTTMessage{payload: []byte("invalid")})

	rec, ok, _ := store.Latest(context.Background())
	if !ok {
		t.Fatal("expected record stored")
	}
	if rec.Payload.VehicleNo != "X" || rec.SourceIP != "mqtt" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestOnConnect_SubscribesOnEveryConnect(t *testing.T) {
	store := memory.NewLatestStore()
	sub := newSubscriber(service.NewReportService(store, nil, zap.NewNop().Sugar()))
	client := &fakeMQTTClient{}

	sub.OnConnect(client)
	sub.OnConnect(client)

	if len(client.topics) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(client.topics))
	}
	if client.topics[1] != "shuttle/vehicle/+/report" {
		t.Errorf("unexpected topic: %s", client.topics[1])
	}

	client.handlers[1](client, &fakeMQTTMessage{payload: []byte(`{"vehicleNo":"R","route":"R","stopLocation":"L"}`)})
	rec, ok, _ := store.Latest(context.Background())
	if !ok || rec.Payload.VehicleNo != "R" {
		t.Errorf("expected report from resubscribed handler, got %+v", rec)
	}
}

func TestOnConnect_SubscribeError(t *testing.T) {
	client := &fakeMQTTClient{err: errors.New("not authorized")}
	sub := newSubscriber(&mockReportSvc{})

	sub.OnConnect(client)
	if err := sub.Subscribe(client); err == nil {
		t.Fatal("expected subscribe error")
	}
}
