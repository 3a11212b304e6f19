package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/encoding/avro"
	"github.com/pgd-harmeet/shipstation-triggers/internal/infrastructure/worker"
	"github.com/pgd-harmeet/shipstation-triggers/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLogger is a mock of logger.Logger.
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields ...logger.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields ...logger.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields ...logger.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields ...logger.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields ...logger.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithContext(ctx context.Context) logger.Logger {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields ...logger.Field) logger.Logger {
	args := m.Called(fields)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) Sync() error {
	args := m.Called()
	return args.Error(0)
}

type fakeClient struct {
	mu      sync.Mutex
	records []*kgo.Record
	err     error
	closed  bool
}

func (f *fakeClient) ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		out = append(out, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return out
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.err }

func (f *fakeClient) Close() { f.closed = true }

func TestProducer_Publish_EmptyPayload(t *testing.T) {
	producer := &Producer{client: &fakeClient{}, logger: logger.NewNop()}

	err := producer.Publish(context.Background(), "eagle-orders", nil, []byte{})

	assert.ErrorContains(t, err, "payload is empty")
}

func TestProducer_Publish_EmptyTopic(t *testing.T) {
	producer := &Producer{client: &fakeClient{}, logger: logger.NewNop()}

	err := producer.Publish(context.Background(), "", nil, []byte("x"))

	assert.ErrorContains(t, err, "topic is empty")
}

func TestProducer_Publish_GeneratesKey(t *testing.T) {
	client := &fakeClient{}
	producer := &Producer{client: client, logger: logger.NewNop()}

	require.NoError(t, producer.Publish(context.Background(), "eagle-orders", nil, []byte("payload")))

	require.Len(t, client.records, 1)
	assert.Equal(t, "eagle-orders", client.records[0].Topic)
	assert.Len(t, client.records[0].Key, 36)
	assert.Equal(t, []byte("payload"), client.records[0].Value)
}

func TestProducer_Publish_BrokerError(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)
	producer := &Producer{client: &fakeClient{err: errors.New("leader not available")}, logger: mockLog}
	mockLog.On("Error", "kafka publish failed", mock.Anything).Return()

	// Act
	err := producer.Publish(context.Background(), "eagle-orders", []byte("k"), []byte("payload"))

	// Assert
	assert.ErrorContains(t, err, "leader not available")
	mockLog.AssertExpectations(t)
}

func TestProducer_Close(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)
	client := &fakeClient{}
	producer := &Producer{client: client, logger: mockLog}
	mockLog.On("Info", "Closing Kafka producer", mock.Anything).Return()

	// Act
	err := producer.Close(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.True(t, client.closed)
	mockLog.AssertExpectations(t)
}

func TestShipNotifyPublisher(t *testing.T) {
	client := &fakeClient{}
	producer := &Producer{client: client, logger: logger.NewNop()}
	pub, err := NewShipNotifyPublisher(producer, "eagle-orders")
	require.NoError(t, err)
	pub.now = func() time.Time { return time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, pub.PublishShipNotify(context.Background(), "https://ssapi.shipstation.com/shipments?batchId=1", "SHIP_NOTIFY"))

	require.Len(t, client.records, 1)
	codec, err := avro.NewShipNotifyCodec()
	require.NoError(t, err)
	msg, err := codec.Decode(client.records[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "https://ssapi.shipstation.com/shipments?batchId=1", msg.ResourceURL)
	assert.Equal(t, "SHIP_NOTIFY", *msg.ResourceType)
	assert.Equal(t, msg.MessageID, string(client.records[0].Key))
	assert.Equal(t, 2021, msg.QueuedAt.Year())
}

func TestCustomerNotePublisher_KeysByOrderNumber(t *testing.T) {
	client := &fakeClient{}
	producer := &Producer{client: client, logger: logger.NewNop()}
	pub, err := NewCustomerNotePublisher(producer, "customer-notes")
	require.NoError(t, err)

	require.NoError(t, pub.PublishCustomerNote(context.Background(), "100038532"))

	require.Len(t, client.records, 1)
	assert.Equal(t, "customer-notes", client.records[0].Topic)
	assert.Equal(t, "100038532", string(client.records[0].Key))
}

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafkago.Message
	committed []int64
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	f.mu.Lock()
	if len(f.messages) > 0 {
		m := f.messages[0]
		f.messages = f.messages[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error { return nil }

func (f *fakeReader) commits() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.committed...)
}

func TestConsumer_ProcessesAndCommits(t *testing.T) {
	reader := &fakeReader{messages: []kafkago.Message{
		{Offset: 1, Value: []byte("ok")},
		{Offset: 2, Value: []byte("flaky")},
		{Offset: 3, Value: []byte("bad")},
	}}

	pool := worker.NewPool(context.Background(), 2, 10)
	pool.Start()
	go func() {
		for range pool.Results() {
		}
	}()

	var mu sync.Mutex
	calls := map[string]int{}
	handler := func(ctx context.Context, value []byte) error {
		mu.Lock()
		defer mu.Unlock()
		calls[string(value)]++
		switch {
		case string(value) == "flaky" && calls["flaky"] < 2:
			return errors.New("try again")
		case string(value) == "bad":
			return errors.New("always fails")
		}
		return nil
	}

	consumer := newConsumer(reader, "eagle-orders", pool, handler, logger.NewNop())
	consumer.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- consumer.Start(ctx) }()

	assert.Eventually(t, func() bool {
		c := reader.commits()
		return len(c) > 0 && c[len(c)-1] == 3
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-errCh)
	pool.Stop()

	commits := reader.commits()
	assert.IsIncreasing(t, commits)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls["ok"])
	assert.Equal(t, 2, calls["flaky"])
	assert.Equal(t, 3, calls["bad"])
}

func TestConsumer_CommitWaitsForEarlierOffset(t *testing.T) {
	reader := &fakeReader{messages: []kafkago.Message{
		{Offset: 5, Value: []byte("slow")},
		{Offset: 6, Value: []byte("fast")},
	}}

	pool := worker.NewPool(context.Background(), 2, 10)
	pool.Start()

	release := make(chan struct{})
	handler := func(ctx context.Context, value []byte) error {
		if string(value) == "slow" {
			<-release
		}
		return nil
	}

	consumer := newConsumer(reader, "eagle-orders", pool, handler, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- consumer.Start(ctx) }()

	first := <-pool.Results()
	assert.Equal(t, "eagle-orders/0/6", first.JobID)
	assert.Empty(t, reader.commits())

	close(release)
	second := <-pool.Results()
	assert.Equal(t, "eagle-orders/0/5", second.JobID)
	assert.Equal(t, []int64{6}, reader.commits())

	cancel()
	require.NoError(t, <-errCh)
	go func() {
		for range pool.Results() {
		}
	}()
	pool.Stop()
}
