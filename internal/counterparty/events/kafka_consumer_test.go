package events

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type MockKafkaReader struct {
	mock.Mock
}

func (m *MockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	args := m.Called(ctx)
	return args.Get(0).(kafka.Message), args.Error(1)
}

func (m *MockKafkaReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaReader) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestConsumer_ConsumeOne(t *testing.T) {
	ctx := context.Background()
	valid := kafka.Message{Key: []byte("session-1"), Value: mustMarshal(invitedEvent())}

	t.Run("handled and committed", func(t *testing.T) {
		reader := new(MockKafkaReader)
		reader.On("FetchMessage", mock.Anything).Return(valid, nil)
		reader.On("CommitMessages", mock.Anything, mock.Anything).Return(nil)

		c := &Consumer{reader: reader, logger: zaptest.NewLogger(t)}
		var got Event
		c.RegisterHandler(func(_ context.Context, e Event) error {
			got = e
			return nil
		})

		assert.True(t, c.consumeOne(ctx))
		assert.Equal(t, CounterpartyInvited, got.Type)
		assert.Equal(t, "3", got.Counterparty.ID)
		reader.AssertCalled(t, "CommitMessages", mock.Anything, []kafka.Message{valid})
	})

	t.Run("handler error skips commit", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		reader := new(MockKafkaReader)
		reader.On("FetchMessage", mock.Anything).Return(valid, nil)

		c := &Consumer{reader: reader, logger: zap.New(core)}
		c.RegisterHandler(func(context.Context, Event) error { return errors.New("boom") })

		assert.True(t, c.consumeOne(ctx))
		assert.Equal(t, 1, recorded.FilterMessage("Failed to handle event").Len())
		reader.AssertNotCalled(t, "CommitMessages", mock.Anything, mock.Anything)
	})

	t.Run("undecodable message is committed", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		bad := kafka.Message{Value: []byte("{not json")}
		reader := new(MockKafkaReader)
		reader.On("FetchMessage", mock.Anything).Return(bad, nil)
		reader.On("CommitMessages", mock.Anything, mock.Anything).Return(nil)

		c := &Consumer{reader: reader, logger: zap.New(core)}

		assert.True(t, c.consumeOne(ctx))
		assert.Equal(t, 1, recorded.FilterMessage("Failed to parse event").Len())
		reader.AssertCalled(t, "CommitMessages", mock.Anything, []kafka.Message{bad})
	})

	t.Run("cancelled context stops", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		reader := new(MockKafkaReader)
		reader.On("FetchMessage", mock.Anything).Return(kafka.Message{}, context.Canceled)

		c := &Consumer{reader: reader, logger: zaptest.NewLogger(t)}

		assert.False(t, c.consumeOne(cancelled))
	})
}

func TestConsumer_StartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := new(MockKafkaReader)
	reader.On("FetchMessage", mock.Anything).Return(kafka.Message{}, context.Canceled)
	reader.On("Close").Return(nil)

	c := &Consumer{reader: reader, logger: zaptest.NewLogger(t)}
	cancel()
	<-c.Start(ctx)
	c.Close()

	reader.AssertCalled(t, "Close")
}
