//go:build integration

package producer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"triad/pkg/testutil/containers"
)

type ProducerSuite struct {
	suite.Suite
	broker   string
	producer *Producer
}

func TestProducerSuite(t *testing.T) {
	suite.Run(t, new(ProducerSuite))
}

func (s *ProducerSuite) SetupSuite() {
	s.broker = containers.GetManager().GetRedpanda(s.T()).Broker
	p, err := New(context.Background(), Config{Brokers: []string{s.broker}, ClientID: "triad-test"})
	s.Require().NoError(err)
	s.producer = p
}

func (s *ProducerSuite) TearDownSuite() {
	if s.producer != nil {
		s.NoError(s.producer.Close(context.Background()))
	}
}

func (s *ProducerSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.producer.EnsureTopic(ctx, "triad.test.ensure", 1, 1))
	s.Require().NoError(s.producer.EnsureTopic(ctx, "triad.test.ensure", 1, 1))
}

func (s *ProducerSuite) TestProduceIsConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "triad.test.produce"
	s.Require().NoError(s.producer.EnsureTopic(ctx, topic, 1, 1))
	s.Require().NoError(s.producer.Produce(ctx, topic, []byte("k1"), []byte(`{"type":"all_clear"}`)))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().NoError(fetches.Err())
	records := fetches.Records()
	s.Require().NotEmpty(records)
	s.Equal("k1", string(records[0].Key))
	s.JSONEq(`{"type":"all_clear"}`, string(records[0].Value))
}

func (s *ProducerSuite) TestNewRequiresBrokers() {
	_, err := New(context.Background(), Config{})
	s.Error(err)
}
