package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokers(t *testing.T) {
	t.Setenv(BrokersEnv, "")

	brokers, err := Brokers(" kafka-1:9092, ,kafka-2:9092 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, brokers)

	_, err = Brokers("")
	assert.ErrorIs(t, err, ErrNoBrokers)
}

func TestBrokers_FallsBackToEnvironment(t *testing.T) {
	t.Setenv(BrokersEnv, "localhost:9092")

	brokers, err := Brokers("")
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092"}, brokers)
}
