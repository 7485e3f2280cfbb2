package messaging

import (
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

// Every republish must increment the redelivery counter it is later judged
// by; otherwise a permanently failing event would loop forever.
func TestRetryHeadersIncrementCounter(t *testing.T) {
	first := retryHeaders(amqp.Table{"correlation_id": "abc"})
	assert.Equal(t, int64(1), first[retryCountHeader])
	assert.Equal(t, "abc", first["correlation_id"])

	second := retryHeaders(first)
	assert.Equal(t, int64(2), second[retryCountHeader])
}

func TestShouldRetryStopsAtCap(t *testing.T) {
	c := &Consumer{}

	msg := amqp.Delivery{}
	assert.True(t, c.shouldRetry(msg))

	msg.Headers = amqp.Table{retryCountHeader: int64(maxRedeliveries - 1)}
	assert.True(t, c.shouldRetry(msg))

	msg.Headers = amqp.Table{retryCountHeader: int64(maxRedeliveries)}
	assert.False(t, c.shouldRetry(msg))
}

func TestRetryCountToleratesForeignHeaderTypes(t *testing.T) {
	assert.Equal(t, int64(0), retryCount(nil))
	assert.Equal(t, int64(0), retryCount(amqp.Table{retryCountHeader: "not-a-number"}))
	assert.Equal(t, int64(2), retryCount(amqp.Table{retryCountHeader: int32(2)}))
}
