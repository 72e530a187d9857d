package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()

	m.LeadSubmitted()
	m.LeadSubmitted()
	m.StatusTransition("installed")
	m.RewardCreated("voucher")
	m.RewardCreated("percentage")
	m.RewardCreated("percentage")
	m.PaymentProcessed("completed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.leadsSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusTransitions.WithLabelValues("installed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rewardsCreated.WithLabelValues("voucher")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rewardsCreated.WithLabelValues("percentage")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentsProcessed.WithLabelValues("completed")))
}

func TestHandlerServes(t *testing.T) {
	m := New()
	assert.NotNil(t, m.Handler())
}
