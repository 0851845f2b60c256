package metrics

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var collectorNamespaceSeq uint64

func nextTestNamespace() string {
	seq := atomic.AddUint64(&collectorNamespaceSeq, 1)
	return fmt.Sprintf("test_%d", seq)
}

func TestNewCollector(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	assert.NotNil(t, collector)
	assert.NotNil(t, collector.handoffsTotal)
	assert.NotNil(t, collector.handoffDuration)
	assert.NotNil(t, collector.agentInvocationsTotal)
	assert.NotNil(t, collector.escalationsTotal)
	assert.NotNil(t, collector.synthesisConfidence)
}

func TestCollector_RecordHandoff(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	collector.RecordHandoff("parallel", true, 120*time.Millisecond)
	collector.RecordHandoff("parallel", false, 60*time.Millisecond)

	count := testutil.CollectAndCount(collector.handoffsTotal)
	assert.Equal(t, 2, count, "success and failure are separate series")
}

func TestCollector_RecordInvocation(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	collector.RecordInvocation("minto", true, 50*time.Millisecond)
	collector.RecordInvocation("minto", true, 70*time.Millisecond)

	count := testutil.CollectAndCount(collector.agentInvocationsTotal)
	assert.Equal(t, 1, count)
}

func TestCollector_RecordEscalation(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	collector.RecordEscalation()
	collector.RecordEscalation()

	assert.Equal(t, float64(2), testutil.ToFloat64(collector.escalationsTotal))
}

func TestCollector_RecordSynthesisConfidence(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	collector.RecordSynthesisConfidence(0.41)
	collector.RecordSynthesisConfidence(0.9)

	count := testutil.CollectAndCount(collector.synthesisConfidence)
	assert.Equal(t, 1, count)
}
