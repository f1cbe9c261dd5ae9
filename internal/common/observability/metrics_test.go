package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObservability_Records(t *testing.T) {
	obs := New("directory-test")
	defer obs.Shutdown()

	assert.NotPanics(t, func() {
		obs.RecordQuery(context.Background(), "states", 3)
		obs.RecordDatasetLoad(context.Background(), "file", 12*time.Millisecond)
	})
}

func TestObservability_NilAndZeroAreNoOps(t *testing.T) {
	var nilObs *Observability
	zero := &Observability{}

	assert.NotPanics(t, func() {
		nilObs.RecordQuery(context.Background(), "states", 0)
		nilObs.RecordDatasetLoad(context.Background(), "file", time.Second)
		nilObs.Shutdown()
		zero.RecordQuery(context.Background(), "states", 0)
		zero.Shutdown()
	})
}
