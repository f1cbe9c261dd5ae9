package camunda

import (
	"testing"

	"llc-directory/internal/common/config"
	"llc-directory/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
)

func TestWorkerSet_DisabledWorkerIsNotOpened(t *testing.T) {
	// A disabled worker never touches the client, so nil is fine here.
	set := NewWorkerSet(nil, logger.NewTestLogger(t))

	started := set.Start("query-providers", config.WorkerConfig{Enabled: false}, func(worker.JobClient, entities.Job) {})

	assert.False(t, started)
	assert.Empty(t, set.TaskTypes())
	assert.NotPanics(t, set.Close)
}

func TestNewClientWithConfig_EmptyAddress(t *testing.T) {
	_, err := NewClientWithConfig(&ClientConfig{})
	assert.Error(t, err)
}
