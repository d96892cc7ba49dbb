package pyroscope

import (
	"context"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"

	"github.com/flexprice/invoicer/internal/config"
	"github.com/flexprice/invoicer/internal/logger"
)

func TestProfileTypes(t *testing.T) {
	cfg := config.GetDefaultConfig()
	svc := NewPyroscopeService(cfg, logger.NewNoopLogger())
	assert.Len(t, svc.profileTypes(), 4)

	cfg.Pyroscope.ProfileTypes = []string{"CPU", "mutex_count", "bogus"}
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileMutexCount}, svc.profileTypes())
}

func TestDisabledIsNoop(t *testing.T) {
	svc := NewPyroscopeService(config.GetDefaultConfig(), logger.NewNoopLogger())
	assert.NoError(t, svc.Start())
	assert.NoError(t, svc.Stop())

	ran := false
	svc.TagWrapper(context.Background(), map[string]string{"route": "/x"}, func(context.Context) { ran = true })
	assert.True(t, ran)
}
