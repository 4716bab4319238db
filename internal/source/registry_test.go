package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empleo-engine/internal/config"
	"empleo-engine/internal/fetch"
	"empleo-engine/internal/httpx"
)

func TestBuildResolvesEnabledSources(t *testing.T) {
	cfg := config.Config{Sources: map[string]config.SourceConfig{
		"remoteok":     {Enabled: true},
		"computrabajo": {Enabled: true},
		"jobicy":       {Enabled: false},
	}}
	reg := fetch.NewRegistry()

	active, failed := Build(cfg, httpx.NewClient(), reg)

	require.Len(t, active, 2)
	assert.Empty(t, failed)

	byName := map[string]fetch.Descriptor{}
	for _, d := range active {
		byName[d.Name] = d
	}
	assert.Equal(t, fetch.TierAPI, byName["remoteok"].Tier)
	assert.Equal(t, fetch.TierScrape, byName["computrabajo"].Tier)
	assert.Equal(t, "remoteok", byName["remoteok"].Source.SourceName())
}

func TestBuildUnknownNameIsConfigError(t *testing.T) {
	cfg := config.Config{Sources: map[string]config.SourceConfig{
		"linkedin": {Enabled: true}, // no registered connector
		"remoteok": {Enabled: true},
	}}
	reg := fetch.NewRegistry()

	active, failed := Build(cfg, httpx.NewClient(), reg)

	require.Len(t, active, 1)
	require.Len(t, failed, 1)
	assert.Equal(t, "linkedin", failed[0].Source)
	assert.Equal(t, fetch.StatusNotFound, failed[0].Status)
	assert.Equal(t, 1, reg.Summary().PerCategory[string(fetch.CategoryNotFound)])
}

func TestBuildDeterministicOrder(t *testing.T) {
	cfg := config.Config{Sources: map[string]config.SourceConfig{
		"remoteok":  {Enabled: true},
		"arbeitnow": {Enabled: true},
		"jobicy":    {Enabled: true},
	}}
	a, _ := Build(cfg, httpx.NewClient(), fetch.NewRegistry())
	b, _ := Build(cfg, httpx.NewClient(), fetch.NewRegistry())

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
	}
}
