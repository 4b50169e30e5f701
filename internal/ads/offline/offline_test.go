package offline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/registry"
)

func TestNeverFills(t *testing.T) {
	p := New()
	require.NoError(t, p.Initialize(context.Background()))

	for i := 0; i < 3; i++ {
		ad, err := p.Load(context.Background(), "unit", ads.Request{})
		assert.Nil(t, ad)
		assert.ErrorIs(t, err, ads.ErrNoFill)
	}

	report, err := ads.Inspect(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, report.Initialized)
	assert.Equal(t, 3, report.NoFills)
	assert.Zero(t, report.FillRate())
}

func TestRegistered(t *testing.T) {
	assert.True(t, registry.Exists(ID))
	infos := registry.List()
	require.NotEmpty(t, infos)
	assert.Equal(t, ID, infos[0].ID)
	assert.Equal(t, "Offline (no fill)", infos[0].Title)
}
