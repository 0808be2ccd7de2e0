package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/voucherbill/internal/normaliser"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := NewConfig([]string{"ZAR"}, normaliser.Default())
	require.NoError(t, err)
	return cfg
}

func TestRegistry_RegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	r.Register("always", func(_ *Config) Detector {
		return Detector{
			Match: func(string) bool { return true },
			Apply: func(*builder, []string, int) {},
		}
	})

	assert.True(t, r.Has("always"))
	assert.False(t, r.Has("never"))

	d, err := r.Build("always", testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "always", d.Name)
	assert.True(t, d.Match("anything"))
}

func TestRegistry_BuildUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Build("missing", testConfig(t))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown detector")
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	assert.Len(t, r.Names(), len(DefaultOrder))
	for _, name := range DefaultOrder {
		assert.True(t, r.Has(name), name)
	}
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(nil, nil)
	assert.Error(t, err)

	_, err = NewConfig([]string{" "}, nil)
	assert.Error(t, err)

	cfg, err := NewConfig([]string{"ZAR"}, nil)
	require.NoError(t, err)
	assert.True(t, cfg.hasCurrency("30 ZAR 10.00"))
	assert.False(t, cfg.hasCurrency("BAZAR"))

	a, ok := cfg.parseAmounts("Room Night 30 ZAR 1,688.50 50,655.00")
	require.True(t, ok)
	assert.Equal(t, "Room Night", a.prefix)
	assert.Equal(t, "30", a.qty)
	assert.Equal(t, "ZAR", a.currency)
	assert.Equal(t, "1,688.50", a.rate)
	assert.Equal(t, "50,655.00", a.total)
}
