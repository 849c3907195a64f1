package core

import (
	"testing"
	"time"

	"github.com/corvidae-labs/netwatch/internal/core/config"
	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCIDRExplicit(t *testing.T) {
	cfg := &config.Config{TargetCIDR: "192.168.1.0/24"}
	cidr, err := ResolveCIDR(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, cidr)
	assert.Equal(t, "192.168.1.0/24", cidr.String())
}

func TestResolveCIDRInvalidExplicit(t *testing.T) {
	cfg := &config.Config{TargetCIDR: "not-a-cidr"}
	_, err := ResolveCIDR(cfg, nil)
	assert.Error(t, err)
}

func TestResolveCIDRNoInterfaceFallsBackToNil(t *testing.T) {
	cfg := &config.Config{}
	cidr, err := ResolveCIDR(cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, cidr)
}

func TestBuildEngineRequiresResolvableInterface(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.NetworkInterface = "netwatch-does-not-exist0"
	cfg.SessionTimeout = 10 * time.Second

	_, err := BuildEngine(cfg, discovery.NoOpLogger{})
	assert.Error(t, err)
}
