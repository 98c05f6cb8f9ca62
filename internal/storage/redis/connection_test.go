package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sohammathur/Chat-Application--AI/config"
)

func TestNewClient(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		c, err := NewClient(context.Background(), &config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("connects", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		c, err := NewClient(context.Background(), &config.RedisConfig{Addr: mr.Addr()})
		require.NoError(t, err)
		require.NotNil(t, c)
		defer c.Close()

		assert.NoError(t, c.Set(context.Background(), "k", "v", 0).Err())
		got, err := mr.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	})

	t.Run("unreachable", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		addr := mr.Addr()
		mr.Close()

		_, err = NewClient(context.Background(), &config.RedisConfig{Addr: addr})
		assert.Error(t, err)
	})
}
