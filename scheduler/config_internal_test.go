package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "zero value gets defaults",
			in:   Config{},
			want: Config{
				BatchSize:     DefaultBatchSize,
				BatchTimeout:  DefaultBatchTimeout,
				MemoryLimitMB: DefaultMemoryLimitMB,
			},
		},
		{
			name: "valid values pass through",
			in: Config{
				BatchSize:     50,
				BatchTimeout:  5 * time.Second,
				MemoryLimitMB: 100,
			},
			want: Config{
				BatchSize:     50,
				BatchTimeout:  5 * time.Second,
				MemoryLimitMB: 100,
			},
		},
		{
			name: "oversized values clamped down",
			in: Config{
				BatchSize:     5000,
				BatchTimeout:  time.Hour,
				MemoryLimitMB: 4096,
			},
			want: Config{
				BatchSize:     MaxBatchSize,
				BatchTimeout:  MaxBatchTimeout,
				MemoryLimitMB: MaxMemoryLimitMB,
			},
		},
		{
			name: "negative values fall back to defaults",
			in: Config{
				BatchSize:     -1,
				BatchTimeout:  -time.Second,
				MemoryLimitMB: -5,
			},
			want: Config{
				BatchSize:     DefaultBatchSize,
				BatchTimeout:  DefaultBatchTimeout,
				MemoryLimitMB: DefaultMemoryLimitMB,
			},
		},
		{
			name: "flags preserved",
			in: Config{
				AutoProcessOnMemoryLimit: true,
				ReturnAck:                true,
			},
			want: Config{
				BatchSize:                DefaultBatchSize,
				BatchTimeout:             DefaultBatchTimeout,
				MemoryLimitMB:            DefaultMemoryLimitMB,
				AutoProcessOnMemoryLimit: true,
				ReturnAck:                true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.normalized())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{
		BatchSize:     50,
		BatchTimeout:  5 * time.Second,
		MemoryLimitMB: 100,
	}.Validate())

	assert.Error(t, Config{BatchSize: -1}.Validate())
	assert.Error(t, Config{BatchSize: MaxBatchSize + 1}.Validate())
	assert.Error(t, Config{BatchTimeout: MaxBatchTimeout + time.Second}.Validate())
	assert.Error(t, Config{MemoryLimitMB: MaxMemoryLimitMB + 1}.Validate())
}
