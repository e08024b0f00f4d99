package data

import (
	"context"
	"time"
)

// Health reports the status of each backing store.
func (d *Data) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"mongodb": "ok"}
	if err := d.client.Ping(ctx, nil); err != nil {
		d.logger.Warn(ctx, "mongodb health check failed", "error", err)
		status["mongodb"] = "unavailable"
	}

	if d.redis != nil {
		status["redis"] = "ok"
		if err := d.redis.Ping(ctx).Err(); err != nil {
			d.logger.Warn(ctx, "redis health check failed", "error", err)
			status["redis"] = "unavailable"
		}
	}
	return status
}
