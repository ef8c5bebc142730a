package heartbeatworker

import (
	"context"
	"time"

	baseworker "interview-coach-backend/lib/utils/base-worker"
	connectionhub "interview-coach-backend/lib/ws/hub/connection-hub"
)

// StartWorker периодически пингует видеосоединения, чтобы освобождать оборванные
func StartWorker(ctx context.Context, hub connectionhub.Provider, interval time.Duration) {
	worker := baseworker.NewInstance("ws-heartbeat", interval, interval)
	go worker.Run(ctx, func(ctx context.Context) {
		if dropped := hub.Ping(); dropped > 0 {
			worker.GetLogger().
				WithField("dropped", dropped).
				WithField("connections", hub.Count()).
				Info("закрыты неотвечающие видеосоединения")
		}
	})
}
