package lock

import (
	"context"
	"sync"
	"time"
)

const retryPeriod = 50 * time.Millisecond

// KeyLock взаимное исключение по строковому ключу внутри процесса
type KeyLock struct {
	locks sync.Map
}

func NewKeyLock() *KeyLock {
	return &KeyLock{}
}

// WithDelay ждёт освобождения ключа не дольше wait и выполняет safeCode под блокировкой.
// success=false, если ключ не освободился или контекст завершён (тогда err = ctx.Err()); safeCode не вызывается.
func (l *KeyLock) WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timeout := time.NewTimer(wait)
	defer timeout.Stop()
	for {
		if _, loaded := l.locks.LoadOrStore(key, struct{}{}); !loaded {
			break
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		select {
		case <-timeout.C:
			return false, nil
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(retryPeriod):
		}
	}
	defer l.locks.Delete(key)
	return true, safeCode()
}

func (l *KeyLock) IsLocked(key string) bool {
	_, ok := l.locks.Load(key)
	return ok
}
