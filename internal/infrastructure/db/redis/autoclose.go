package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const autoCloseInterval = 10 * time.Minute

// AutoCloseGate throttles the lazy stale-session sweep: the sweep runs at
// most once per interval per tenant, no matter how often logs are listed.
// Key format: autoclose:<tenant_id>
type AutoCloseGate struct {
	client   *redis.Client
	tenantID string
}

// NewAutoCloseGate creates a gate scoped to the given tenant.
func NewAutoCloseGate(client *redis.Client, tenantID string) *AutoCloseGate {
	return &AutoCloseGate{client: client, tenantID: tenantID}
}

// TryAcquire reports whether the caller won the right to run the sweep. The
// winning call sets the key with a TTL; subsequent calls lose until expiry.
func (g *AutoCloseGate) TryAcquire(ctx context.Context) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(), "1", autoCloseInterval).Result()
	if err != nil {
		return false, fmt.Errorf("auto-close gate: %w", err)
	}
	return ok, nil
}

func (g *AutoCloseGate) key() string {
	return fmt.Sprintf("autoclose:%s", g.tenantID)
}
