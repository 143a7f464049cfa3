package dashboard

import (
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
	"bitbucket.org/mmdatafocus/dashboard_backend/livesource"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// LiveOptions selects where screens pull live records from.
//
// memory and pubsub modes keep one MemoryStore per screen, registered on
// Router so that the feed can write to it. redis mode reads
// "<KeyPrefix>:<screen key>" on every pull.
type LiveOptions struct {
	Mode      string
	Router    *livesource.Router
	Redis     redis.Cmdable
	KeyPrefix string
	Logger    *logrus.Logger
}

// Catalogue holds every screen of every role.
type Catalogue struct {
	screens map[string]Screen
	order   []string
}

// NewCatalogue builds the default screens of all roles.
func NewCatalogue(live LiveOptions) (*Catalogue, error) {
	c := &Catalogue{screens: make(map[string]Screen)}
	err := errors.Join(
		Register(c, vendorOrders(), live),
		Register(c, vendorInventory(), live),
		Register(c, vendorLedger(), live),
		Register(c, vendorPurchaseOrders(), live),
		Register(c, deliveryJobs(), live),
		Register(c, deliveryEarnings(), live),
		Register(c, adminOrders(), live),
		Register(c, adminPurchaseOrders(), live),
		Register(c, adminLedger(), live),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Register validates the ScreenSpec, loads its baseline and adds the screen.
func Register[R listing.MutableRecord[R]](c *Catalogue, spec ScreenSpec[R], live LiveOptions) error {
	key := spec.Key()
	if _, dup := c.screens[key]; dup {
		return fmt.Errorf("screen %s registered twice", key)
	}
	s, err := newScreen(spec, liveSourceFor[R](key, live))
	if err != nil {
		return err
	}
	c.screens[key] = s
	c.order = append(c.order, key)
	return nil
}

func liveSourceFor[R listing.Record](key string, opts LiveOptions) listing.LiveSource[R] {
	if !config.UseLiveSourceFor(key) {
		return nil
	}
	switch opts.Mode {
	case config.LiveSourceRedis:
		if opts.Redis == nil {
			return nil
		}
		logger := opts.Logger
		if logger == nil {
			logger = config.GetLogger()
		}
		return livesource.NewRedisSource[R](opts.Redis, opts.KeyPrefix, key, logger)
	default:
		store := livesource.NewMemoryStore[R]()
		if opts.Router != nil {
			opts.Router.Register(key, store)
		}
		return store
	}
}

// Lookup returns the screen called name on the dashboard of role.
func (c *Catalogue) Lookup(role Role, name string) (Screen, error) {
	s, ok := c.screens[ScreenKey(role, name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", utils.ErrorUnknownScreen, ScreenKey(role, name))
	}
	return s, nil
}

// ForRole lists the screens of a role in registration order.
func (c *Catalogue) ForRole(role Role) []ScreenInfo {
	out := []ScreenInfo{}
	for _, key := range c.order {
		info := c.screens[key].Info()
		if info.Role == role {
			out = append(out, info)
		}
	}
	return out
}

func (c *Catalogue) Keys() []string {
	return append([]string(nil), c.order...)
}
