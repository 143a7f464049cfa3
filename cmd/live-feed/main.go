// Command live-feed publishes live record updates for dashboard screens,
// built from the embedded fixtures, to redis or Pub/Sub.
//
//	live-feed -screen vendor/orders -ids ORD-1001 -set status=preparing
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
	"bitbucket.org/mmdatafocus/dashboard_backend/livesource"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"github.com/google/uuid"
)

type options struct {
	screen string
	op     livesource.Op
	ids    []string
	sets   [][2]string
}

type builder func(o options) (livesource.Update, error)

func fromFixture[R listing.MutableRecord[R]](load func(string) ([]R, error), fixture string) builder {
	return func(o options) (livesource.Update, error) {
		records, err := load(fixture)
		if err != nil {
			return livesource.Update{}, err
		}
		return buildUpdate(o, records)
	}
}

var builders = map[string]builder{
	"vendor/orders":          fromFixture(models.LoadFixture[models.Order], models.FixtureVendorOrders),
	"vendor/inventory":       fromFixture(models.LoadFixture[models.InventoryItem], models.FixtureInventory),
	"vendor/ledger":          fromFixture(models.LoadFixture[models.LedgerEntry], models.FixtureVendorLedger),
	"vendor/purchase-orders": fromFixture(models.LoadFixture[models.PurchaseOrder], models.FixturePurchaseOrders),
	"delivery/jobs":          fromFixture(models.LoadFixture[models.DeliveryJob], models.FixtureDeliveryJobs),
	"delivery/earnings":      fromFixture(models.LoadFixture[models.LedgerEntry], models.FixtureEarnings),
	"admin/orders":           fromFixture(models.LoadFixture[models.Order], models.FixtureAdminOrders),
	"admin/purchase-orders":  fromFixture(models.LoadFixture[models.PurchaseOrder], models.FixturePurchaseOrders),
	"admin/ledger":           fromFixture(models.LoadFixture[models.LedgerEntry], models.FixtureAdminLedger),
}

// buildUpdate selects the records named by o.ids (all when empty) and
// applies every field=value of o.sets to them.
func buildUpdate[R listing.MutableRecord[R]](o options, records []R) (livesource.Update, error) {
	if o.op == livesource.OpRemove {
		if len(o.ids) == 0 {
			return livesource.Update{}, fmt.Errorf("remove needs -ids")
		}
		return livesource.RemoveUpdate(o.screen, o.ids...), nil
	}

	selected := records
	if len(o.ids) > 0 {
		selected = make([]R, 0, len(o.ids))
		for _, id := range o.ids {
			r, ok := listing.Find(records, id)
			if !ok {
				return livesource.Update{}, fmt.Errorf("%s: no record %q in fixture", o.screen, id)
			}
			selected = append(selected, r)
		}
	}

	for _, kv := range o.sets {
		for _, r := range selected {
			next := listing.ApplyTransition(selected, r.GetId(), kv[0], kv[1])
			if len(next) > 0 && &next[0] == &selected[0] {
				return livesource.Update{}, fmt.Errorf("%s: cannot set %s=%s on %s", o.screen, kv[0], kv[1], r.GetId())
			}
			selected = next
		}
	}
	return livesource.NewUpdate(o.screen, o.op, selected)
}

func parseSets(raw []string) ([][2]string, error) {
	out := make([][2]string, 0, len(raw))
	for _, s := range raw {
		k, v, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid -set %q, want field=value", s)
		}
		out = append(out, [2]string{strings.TrimSpace(k), strings.TrimSpace(v)})
	}
	return out, nil
}

func splitList(csv string) []string {
	var out []string
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	screen := flag.String("screen", "", "Required: screen key, e.g. vendor/orders")
	op := flag.String("op", string(livesource.OpUpsert), "upsert, replace or remove")
	ids := flag.String("ids", "", "Optional: comma-separated record ids (default: every fixture record)")
	set := flag.String("set", "", "Optional: comma-separated field=value changes, e.g. status=preparing")
	via := flag.String("via", os.Getenv("LIVE_SOURCE"), "redis or pubsub")
	redisAddr := flag.String("redis", os.Getenv("REDIS_ADDRESS"), "redis address")
	prefix := flag.String("prefix", "live", "redis key prefix")
	topic := flag.String("topic", os.Getenv("LIVE_PUBSUB_TOPIC"), "Pub/Sub topic")
	dryRun := flag.Bool("dry-run", false, "Print the update instead of publishing it")
	flag.Parse()

	build, ok := builders[strings.TrimSpace(*screen)]
	if !ok {
		fmt.Fprintf(os.Stderr, "--screen %q is not a known screen\n", *screen)
		os.Exit(1)
	}
	sets, err := parseSets(splitList(*set))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	u, err := build(options{
		screen: strings.TrimSpace(*screen),
		op:     livesource.Op(strings.ToLower(strings.TrimSpace(*op))),
		ids:    splitList(*ids),
		sets:   sets,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "build update: %v\n", err)
		os.Exit(1)
	}
	u.CorrelationId = uuid.NewString()

	data, err := u.Encode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode update: %v\n", err)
		os.Exit(1)
	}
	if _, err := livesource.DecodeUpdate(data); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *dryRun {
		fmt.Println(string(data))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var publisher livesource.Publisher
	switch strings.ToLower(strings.TrimSpace(*via)) {
	case config.LiveSourceRedis:
		if err := config.ConnectRedisWithRetry(ctx, *redisAddr); err != nil {
			fmt.Fprintf(os.Stderr, "connect redis: %v\n", err)
			os.Exit(1)
		}
		defer config.CloseRedis()
		publisher = livesource.NewRedisPublisher(config.GetRedisDB(), config.GetRedisLock(), *prefix)
	case config.LiveSourcePubSub:
		if strings.TrimSpace(*topic) == "" {
			fmt.Fprintln(os.Stderr, "--topic is required for pubsub")
			os.Exit(1)
		}
		defer config.ClosePubSub()
		publisher = livesource.PubSubPublisher{Topic: *topic}
	default:
		fmt.Fprintf(os.Stderr, "--via must be redis or pubsub, got %q\n", *via)
		os.Exit(1)
	}

	if err := publisher.Publish(ctx, u); err != nil {
		fmt.Fprintf(os.Stderr, "publish: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Published %s update for %s (correlation_id=%s)\n", u.Op, u.Screen, u.CorrelationId)
}
