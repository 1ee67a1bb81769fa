package app

import (
	"context"

	"github.com/google/uuid"

	"wanderlust_travel/internal/domain"
	"wanderlust_travel/internal/pricing"
)

// CartHooks are invoked after every mutation, persistence first.
type CartHooks struct {
	Persist func(ctx context.Context, items []domain.LineItem)
	Render  func(view domain.CartView)
}

// Cart is the ordered line-item collection plus the applied coupon. The aggregate is
// recomputed inside every mutation so items and totals never disagree.
type Cart struct {
	items   []domain.LineItem
	coupon  *domain.Coupon
	agg     domain.Aggregate
	version uint64
	hooks   CartHooks
}

func NewCart(items []domain.LineItem, hooks CartHooks) *Cart {
	c := &Cart{items: append([]domain.LineItem(nil), items...), hooks: hooks}
	c.agg = pricing.OrderAggregate(c.items, nil)
	return c
}

func newID() string { return uuid.Must(uuid.NewV7()).String() }

// Add validates and appends item, assigning an id when it has none.
func (c *Cart) Add(ctx context.Context, item domain.LineItem) (string, error) {
	if err := item.Validate(); err != nil {
		return "", err
	}
	if item.ID == "" {
		item.ID = newID()
	}
	c.items = append(c.items, item)
	c.changed(ctx, true)
	return item.ID, nil
}

// Remove drops the item at index; an out-of-range index is a no-op.
func (c *Cart) Remove(ctx context.Context, index int) bool {
	if index < 0 || index >= len(c.items) {
		return false
	}
	c.items = append(c.items[:index:index], c.items[index+1:]...)
	c.changed(ctx, true)
	return true
}

func (c *Cart) Clear(ctx context.Context) {
	c.items = nil
	c.changed(ctx, true)
}

// SetCoupon applies (or, with nil, removes) the coupon. Coupons are not persisted.
func (c *Cart) SetCoupon(ctx context.Context, coupon *domain.Coupon) {
	if coupon != nil {
		cp := *coupon
		coupon = &cp
	}
	c.coupon = coupon
	c.changed(ctx, false)
}

func (c *Cart) Coupon() *domain.Coupon {
	if c.coupon == nil {
		return nil
	}
	cp := *c.coupon
	return &cp
}

func (c *Cart) All() []domain.LineItem {
	out := make([]domain.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int                    { return len(c.items) }
func (c *Cart) Aggregate() domain.Aggregate { return c.agg }

// Version increments on every mutation.
func (c *Cart) Version() uint64 { return c.version }

func (c *Cart) View() domain.CartView {
	return domain.CartView{Items: c.All(), Aggregate: c.agg}
}

func (c *Cart) HasPremium() bool {
	for _, it := range c.items {
		if it.PremiumLounge {
			return true
		}
	}
	return false
}

func (c *Cart) changed(ctx context.Context, persist bool) {
	c.version++
	c.agg = pricing.OrderAggregate(c.items, c.coupon)
	if persist && c.hooks.Persist != nil {
		c.hooks.Persist(ctx, c.All())
	}
	if c.hooks.Render != nil {
		c.hooks.Render(c.View())
	}
}
