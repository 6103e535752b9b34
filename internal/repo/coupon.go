package repo

import (
	"context"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const tableCoupons = "coupons"

var couponColumns = []string{
	"id", "code", "discount_amount", "discount_kind", "expires_at", "active",
	"usage_cap", "usage_count", "created_at", "updated_at",
}

type CouponRepo struct {
	drv dialect.ExecQuerier
}

func scanCoupon(rows *sql.Rows) (*Coupon, error) {
	var (
		c    Coupon
		kind string
	)
	if err := rows.Scan(&c.ID, &c.Code, &c.DiscountAmount, &kind, &c.ExpiresAt, &c.Active,
		&c.UsageCap, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.DiscountKind = DiscountKind(kind)
	return &c, nil
}

func selectCoupons() *sql.Selector {
	return builder().Select(couponColumns...).From(builder().Table(tableCoupons))
}

func (r *CouponRepo) Create(ctx context.Context, c *Coupon) error {
	_, err := execAffected(ctx, r.drv, builder().Insert(tableCoupons).
		Columns(couponColumns...).
		Values(c.ID, c.Code, c.DiscountAmount, string(c.DiscountKind), c.ExpiresAt, c.Active,
			c.UsageCap, c.UsageCount, c.CreatedAt, c.UpdatedAt))
	return err
}

func (r *CouponRepo) Get(ctx context.Context, id uuid.UUID) (*Coupon, error) {
	return r.one(ctx, selectCoupons().Where(sql.EQ("id", id)))
}

// GetByCode expects an already normalized (uppercase) code.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	return r.one(ctx, selectCoupons().Where(sql.EQ("code", code)))
}

func (r *CouponRepo) one(ctx context.Context, sel *sql.Selector) (*Coupon, error) {
	var out *Coupon
	err := queryOne(ctx, r.drv, sel, func(rows *sql.Rows) (err error) {
		out, err = scanCoupon(rows)
		return err
	})
	return out, err
}

func (r *CouponRepo) List(ctx context.Context) ([]*Coupon, error) {
	var out []*Coupon
	err := queryRows(ctx, r.drv, selectCoupons().OrderBy(sql.Desc("created_at")), func(rows *sql.Rows) error {
		c, err := scanCoupon(rows)
		if err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

// Update writes the editable fields. usage_count is only changed by Redeem.
func (r *CouponRepo) Update(ctx context.Context, c *Coupon) error {
	n, err := execAffected(ctx, r.drv, builder().Update(tableCoupons).
		Set("code", c.Code).
		Set("discount_amount", c.DiscountAmount).
		Set("discount_kind", string(c.DiscountKind)).
		Set("expires_at", c.ExpiresAt).
		Set("active", c.Active).
		Set("usage_cap", c.UsageCap).
		Set("updated_at", c.UpdatedAt).
		Where(sql.EQ("id", c.ID)))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CouponRepo) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := execAffected(ctx, r.drv, builder().Delete(tableCoupons).Where(sql.EQ("id", id)))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func redeemCoupon(code string, now time.Time) *sql.UpdateBuilder {
	return builder().Update(tableCoupons).
		Add("usage_count", 1).
		Set("updated_at", now).
		Where(sql.And(
			sql.EQ("code", code),
			sql.EQ("active", true),
			sql.GT("expires_at", now),
			sql.Or(sql.EQ("usage_cap", 0), sql.ColumnsLT("usage_count", "usage_cap")),
		))
}

// Redeem increments usage_count only while the coupon is active, unexpired
// and under its cap, as one conditional statement. It reports whether a
// use was recorded.
func (r *CouponRepo) Redeem(ctx context.Context, code string, now time.Time) (bool, error) {
	n, err := execAffected(ctx, r.drv, redeemCoupon(code, now))
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func releaseCoupon(code string, now time.Time) *sql.UpdateBuilder {
	return builder().Update(tableCoupons).
		Add("usage_count", -1).
		Set("updated_at", now).
		Where(sql.And(
			sql.EQ("code", code),
			sql.GT("usage_count", 0),
		))
}

// Release gives back one use taken by Redeem. The count never goes below zero.
func (r *CouponRepo) Release(ctx context.Context, code string, now time.Time) (bool, error) {
	n, err := execAffected(ctx, r.drv, releaseCoupon(code, now))
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
