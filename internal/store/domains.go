package store

import (
	"context"
	"strings"

	"github.com/dmitrymomot/apigate/pkg/redis"
	"github.com/dmitrymomot/apigate/pkg/validator"
)

const disposableKey = "disposable_domains"

// DefaultDisposableDomains seeds an empty domain set.
var DefaultDisposableDomains = []string{
	"10minutemail.com",
	"guerrillamail.com",
	"mailinator.com",
	"sharklasers.com",
	"temp-mail.org",
	"throwawaymail.com",
	"trashmail.com",
	"yopmail.com",
}

// DisposableDomains is a Redis set of email domains that may not register.
type DisposableDomains struct {
	kv *redis.Storage
}

var _ validator.AsyncRuleFunc = (*DisposableDomains)(nil).NotDisposable

func NewDisposableDomains(kv *redis.Storage) *DisposableDomains {
	return &DisposableDomains{kv: kv}
}

// Seed adds domains to the set, lowercased.
func (d *DisposableDomains) Seed(ctx context.Context, domains ...string) error {
	clean := make([]string, 0, len(domains))
	for _, dom := range domains {
		if dom = strings.ToLower(strings.TrimSpace(dom)); dom != "" {
			clean = append(clean, dom)
		}
	}
	return d.kv.SetAdd(ctx, disposableKey, clean...)
}

// SeedDefaults loads DefaultDisposableDomains when the set is empty.
func (d *DisposableDomains) SeedDefaults(ctx context.Context) error {
	n, err := d.kv.SetSize(ctx, disposableKey)
	if err != nil || n > 0 {
		return err
	}
	return d.Seed(ctx, DefaultDisposableDomains...)
}

// NotDisposable is the notDisposableEmail async rule. Values without a
// domain part pass; the email rule reports those.
func (d *DisposableDomains) NotDisposable(ctx context.Context, value any, _ validator.Params) (bool, error) {
	email, ok := value.(string)
	if !ok {
		return true, nil
	}
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return true, nil
	}
	listed, err := d.kv.SetHas(ctx, disposableKey, strings.ToLower(email[at+1:]))
	if err != nil {
		return false, err
	}
	return !listed, nil
}
