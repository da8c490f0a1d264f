package service

import (
	"context"
	"encoding/json"
	"time"

	"cinereview/internal/core/cache"
	"cinereview/internal/domain"
)

type nameCard struct {
	Name string `json:"name"`
}

// DisplayNames resolves user ids to display names for the review read side. With a
// cache, each name is cached for ttl and dropped on profile updates.
type DisplayNames struct {
	users domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
}

func NewDisplayNames(users domain.UserRepository, c *cache.Cache, ttl time.Duration) *DisplayNames {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DisplayNames{users: users, cache: c, ttl: ttl}
}

func nameKey(id string) string { return "cinereview:user:name:" + id }

func (d *DisplayNames) Resolve(ctx context.Context, ids []string) (map[string]string, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	out := make(map[string]string, len(uniq))
	switch {
	case len(uniq) == 0:
		return out, nil
	case d.cache == nil:
		return out, d.load(ctx, uniq, out, nil)
	case len(uniq) == 1:
		return out, d.resolveOne(ctx, uniq[0], out)
	}

	keys := make([]string, len(uniq))
	for i, id := range uniq {
		keys[i] = nameKey(id)
	}
	var misses []string
	for i, b := range d.cache.MGet(ctx, keys...) {
		var card nameCard
		if b == nil || json.Unmarshal(b, &card) != nil {
			misses = append(misses, uniq[i])
			continue
		}
		if card.Name != "" {
			out[uniq[i]] = card.Name
		}
	}
	if len(misses) == 0 {
		return out, nil
	}

	fill := make(map[string][]byte, len(misses))
	if err := d.load(ctx, misses, out, fill); err != nil {
		return nil, err
	}
	// unknown ids are cached as empty names so they are not looked up again
	for _, id := range misses {
		if _, ok := fill[nameKey(id)]; !ok {
			fill[nameKey(id)] = []byte(`{"name":""}`)
		}
	}
	_ = d.cache.SetMany(ctx, fill, d.ttl)
	return out, nil
}

// load fetches ids in one query into out, and their encoded cards into fill when non-nil.
func (d *DisplayNames) load(ctx context.Context, ids []string, out map[string]string, fill map[string][]byte) error {
	us, err := d.users.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, u := range us {
		out[u.ID] = u.Name
		if fill != nil {
			b, err := json.Marshal(nameCard{Name: u.Name})
			if err != nil {
				return err
			}
			fill[nameKey(u.ID)] = b
		}
	}
	return nil
}

// resolveOne reads through the cache so concurrent misses on the same author load once.
func (d *DisplayNames) resolveOne(ctx context.Context, id string, out map[string]string) error {
	card, err := cache.GetOrLoadJSON(d.cache, ctx, nameKey(id), d.ttl, func(ctx context.Context) (*nameCard, error) {
		u, err := d.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return &nameCard{}, nil
		}
		return &nameCard{Name: u.Name}, nil
	})
	if err != nil {
		return err
	}
	if card != nil && card.Name != "" {
		out[id] = card.Name
	}
	return nil
}

func (d *DisplayNames) Forget(ctx context.Context, id string) error {
	if d.cache == nil {
		return nil
	}
	return d.cache.Del(ctx, nameKey(id))
}
