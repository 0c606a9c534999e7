package store

import "context"

type prefixedStore struct {
	base   Store
	prefix string
}

// Prefixed namespaces every key of base with prefix.
func Prefixed(base Store, prefix string) Store {
	return &prefixedStore{base: base, prefix: prefix}
}

func (p *prefixedStore) Get(ctx context.Context, key string) (Document, int64, error) {
	return p.base.Get(ctx, p.prefix+key)
}

func (p *prefixedStore) Set(ctx context.Context, key string, doc Document) error {
	return p.base.Set(ctx, p.prefix+key, doc)
}

func (p *prefixedStore) SetIfRevision(ctx context.Context, key string, doc Document, revision int64) error {
	return p.base.SetIfRevision(ctx, p.prefix+key, doc, revision)
}

func (p *prefixedStore) Delete(ctx context.Context, key string) error {
	return p.base.Delete(ctx, p.prefix+key)
}

func (p *prefixedStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return p.base.Transaction(ctx, func(tx Store) error {
		return fn(&prefixedStore{base: tx, prefix: p.prefix})
	})
}
