// Package cache persists generated device source keyed by type identity.
//
// Entries are addressed by the SHA-256 digest of a descriptor's canonical
// encoding together with the target it was generated for, so a cache file
// survives process restarts and can be shared between hosts. The in-process
// ID of a descriptor is never used as a key; it may collide.
//
//	c, err := cache.Open("dyntype.db")
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	if src, ok, err := c.Get(ctx, t, tgt); err == nil && ok {
//		return src, nil
//	}
package cache
