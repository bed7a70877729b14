// Package dedupe provides shared singleflight groups used to coalesce
// concurrent reads. Spectator pages poll the same snapshot many times per
// second; one load per key serves every waiting caller.
package dedupe

import "golang.org/x/sync/singleflight"

// StateGroup coalesces game snapshot loads keyed by keys.StateKey.
var StateGroup singleflight.Group

// ItemsGroup coalesces catalog reads under a single key.
var ItemsGroup singleflight.Group
