// Package dedupe provides the shared singleflight group used to deduplicate
// concurrent catalog lookups. Many players opening the same card at once
// (a shared room scanning the same QR) collapse into one database read.
package dedupe

import "golang.org/x/sync/singleflight"

// CardGroup deduplicates catalog card loads keyed by the decimal card ID.
var CardGroup singleflight.Group
