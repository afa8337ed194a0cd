// Package storage keeps the persisted state records as objects in an
// S3-compatible bucket.
package storage

import (
	"path"
	"strings"
)

// DefaultObjectPrefix namespaces state objects inside a shared bucket.
const DefaultObjectPrefix = "workout-tracker/"

// objectKey maps a state key to its object name, e.g. workout-tracker/saved_workouts.json.
func objectKey(prefix, key string) string {
	prefix = strings.TrimLeft(prefix, "/")
	return path.Join(prefix, key) + ".json"
}
