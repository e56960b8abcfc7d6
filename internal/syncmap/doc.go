// Package syncmap offers a lightweight, generic, concurrency-safe map guarded
// by a sync.RWMutex.  On top of the basic Get/Set/Delete/List operations it
// supports change-event watchers, which is what the prompt and tool registries
// use to fan out add/change/remove notifications.
package syncmap
