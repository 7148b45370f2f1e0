package notify

import "sync/atomic"

var idCounter atomic.Int64

// NextID returns a notification ID that has never been returned before in
// this process. Safe for concurrent use.
func NextID() int64 {
	return idCounter.Add(1)
}
