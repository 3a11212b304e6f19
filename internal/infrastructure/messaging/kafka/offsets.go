package kafka

import (
	kafkago "github.com/segmentio/kafka-go"
)

type partitionOffsets struct {
	// inFlight holds tracked messages in fetch order.
	inFlight []kafkago.Message
	finished map[int64]bool
}

// offsetTracker finds, per partition, the last message before which every
// fetched message has finished. It is not safe for concurrent use.
type offsetTracker struct {
	partitions map[int]*partitionOffsets
}

func newOffsetTracker() *offsetTracker {
	return &offsetTracker{partitions: make(map[int]*partitionOffsets)}
}

func (t *offsetTracker) track(msg kafkago.Message) {
	p, ok := t.partitions[msg.Partition]
	if !ok {
		p = &partitionOffsets{finished: make(map[int64]bool)}
		t.partitions[msg.Partition] = p
	}
	p.inFlight = append(p.inFlight, msg)
}

// finish marks msg done. It returns the message to commit when the
// contiguous prefix of finished messages grew.
func (t *offsetTracker) finish(msg kafkago.Message) (kafkago.Message, bool) {
	p, ok := t.partitions[msg.Partition]
	if !ok {
		return kafkago.Message{}, false
	}
	p.finished[msg.Offset] = true

	var last kafkago.Message
	advanced := false
	for len(p.inFlight) > 0 && p.finished[p.inFlight[0].Offset] {
		last = p.inFlight[0]
		delete(p.finished, last.Offset)
		p.inFlight = p.inFlight[1:]
		advanced = true
	}
	return last, advanced
}
