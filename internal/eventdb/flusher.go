package eventdb

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/truthledger/truthledger/internal/model"
	"github.com/truthledger/truthledger/internal/schema"
)

const flushBatchSize = 200

// EventSource is the slice of the engine the flusher needs.
type EventSource interface {
	EventsSince(seq uint64) []model.Event
}

// Flusher periodically drains new engine events into the Wdb. The
// engine never blocks on it; a failed flush is retried on the next
// tick from the same high-water mark, and BatchInsertEvents ignores
// duplicates.
type Flusher struct {
	wdb       *Wdb
	src       EventSource
	scheduler *gocron.Scheduler
	log       *zap.SugaredLogger

	mu      sync.Mutex
	lastSeq uint64
}

func NewFlusher(wdb *Wdb, src EventSource, log *zap.SugaredLogger) (*Flusher, error) {
	lastSeq, err := wdb.LastStoredSeq()
	if err != nil {
		return nil, err
	}

	return &Flusher{
		wdb:       wdb,
		src:       src,
		scheduler: gocron.NewScheduler(time.UTC),
		log:       log,
		lastSeq:   lastSeq,
	}, nil
}

func (f *Flusher) Run(every time.Duration) {
	f.scheduler.Every(every).SingletonMode().Do(f.flush)
	f.scheduler.StartAsync()
}

func (f *Flusher) Stop() {
	f.scheduler.Stop()
	f.flush()
}

func (f *Flusher) flush() {
	f.mu.Lock()
	defer f.mu.Unlock()

	events := f.src.EventsSince(f.lastSeq)
	if len(events) == 0 {
		return
	}

	batches := make([][]*schema.EventRecord, 0, len(events)/flushBatchSize+1)
	batch := make([]*schema.EventRecord, 0, flushBatchSize)
	for _, ev := range events {
		rec, err := toRecord(ev)
		if err != nil {
			f.log.Errorw("encode event", "seq", ev.Seq, "err", err)
			return
		}
		batch = append(batch, rec)
		if len(batch) == flushBatchSize {
			batches = append(batches, batch)
			batch = make([]*schema.EventRecord, 0, flushBatchSize)
		}
	}
	if len(batch) > 0 {
		batches = append(batches, batch)
	}

	var wg sync.WaitGroup
	var failed int
	var failedMu sync.Mutex

	p, _ := ants.NewPoolWithFunc(4, func(i interface{}) {
		defer wg.Done()
		recs, ok := i.([]*schema.EventRecord)
		if !ok {
			f.log.Errorw("unexpected batch type", "batch", i)
			return
		}
		if err := f.wdb.BatchInsertEvents(recs); err != nil {
			f.log.Errorw("insert event batch", "err", err, "from", recs[0].Seq)
			failedMu.Lock()
			failed++
			failedMu.Unlock()
		}
	})
	defer p.Release()

	for _, b := range batches {
		wg.Add(1)
		_ = p.Invoke(b)
	}
	wg.Wait()

	if failed > 0 {
		// Leave lastSeq alone; the next tick retries everything.
		return
	}

	f.lastSeq = events[len(events)-1].Seq
	f.log.Debugw("flushed events", "count", len(events), "lastSeq", f.lastSeq)
}
