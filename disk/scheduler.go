package disk

import (
	"sync"

	"github.com/sirupsen/logrus"

	"pagestore/page"
	"pagestore/queue"
)

// Direction distinguishes a read request from a write request.
type Direction bool

const (
	Read  Direction = false
	Write Direction = true
)

// Request is one scheduled disk operation: direction, the buffer to read
// into or write from, the page it targets, and the completion signal the
// worker fulfills when done.
type Request struct {
	Direction  Direction
	Data       []byte
	PageID     page.ID
	Completion *Future
}

// Scheduler owns a fixed pool of worker goroutines draining a shared FIFO
// of Requests and dispatching them to a Device. Schedule never blocks
// beyond the queue insertion; ordering across workers is not guaranteed
// once more than one worker is configured — callers needing
// write-before-read ordering on the same page must chain completions.
type Scheduler struct {
	device  Device
	queue   *queue.Queue[Request]
	wg      sync.WaitGroup
	log     *logrus.Entry
	workers int
}

// NewScheduler spawns numWorkers background goroutines, each running the
// same loop: Get a request; if none (the shutdown sentinel), exit;
// otherwise dispatch to device and fulfill the completion with true on
// success, false on I/O failure. numWorkers <= 0 is treated as 4, the
// default worker count.
func NewScheduler(device Device, numWorkers int, log *logrus.Logger) *Scheduler {
	if numWorkers <= 0 {
		numWorkers = 4
	}
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	s := &Scheduler{
		device:  device,
		queue:   queue.New[Request](),
		log:     log.WithField("component", "disk_scheduler"),
		workers: numWorkers,
	}
	for i := 0; i < numWorkers; i++ {
		s.wg.Add(1)
		go s.runWorker(i)
	}
	return s
}

func (s *Scheduler) runWorker(id int) {
	defer s.wg.Done()
	log := s.log.WithField("worker", id)
	for {
		req := s.queue.Get()
		if !req.Valid {
			log.Debug("worker exiting")
			return
		}
		r := req.Value
		var err error
		if r.Direction == Write {
			err = s.device.WritePage(r.PageID, r.Data)
		} else {
			err = s.device.ReadPage(r.PageID, r.Data)
		}
		if err != nil {
			log.WithError(err).WithField("page_id", r.PageID).Error("disk I/O failed")
			r.Completion.Fulfill(false)
			continue
		}
		log.WithField("page_id", r.PageID).Debug("disk I/O complete")
		r.Completion.Fulfill(true)
	}
}

// Schedule enqueues req and returns immediately. Requests are dequeued
// FIFO but, with more than one worker, completions may fulfill out of
// enqueue order.
func (s *Scheduler) Schedule(req Request) {
	s.queue.Put(queue.Some(req))
}

// Close pushes one shutdown sentinel per worker and waits for all workers
// to exit. Call Close once: a later call returns at once, leaving its
// sentinels in the queue with no worker left to read them.
func (s *Scheduler) Close() {
	for i := 0; i < s.workers; i++ {
		s.queue.Put(queue.None[Request]())
	}
	s.wg.Wait()
}
