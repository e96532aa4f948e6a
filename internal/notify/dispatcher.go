// Package notify доставляет события слотов (бронь, освобождение, удаление) во внешние каналы.
// Доставка best-effort: Notify никогда не блокирует и не возвращает ошибку вызывающему.
package notify

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
	"go.uber.org/zap"
)

// Sink доставляет события в один канал
type Sink interface {
	Name() string
	Send(ctx context.Context, event model.SlotEvent) error
}

// Dispatcher держит очереди событий и воркеры, которые рассылают их по sink'ам.
// События одного слота всегда попадают к одному воркеру, поэтому доходят в порядке версий
type Dispatcher struct {
	queues      []chan model.SlotEvent
	sinks       []Sink
	sendTimeout time.Duration
	logger      *zap.Logger

	mu       sync.RWMutex // Notify держит RLock, Stop закрывает приём под Lock
	stopped  bool
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	dropped  atomic.Int64
	sent     atomic.Int64
}

// NewDispatcher создаёт диспетчер: buffer событий делится между workers очередями
func NewDispatcher(buffer, workers int, logger *zap.Logger, sinks ...Sink) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	perWorker := (buffer + workers - 1) / workers
	if perWorker < 1 {
		perWorker = 1
	}

	queues := make([]chan model.SlotEvent, workers)
	for i := range queues {
		queues[i] = make(chan model.SlotEvent, perWorker)
	}

	return &Dispatcher{
		queues:      queues,
		sinks:       sinks,
		sendTimeout: 10 * time.Second,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

// Notify ставит событие в очередь его слота. Если очередь заполнена или диспетчер
// уже остановлен, событие отбрасывается и учитывается в Dropped
func (d *Dispatcher) Notify(ctx context.Context, event model.SlotEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(event, "Notification dispatcher stopped, event dropped")
		return
	}

	select {
	case d.queues[d.queueFor(event.SlotID)] <- event:
	default:
		d.drop(event, "Notification queue full, event dropped")
	}
}

func (d *Dispatcher) drop(event model.SlotEvent, msg string) {
	d.dropped.Add(1)
	d.logger.Warn(msg,
		zap.String("slot_id", event.SlotID),
		zap.String("kind", string(event.Kind)),
		zap.Int64("version", event.Version),
	)
}

func (d *Dispatcher) queueFor(slotID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(slotID))
	return int(h.Sum32() % uint32(len(d.queues)))
}

// Start запускает по воркеру на очередь. Отмена ctx равносильна Stop
func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("Starting notification dispatcher",
		zap.Int("workers", len(d.queues)),
		zap.Int("sinks", len(d.sinks)),
	)

	for _, queue := range d.queues {
		d.wg.Add(1)
		go d.runWorker(queue)
	}

	go func() {
		select {
		case <-ctx.Done():
			d.Stop()
		case <-d.stopChan:
		}
	}()
}

// Stop закрывает приём событий и ждёт, пока воркеры разошлют то, что уже в очередях
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.logger.Info("Stopping notification dispatcher")

		d.mu.Lock()
		d.stopped = true
		d.mu.Unlock()

		close(d.stopChan)
	})
	d.wg.Wait()
}

// Run запускает воркеры и блокируется до отмены ctx
func (d *Dispatcher) Run(ctx context.Context) error {
	d.Start(ctx)
	<-ctx.Done()
	d.Stop()
	return nil
}

// Dropped возвращает число отброшенных событий
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Sent возвращает число успешных доставок (событие × sink)
func (d *Dispatcher) Sent() int64 {
	return d.sent.Load()
}

func (d *Dispatcher) runWorker(queue chan model.SlotEvent) {
	defer d.wg.Done()

	for {
		select {
		case event := <-queue:
			d.deliver(event)
		case <-d.stopChan:
			d.drain(queue)
			return
		}
	}
}

func (d *Dispatcher) drain(queue chan model.SlotEvent) {
	for {
		select {
		case event := <-queue:
			d.deliver(event)
		default:
			return
		}
	}
}

// deliver рассылает событие; ошибки sink'ов только логируются
func (d *Dispatcher) deliver(event model.SlotEvent) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		err := d.send(ctx, sink, event)
		cancel()

		if err != nil {
			d.logger.Warn("Notification sink failed",
				zap.String("sink", sink.Name()),
				zap.String("slot_id", event.SlotID),
				zap.String("kind", string(event.Kind)),
				zap.Error(err),
			)
			continue
		}
		d.sent.Add(1)
	}
}

func (d *Dispatcher) send(ctx context.Context, sink Sink, event model.SlotEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return sink.Send(ctx, event)
}
