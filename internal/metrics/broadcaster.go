package metrics

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"cloudscale_back_end/internal/database"
	"cloudscale_back_end/internal/models"
)

const (
	DefaultInterval = 5 * time.Second
	MessageType     = "metrics_update"
)

// Message est la trame envoyée sur le canal temps réel
type Message struct {
	Type string                `json:"type"`
	Data models.MetricSnapshot `json:"data"`
}

// ActiveCounter compte les sessions authentifiées récentes
type ActiveCounter interface {
	ActiveCount(ctx context.Context) (int, error)
}

// Publisher diffuse une trame à toutes les connexions ouvertes
type Publisher interface {
	Broadcast(msg []byte)
	Count() int
}

type Options struct {
	Interval time.Duration
	Region   string
	// Archive optionnelle (ScyllaDB)
	Archive Archive
}

// Broadcaster calcule, persiste et diffuse un relevé à intervalle fixe.
// Les ticks sont exécutés par une seule goroutine, jamais en parallèle.
type Broadcaster struct {
	sessions ActiveCounter
	hub      Publisher
	store    database.MetricsStore
	archive  Archive
	interval time.Duration
	region   string
	now      func() time.Time

	trigger chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewBroadcaster(sessions ActiveCounter, hub Publisher, store database.MetricsStore, opts Options) *Broadcaster {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Region == "" {
		opts.Region = models.DefaultRegion
	}
	return &Broadcaster{
		sessions: sessions,
		hub:      hub,
		store:    store,
		archive:  opts.Archive,
		interval: opts.Interval,
		region:   opts.Region,
		now:      time.Now,
		trigger:  make(chan struct{}, 1),
	}
}

// Start lance la boucle et rend la main. Un second appel est sans effet.
func (b *Broadcaster) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.done = make(chan struct{})
	go b.run(ctx, b.done)

	log.Printf("📡 Diffusion des métriques toutes les %s", b.interval)
}

// Stop arrête la boucle et attend la fin du tick en cours
func (b *Broadcaster) Stop() {
	b.mu.Lock()
	cancel, done := b.cancel, b.done
	b.cancel, b.done = nil, nil
	b.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Trigger demande un tick immédiat; les demandes en attente sont fusionnées
func (b *Broadcaster) Trigger() {
	select {
	case b.trigger <- struct{}{}:
	default:
	}
}

func (b *Broadcaster) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-b.trigger:
		}
		b.Tick(ctx)
	}
}

// Tick produit un relevé: comptage, calcul, persistance, archive puis diffusion.
// Un échec de persistance est journalisé et n'empêche pas la diffusion.
func (b *Broadcaster) Tick(ctx context.Context) models.MetricSnapshot {
	connections := b.hub.Count()

	sessions, err := b.sessions.ActiveCount(ctx)
	if err != nil {
		log.Printf("⚠️ Comptage des sessions actives impossible: %v", err)
		sessions = 0
	}

	snapshot := Compute(max(sessions, connections)).Snapshot(b.now().UTC(), b.region)

	if err := b.store.CreateSnapshot(ctx, &snapshot); err != nil {
		log.Printf("❌ Échec de l'enregistrement des métriques: %v", err)
	}

	if b.archive != nil {
		if err := b.archive.Record(ctx, snapshot); err != nil {
			log.Printf("⚠️ Archive ScyllaDB: %v", err)
		}
	}

	payload, err := json.Marshal(Message{Type: MessageType, Data: snapshot})
	if err != nil {
		log.Printf("❌ Encodage des métriques: %v", err)
		return snapshot
	}
	b.hub.Broadcast(payload)
	return snapshot
}
