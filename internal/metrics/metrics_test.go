package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"cloudscale_back_end/internal/database"
	"cloudscale_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	cases := []struct {
		users     int
		instances int
		cpu       string
		response  int
		load      int
		status    string
	}{
		{0, 2, "20", 200, 0, models.ScalingHealthy},
		{1, 2, "25", 230, 10, models.ScalingHealthy},
		{3, 2, "35", 290, 30, models.ScalingHealthy},
		{4, 3, "40", 320, 40, models.ScalingScaling},
		{5, 3, "45", 350, 50, models.ScalingScaling},
		{7, 4, "55", 410, 70, models.ScalingScaling},
		{10, 6, "70", 500, 95, models.ScalingScaling},
		{14, 8, "90", 620, 95, models.ScalingScaling},
		{20, 10, "90", 800, 95, models.ScalingScaling},
		{50, 10, "90", 1700, 95, models.ScalingScaling},
	}

	for _, tc := range cases {
		r := Compute(tc.users)
		assert.Equal(t, tc.users, r.ActiveUsers)
		assert.Equal(t, tc.instances, r.EC2Instances, "instances pour %d", tc.users)
		assert.True(t, decimal.RequireFromString(tc.cpu).Equal(r.CPUUtilization), "cpu pour %d: %s", tc.users, r.CPUUtilization)
		assert.Equal(t, tc.response, r.ResponseTime, "temps de réponse pour %d", tc.users)
		assert.Equal(t, tc.load, r.LoadPercentage, "charge pour %d", tc.users)
		assert.Equal(t, tc.status, r.ScalingStatus)
	}
}

func TestComputeClampsNegative(t *testing.T) {
	assert.Equal(t, Compute(0), Compute(-3))
}

func TestSnapshotDefaultsRegion(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Compute(4).Snapshot(at, "")
	assert.Equal(t, models.DefaultRegion, s.Region)
	assert.Equal(t, at, s.Timestamp)
	assert.Equal(t, 3, s.EC2Instances)
}

type fixedCounter struct {
	n   int
	err error
}

func (c fixedCounter) ActiveCount(context.Context) (int, error) { return c.n, c.err }

type recordingHub struct {
	mu       sync.Mutex
	conns    int
	messages [][]byte
	notify   chan struct{}
}

func newRecordingHub(conns int) *recordingHub {
	return &recordingHub{conns: conns, notify: make(chan struct{}, 16)}
}

func (h *recordingHub) Broadcast(msg []byte) {
	h.mu.Lock()
	h.messages = append(h.messages, msg)
	h.mu.Unlock()
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

func (h *recordingHub) Count() int { return h.conns }

func (h *recordingHub) last(t *testing.T) Message {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(t, h.messages)
	var m Message
	require.NoError(t, json.Unmarshal(h.messages[len(h.messages)-1], &m))
	return m
}

type failingStore struct {
	database.MetricsStore
}

func (failingStore) CreateSnapshot(context.Context, *models.MetricSnapshot) error {
	return errors.New("disque plein")
}

type archiveSpy struct {
	mu      sync.Mutex
	records []models.MetricSnapshot
	err     error
}

func (a *archiveSpy) Record(_ context.Context, s models.MetricSnapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, s)
	return a.err
}

func TestTickUsesMaxOfSessionsAndConnections(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()

	hub := newRecordingHub(5)
	b := NewBroadcaster(fixedCounter{n: 2}, hub, store, Options{})
	snap := b.Tick(ctx)
	assert.Equal(t, 5, snap.ActiveUsers)

	hub.conns = 1
	b = NewBroadcaster(fixedCounter{n: 3}, hub, store, Options{Region: "eu-west-3a"})
	snap = b.Tick(ctx)
	assert.Equal(t, 3, snap.ActiveUsers)
	assert.Equal(t, "eu-west-3a", snap.Region)

	msg := hub.last(t)
	assert.Equal(t, MessageType, msg.Type)
	assert.Equal(t, 3, msg.Data.ActiveUsers)
	assert.Equal(t, models.ScalingHealthy, msg.Data.ScalingStatus)

	history, err := store.SnapshotHistory(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestTickBroadcastsWhenPersistenceFails(t *testing.T) {
	hub := newRecordingHub(4)
	archive := &archiveSpy{err: errors.New("scylla indisponible")}
	b := NewBroadcaster(fixedCounter{err: errors.New("store hs")}, hub, failingStore{}, Options{Archive: archive})

	snap := b.Tick(context.Background())
	assert.Equal(t, 4, snap.ActiveUsers)
	assert.Equal(t, models.ScalingScaling, snap.ScalingStatus)

	msg := hub.last(t)
	assert.Equal(t, 3, msg.Data.EC2Instances)
	assert.Len(t, archive.records, 1)
}

func TestStartTriggerStop(t *testing.T) {
	hub := newRecordingHub(1)
	store := database.NewMemoryStore()
	b := NewBroadcaster(fixedCounter{}, hub, store, Options{Interval: time.Hour})

	b.Start(context.Background())
	b.Start(context.Background())

	b.Trigger()
	select {
	case <-hub.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("aucune diffusion après Trigger")
	}

	b.Stop()
	b.Stop()

	latest, err := store.LatestSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, latest.ActiveUsers)
}

func TestTickerFires(t *testing.T) {
	hub := newRecordingHub(0)
	b := NewBroadcaster(fixedCounter{}, hub, database.NewMemoryStore(), Options{Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.Start(ctx)
	defer b.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-hub.notify:
		case <-time.After(2 * time.Second):
			t.Fatal("le ticker n'a pas déclenché de diffusion")
		}
	}
}
