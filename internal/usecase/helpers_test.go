package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/database/dbtest"
	"github.com/GoArmGo/DailyTrack/internal/database/storage"
	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/messaging/payloads"
	"github.com/stretchr/testify/require"
)

// recordingPublisher запоминает опубликованные события.
type recordingPublisher struct {
	mu     sync.Mutex
	events []payloads.ActivityEvent
	err    error
}

func (p *recordingPublisher) PublishActivity(_ context.Context, e payloads.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// memArchive хранит загруженные файлы в памяти.
type memArchive struct {
	files map[string][]byte
}

func (a *memArchive) UploadFile(_ context.Context, key string, content []byte, _ string) (string, error) {
	if a.files == nil {
		a.files = map[string][]byte{}
	}
	a.files[key] = content
	return "http://archive.local/" + key, nil
}

type env struct {
	deps        Deps
	publisher   *recordingPublisher
	users       UserUseCase
	tasks       TaskUseCase
	reflections ReflectionUseCase
	energy      EnergyUseCase
	daily       DailyUseCase
}

// newEnv собирает интеракторы поверх временной sqlite-базы; «сейчас» зафиксировано в now.
func newEnv(t *testing.T, now time.Time) *env {
	db := dbtest.New(t)
	log := dbtest.Logger()
	pub := &recordingPublisher{}

	d := Deps{
		Users:       storage.NewUserStorage(db, log),
		Tasks:       storage.NewTaskStorage(db, log),
		Reflections: storage.NewReflectionStorage(db, log),
		Energy:      storage.NewEnergyStorage(db, log),
		Tx:          storage.NewTransactor(db, log),
		Publisher:   pub,
		Now:         func() time.Time { return now },
		Location:    time.UTC,
		Logger:      log,
	}

	return &env{
		deps:        d,
		publisher:   pub,
		users:       NewUserUseCase(d),
		tasks:       NewTaskUseCase(d),
		reflections: NewReflectionUseCase(d),
		energy:      NewEnergyUseCase(d),
		daily:       NewDailyUseCase(d),
	}
}

func (e *env) createUser(t *testing.T, name string) *domain.User {
	u, err := e.users.CreateUser(context.Background(), name)
	require.NoError(t, err)
	return u
}

func ptr[T any](v T) *T { return &v }
