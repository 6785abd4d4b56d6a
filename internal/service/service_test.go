package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MSSkowron/CareAuth/internal/database"
	"github.com/MSSkowron/CareAuth/internal/dto"
	"github.com/MSSkowron/CareAuth/internal/metrics"
	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/MSSkowron/CareAuth/internal/repository/memory"
	"github.com/MSSkowron/CareAuth/internal/revocation"
	"github.com/MSSkowron/CareAuth/pkg/crypto"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type publishedEvent struct {
	subject string
	event   any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{subject: subject, event: event})
	return nil
}

func (p *recordingPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	subjects := make([]string, 0, len(p.events))
	for _, e := range p.events {
		subjects = append(subjects, e.subject)
	}
	return subjects
}

type testEnv struct {
	store     *memory.Store
	repos     Repositories
	tokens    *TokenServiceImpl
	revoked   *revocation.MemoryStore
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	auth      *AuthServiceImpl
	profile   *ProfileServiceImpl
	data      *DataServiceImpl
	history   *ConsultationHistoryServiceImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hasher, err := crypto.NewHasher(4)
	require.NoError(t, err)

	store := memory.NewStore()
	repos := Repositories{
		Users:                 store.Users(),
		Pacilians:             store.Pacilians(),
		Caregivers:            store.Caregivers(),
		Schedules:             store.Schedules(),
		ConsultationHistories: store.ConsultationHistories(),
		Tx:                    database.NoopTxManager{},
	}

	env := &testEnv{
		store:     store,
		repos:     repos,
		tokens:    NewTokenService(testSecret, time.Hour),
		revoked:   revocation.NewMemoryStore(),
		publisher: &recordingPublisher{},
		metrics:   metrics.New(),
	}
	env.auth = NewAuthService(repos, hasher, env.tokens, env.revoked, env.publisher, env.metrics)
	env.profile = NewProfileService(repos, hasher, env.tokens, env.revoked, env.publisher, env.metrics)
	env.data = NewDataService(repos, env.metrics)
	env.history = NewConsultationHistoryService(repos)
	return env
}

func pacilianRequest(email, nik string) *dto.RegisterPacilianDTO {
	return &dto.RegisterPacilianDTO{
		Email:          email,
		Password:       "password123",
		Name:           "Budi Santoso",
		NIK:            nik,
		Address:        "Jl. Margonda 1",
		PhoneNumber:    "081234567890",
		MedicalHistory: "asthma",
	}
}

func caregiverRequest(email, nik, name string, speciality model.Speciality) *dto.RegisterCaregiverDTO {
	return &dto.RegisterCaregiverDTO{
		Email:       email,
		Password:    "password123",
		Name:        name,
		NIK:         nik,
		Address:     "Jl. Salemba 2",
		PhoneNumber: "081298765432",
		Speciality:  speciality,
		WorkAddress: "RS Cipto",
	}
}

// login logs the user in and resolves the token owner.
func (e *testEnv) login(t *testing.T, email string) (*model.User, string) {
	t.Helper()
	ctx := context.Background()

	res, err := e.auth.Login(ctx, &dto.LoginDTO{Email: email, Password: "password123"})
	require.NoError(t, err)
	user, _, err := e.auth.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	return user, res.AccessToken
}
