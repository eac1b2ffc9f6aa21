package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/domain/repositories"
	"github.com/dealwise/deal-assistant/internal/infrastructure/cache"
)

type fakeDealRepo struct {
	deals        map[uuid.UUID]*entities.Deal
	healthWrites int
}

func newFakeDealRepo(deals ...*entities.Deal) *fakeDealRepo {
	repo := &fakeDealRepo{deals: make(map[uuid.UUID]*entities.Deal)}
	for _, d := range deals {
		repo.deals[d.ID] = d
	}
	return repo
}

func (r *fakeDealRepo) Create(ctx context.Context, deal *entities.Deal) error {
	r.deals[deal.ID] = deal
	return nil
}

func (r *fakeDealRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entities.Deal, error) {
	deal, ok := r.deals[id]
	if !ok || deal.TenantID != tenantID {
		return nil, entities.ErrDealNotFound
	}
	return deal, nil
}

func (r *fakeDealRepo) List(ctx context.Context, tenantID uuid.UUID, filter repositories.DealFilter) ([]*entities.Deal, int64, error) {
	var out []*entities.Deal
	for _, d := range r.deals {
		if d.TenantID == tenantID {
			out = append(out, d)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeDealRepo) Update(ctx context.Context, deal *entities.Deal) error {
	r.deals[deal.ID] = deal
	return nil
}

func (r *fakeDealRepo) UpdateFields(ctx context.Context, tenantID, id uuid.UUID, fields map[string]interface{}) error {
	if _, err := r.GetByID(ctx, tenantID, id); err != nil {
		return err
	}
	return nil
}

func (r *fakeDealRepo) UpdateHealth(ctx context.Context, tenantID, id uuid.UUID, snapshot repositories.HealthSnapshot) error {
	deal, err := r.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	score := snapshot.Score
	tier := snapshot.Tier
	scoredAt := snapshot.ScoredAt
	deal.HealthScore = &score
	deal.HealthTier = &tier
	deal.HealthBreakdown = snapshot.Breakdown
	deal.HealthScoredAt = &scoredAt
	r.healthWrites++
	return nil
}

func (r *fakeDealRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, tenantID, id); err != nil {
		return err
	}
	delete(r.deals, id)
	return nil
}

type fakeConfigRepo struct {
	configs  map[string]*entities.ScoringConfig
	getCalls int
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: make(map[string]*entities.ScoringConfig)}
}

func ownerKey(tenantID, userID uuid.UUID) string {
	return tenantID.String() + ":" + userID.String()
}

func (r *fakeConfigRepo) Create(ctx context.Context, config *entities.ScoringConfig) error {
	key := ownerKey(config.TenantID, config.UserID)
	if _, ok := r.configs[key]; ok {
		return entities.ErrAlreadyExists
	}
	r.configs[key] = config
	return nil
}

func (r *fakeConfigRepo) GetByOwner(ctx context.Context, tenantID, userID uuid.UUID) (*entities.ScoringConfig, error) {
	r.getCalls++
	config, ok := r.configs[ownerKey(tenantID, userID)]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return config, nil
}

func (r *fakeConfigRepo) Update(ctx context.Context, config *entities.ScoringConfig) error {
	r.configs[ownerKey(config.TenantID, config.UserID)] = config
	return nil
}

type emptyListRepos struct{}

func (emptyListRepos) Create(ctx context.Context, c *entities.Contact) error { return nil }
func (emptyListRepos) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entities.Contact, error) {
	return nil, entities.ErrContactNotFound
}
func (emptyListRepos) ListByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.Contact, error) {
	return nil, nil
}
func (emptyListRepos) Update(ctx context.Context, c *entities.Contact) error         { return nil }
func (emptyListRepos) Delete(ctx context.Context, tenantID, id uuid.UUID) error      { return nil }

type emptyMeetingRepo struct{}

func (emptyMeetingRepo) Create(ctx context.Context, m *entities.Meeting) error { return nil }
func (emptyMeetingRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entities.Meeting, error) {
	return nil, entities.ErrNotFound
}
func (emptyMeetingRepo) ListByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.Meeting, error) {
	return nil, nil
}
func (emptyMeetingRepo) Update(ctx context.Context, m *entities.Meeting) error    { return nil }
func (emptyMeetingRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error { return nil }

type emptyEmailRepo struct{}

func (emptyEmailRepo) Create(ctx context.Context, e *entities.Email) error { return nil }
func (emptyEmailRepo) ListByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.Email, error) {
	return nil, nil
}
func (emptyEmailRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error { return nil }

type emptyValueRepo struct{}

func (emptyValueRepo) Append(ctx context.Context, v *entities.ValueChange) error { return nil }
func (emptyValueRepo) ListByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.ValueChange, error) {
	return nil, nil
}

func newTestService(t *testing.T, deals *fakeDealRepo) (*Service, *fakeConfigRepo) {
	t.Helper()
	configRepo := newFakeConfigRepo()
	resolver := NewConfigResolver(configRepo, cache.NewConfigCache(time.Minute), zap.NewNop())
	svc := NewService(deals, emptyListRepos{}, emptyMeetingRepo{}, emptyEmailRepo{}, emptyValueRepo{}, resolver, zap.NewNop())
	return svc, configRepo
}

func TestService_ScoreDeal_PersistsSnapshot(t *testing.T) {
	deal := emptyDeal()
	repo := newFakeDealRepo(deal)
	svc, _ := newTestService(t, repo)

	result, err := svc.ScoreDeal(context.Background(), deal.TenantID, deal.OwnerID, deal.ID)
	if err != nil {
		t.Fatalf("ScoreDeal: %v", err)
	}

	if result.Score != 30 {
		t.Errorf("score: got %d, want 30", result.Score)
	}
	if result.Tier != entities.TierRisk {
		t.Errorf("tier: got %s, want risk", result.Tier)
	}
	if repo.healthWrites != 1 {
		t.Fatalf("health writes: got %d, want 1", repo.healthWrites)
	}
	if deal.HealthScore == nil || *deal.HealthScore != 30 {
		t.Error("snapshot score not persisted on the deal")
	}

	var stored entities.ScoreBreakdown
	if err := json.Unmarshal(deal.HealthBreakdown, &stored); err != nil {
		t.Fatalf("persisted breakdown is not valid json: %v", err)
	}
	if len(stored.Categories) != 6 {
		t.Errorf("persisted breakdown has %d categories, want 6", len(stored.Categories))
	}
}

func TestService_ScoreDeal_TenantScoped(t *testing.T) {
	deal := emptyDeal()
	repo := newFakeDealRepo(deal)
	svc, _ := newTestService(t, repo)

	_, err := svc.ScoreDeal(context.Background(), uuid.New(), deal.OwnerID, deal.ID)
	if !errors.Is(err, entities.ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound for a foreign tenant, got %v", err)
	}
	if repo.healthWrites != 0 {
		t.Error("nothing should be written for a foreign tenant")
	}
}

func TestService_Preview_DoesNotPersist(t *testing.T) {
	deal := emptyDeal()
	repo := newFakeDealRepo(deal)
	svc, _ := newTestService(t, repo)

	result, err := svc.Preview(context.Background(), deal.TenantID, deal.OwnerID, deal.ID)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if result.Score != 30 {
		t.Errorf("score: got %d, want 30", result.Score)
	}
	if repo.healthWrites != 0 {
		t.Errorf("preview must not persist, got %d writes", repo.healthWrites)
	}
	if deal.HealthScore != nil {
		t.Error("deal snapshot should be untouched after preview")
	}
}

func TestConfigResolver_CreatesDefaultOnFirstResolve(t *testing.T) {
	configRepo := newFakeConfigRepo()
	resolver := NewConfigResolver(configRepo, cache.NewConfigCache(time.Minute), zap.NewNop())

	tenantID, userID := uuid.New(), uuid.New()
	resolved, err := resolver.Resolve(context.Background(), tenantID, userID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Config.HealthyThreshold != entities.DefaultHealthyThreshold {
		t.Errorf("healthy threshold: got %d, want %d", resolved.Config.HealthyThreshold, entities.DefaultHealthyThreshold)
	}
	if len(configRepo.configs) != 1 {
		t.Fatalf("expected the default row to be created, have %d", len(configRepo.configs))
	}

	calls := configRepo.getCalls
	if _, err := resolver.Resolve(context.Background(), tenantID, userID); err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if configRepo.getCalls != calls {
		t.Error("second resolve should come from the cache")
	}
}

func TestConfigResolver_Update_Validation(t *testing.T) {
	configRepo := newFakeConfigRepo()
	resolver := NewConfigResolver(configRepo, cache.NewConfigCache(time.Minute), zap.NewNop())
	ctx := context.Background()

	_, err := resolver.Update(ctx, uuid.New(), uuid.New(), ConfigUpdate{WeightCloseDate: intPtr(90)})
	if !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("weights not summing to 100: got %v, want ErrInvalidInput", err)
	}

	_, err = resolver.Update(ctx, uuid.New(), uuid.New(), ConfigUpdate{
		ParamEnabled: map[entities.ParamKey]bool{"made_up_param": false},
	})
	if !errors.Is(err, entities.ErrUnknownParameter) {
		t.Errorf("unknown parameter key: got %v, want ErrUnknownParameter", err)
	}

	_, err = resolver.Update(ctx, uuid.New(), uuid.New(), ConfigUpdate{
		HealthyThreshold: intPtr(40),
		WatchThreshold:   intPtr(60),
	})
	if !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("watch above healthy: got %v, want ErrInvalidInput", err)
	}
}

func TestConfigResolver_Update_InvalidatesCache(t *testing.T) {
	configRepo := newFakeConfigRepo()
	resolver := NewConfigResolver(configRepo, cache.NewConfigCache(time.Minute), zap.NewNop())
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()

	resolved, err := resolver.Resolve(ctx, tenantID, userID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !resolved.Config.AIEnabled {
		t.Fatal("default config should have AI enabled")
	}

	off := false
	if _, err := resolver.Update(ctx, tenantID, userID, ConfigUpdate{AIEnabled: &off}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	resolved, err = resolver.Resolve(ctx, tenantID, userID)
	if err != nil {
		t.Fatalf("Resolve after update: %v", err)
	}
	if resolved.Config.AIEnabled {
		t.Error("resolve after update should see the new value, not the cached one")
	}
}
