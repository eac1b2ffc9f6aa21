package scoring

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func testResolved(t *testing.T) *Resolved {
	t.Helper()
	config, err := entities.NewDefaultScoringConfig(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	resolved, err := decode(config)
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	return resolved
}

func setEnabled(t *testing.T, resolved *Resolved, enabled map[entities.ParamKey]bool) {
	t.Helper()
	raw, err := json.Marshal(enabled)
	if err != nil {
		t.Fatalf("marshal enabled map: %v", err)
	}
	resolved.Config.ParamEnabled = raw
	resolved.Enabled = enabled
}

func emptyDeal() *entities.Deal {
	return &entities.Deal{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		OwnerID:  uuid.New(),
		Name:     "Acme renewal",
		Stage:    entities.StageQualification,
		Segment:  entities.SegmentMidMarket,
	}
}

func TestCompute_EmptyDealBaseline(t *testing.T) {
	dctx := &DealContext{
		Deal:   emptyDeal(),
		Config: testResolved(t),
		Now:    time.Now(),
	}

	score, tier, breakdown := Compute(dctx)

	// Positive-evidence categories have nothing confirmed and score zero;
	// pure-risk categories have no confirmed penalties and score 100.
	wantCategory := map[entities.CategoryKey]int{
		entities.CategoryCloseDate:   0,
		entities.CategoryEngagement:  0,
		entities.CategoryProcess:     0,
		entities.CategorySize:        0,
		entities.CategoryCompetitive: 100,
		entities.CategoryMomentum:    100,
	}
	for cat, want := range wantCategory {
		got, ok := breakdown.Categories[cat]
		if !ok {
			t.Fatalf("category %s missing from breakdown", cat)
		}
		if got.Score != want {
			t.Errorf("category %s: got %d, want %d", cat, got.Score, want)
		}
	}

	// (100*15 + 100*15) / 100
	if score != 30 {
		t.Errorf("total score: got %d, want 30", score)
	}
	if tier != entities.TierRisk {
		t.Errorf("tier: got %s, want %s", tier, entities.TierRisk)
	}

	for key, p := range breakdown.Params {
		if p.State != entities.ParamUnknown {
			t.Errorf("param %s: got state %s, want unknown", key, p.State)
		}
		if p.Impact != 0 {
			t.Errorf("param %s: unknown state must carry zero impact, got %d", key, p.Impact)
		}
	}
}

func TestCompute_WeightedTotal(t *testing.T) {
	resolved := testResolved(t)
	resolved.Config.WeightCloseDate = 20
	resolved.Config.WeightEngagement = 25
	resolved.Config.WeightProcess = 15
	resolved.Config.WeightSize = 10
	resolved.Config.WeightCompetitive = 15
	resolved.Config.WeightMomentum = 15

	weights := resolved.Weights
	weights.BuyerConfirmedCloseDate = 40
	weights.TiedToBuyerEvent = 10
	weights.LegalProcurementEngaged = 40
	weights.SecurityReviewStarted = 60
	resolved.Weights = weights
	setEnabled(t, resolved, map[entities.ParamKey]bool{
		entities.ParamValueAboveSegment: false,
		entities.ParamRecentExpansion:   false,
	})

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	closeDate := now.AddDate(0, 2, 0)
	deal := emptyDeal()
	deal.ExpectedCloseDate = &closeDate
	deal.BuyerConfirmedCloseDate = boolPtr(true)
	deal.TiedToBuyerEvent = boolPtr(false)
	deal.LegalEngaged = boolPtr(true)
	deal.SecurityReviewStarted = boolPtr(false)
	deal.ScopeApproved = boolPtr(true)

	dctx := &DealContext{
		Deal:   deal,
		Config: resolved,
		Contacts: []*entities.Contact{
			{Name: "Dana", Title: "VP of Engineering", Role: entities.RoleChampion},
			{Name: "Sam", Title: "Engineering Manager", Role: entities.RoleInfluencer},
			{Name: "Lee", Title: "Staff Engineer", Role: entities.RoleUnknown},
		},
		Meetings: []*entities.Meeting{
			{StartsAt: now.AddDate(0, 0, -20), Status: entities.MeetingCompleted},
		},
		Now: now,
	}

	score, tier, breakdown := Compute(dctx)

	wantCategory := map[entities.CategoryKey]int{
		entities.CategoryCloseDate:   80,  // 40 of 50 positive weight earned
		entities.CategoryEngagement:  60,  // exec meeting + multi-threaded, no economic buyer
		entities.CategoryProcess:     40,  // legal yes, security no
		entities.CategorySize:        100, // scope approved, other params disabled
		entities.CategoryCompetitive: 100, // nothing confirmed
		entities.CategoryMomentum:    70,  // stale meeting penalty only
	}
	for cat, want := range wantCategory {
		if got := breakdown.Categories[cat].Score; got != want {
			t.Errorf("category %s: got %d, want %d", cat, got, want)
		}
	}

	// round((80*20 + 60*25 + 40*15 + 100*10 + 100*15 + 70*15) / 100) = 73
	if score != 73 {
		t.Errorf("total score: got %d, want 73", score)
	}
	if tier != entities.TierHealthy {
		t.Errorf("tier: got %s, want %s", tier, entities.TierHealthy)
	}
}

func TestCompute_DisabledCategorySitsOut(t *testing.T) {
	resolved := testResolved(t)
	setEnabled(t, resolved, map[entities.ParamKey]bool{
		entities.ParamNoRecentMeeting: false,
		entities.ParamSlowReply:       false,
	})

	dctx := &DealContext{Deal: emptyDeal(), Config: resolved, Now: time.Now()}
	score, _, breakdown := Compute(dctx)

	if _, ok := breakdown.Categories[entities.CategoryMomentum]; ok {
		t.Fatal("momentum should be absent from the breakdown when all its parameters are disabled")
	}
	// Remaining weights renormalize: round(100*15 / 85) = 18
	if score != 18 {
		t.Errorf("total score: got %d, want 18", score)
	}
	if breakdown.TotalWeight != 85 {
		t.Errorf("breakdown should report the denominator used: got %d, want 85", breakdown.TotalWeight)
	}
}

func TestCompute_AllParamsDisabledScoresZero(t *testing.T) {
	resolved := testResolved(t)
	enabled := make(map[entities.ParamKey]bool)
	for _, params := range entities.ParamsByCategory {
		for _, key := range params {
			enabled[key] = false
		}
	}
	setEnabled(t, resolved, enabled)

	dctx := &DealContext{Deal: emptyDeal(), Config: resolved, Now: time.Now()}
	score, tier, breakdown := Compute(dctx)

	if score != 0 {
		t.Errorf("score: got %d, want 0", score)
	}
	if tier != entities.TierRisk {
		t.Errorf("tier: got %s, want risk", tier)
	}
	if len(breakdown.Categories) != 0 {
		t.Errorf("breakdown should be empty, got %d categories", len(breakdown.Categories))
	}
}

func TestCompute_DisabledParamHasNoEffect(t *testing.T) {
	deal := emptyDeal()
	deal.Competitive = boolPtr(true)

	dctx := &DealContext{Deal: deal, Config: testResolved(t), Now: time.Now()}
	_, _, breakdown := Compute(dctx)
	if got := breakdown.Categories[entities.CategoryCompetitive].Score; got != 70 {
		t.Fatalf("competitive with confirmed rival: got %d, want 70", got)
	}

	resolved := testResolved(t)
	setEnabled(t, resolved, map[entities.ParamKey]bool{entities.ParamCompetitiveDeal: false})
	dctx.Config = resolved
	_, _, breakdown = Compute(dctx)
	if got := breakdown.Categories[entities.CategoryCompetitive].Score; got != 100 {
		t.Fatalf("competitive with the penalty disabled: got %d, want 100", got)
	}
	if _, ok := breakdown.Params[entities.ParamCompetitiveDeal]; ok {
		t.Error("disabled parameter must not appear in the breakdown")
	}
}

func TestCompute_CloseDatePushPenaltyCaps(t *testing.T) {
	scoreWithPushes := func(pushes int) (int, int) {
		deal := emptyDeal()
		deal.CloseDatePushCount = pushes
		dctx := &DealContext{Deal: deal, Config: testResolved(t), Now: time.Now()}
		_, _, breakdown := Compute(dctx)
		return breakdown.Categories[entities.CategoryCloseDate].Score, breakdown.Params[entities.ParamCloseDateSlipped].Impact
	}

	_, impactOne := scoreWithPushes(1)
	if impactOne != -15 {
		t.Errorf("one push: got impact %d, want -15", impactOne)
	}
	scoreThree, impactThree := scoreWithPushes(3)
	if impactThree != -45 {
		t.Errorf("three pushes: got impact %d, want -45", impactThree)
	}
	scoreTen, impactTen := scoreWithPushes(10)
	if impactTen != impactThree {
		t.Errorf("penalty must cap at three pushes: got %d, want %d", impactTen, impactThree)
	}
	if scoreTen != scoreThree {
		t.Errorf("category score must stop falling after three pushes: got %d, want %d", scoreTen, scoreThree)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	deal := emptyDeal()
	deal.LegalEngaged = boolPtr(true)
	deal.CloseDatePushCount = 2

	build := func() *DealContext {
		return &DealContext{
			Deal:   deal,
			Config: testResolved(t),
			Contacts: []*entities.Contact{
				{Name: "Pat", Title: "CFO", Role: entities.RoleEconomicBuyer},
			},
			Now: now,
		}
	}

	scoreA, tierA, _ := Compute(build())
	scoreB, tierB, _ := Compute(build())
	if scoreA != scoreB || tierA != tierB {
		t.Fatalf("same inputs produced different results: %d/%s vs %d/%s", scoreA, tierA, scoreB, tierB)
	}
}

func TestCompute_ScoreClampedAtZero(t *testing.T) {
	deal := emptyDeal()
	deal.Competitive = boolPtr(true)
	deal.PriceSensitive = boolPtr(true)
	deal.DiscountPending = boolPtr(true)
	deal.CloseDatePushCount = 3

	dctx := &DealContext{Deal: deal, Config: testResolved(t), Now: time.Now()}
	_, _, breakdown := Compute(dctx)

	// 100 - (30+20+15) = 35 for competitive; close_date is 0 - 45 clamped
	if got := breakdown.Categories[entities.CategoryCompetitive].Score; got != 35 {
		t.Errorf("competitive: got %d, want 35", got)
	}
	if got := breakdown.Categories[entities.CategoryCloseDate].Score; got != 0 {
		t.Errorf("close_date must clamp at zero, got %d", got)
	}
}

func TestTierFor_Boundaries(t *testing.T) {
	config := &entities.ScoringConfig{
		HealthyThreshold: 70,
		WatchThreshold:   40,
	}
	cases := []struct {
		score int
		want  entities.HealthTier
	}{
		{100, entities.TierHealthy},
		{70, entities.TierHealthy},
		{69, entities.TierWatch},
		{40, entities.TierWatch},
		{39, entities.TierRisk},
		{0, entities.TierRisk},
	}
	for _, tc := range cases {
		if got := tierFor(tc.score, config); got != tc.want {
			t.Errorf("score %d: got %s, want %s", tc.score, got, tc.want)
		}
	}
}
