package signals

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/domain/repositories"
)

// recordingDealRepo captures partial updates so tests can inspect exactly what
// the scanner wrote.
type recordingDealRepo struct {
	fields []map[string]interface{}
}

func (r *recordingDealRepo) Create(ctx context.Context, deal *entities.Deal) error { return nil }
func (r *recordingDealRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entities.Deal, error) {
	return nil, entities.ErrDealNotFound
}
func (r *recordingDealRepo) List(ctx context.Context, tenantID uuid.UUID, filter repositories.DealFilter) ([]*entities.Deal, int64, error) {
	return nil, 0, nil
}
func (r *recordingDealRepo) Update(ctx context.Context, deal *entities.Deal) error { return nil }
func (r *recordingDealRepo) UpdateFields(ctx context.Context, tenantID, id uuid.UUID, fields map[string]interface{}) error {
	r.fields = append(r.fields, fields)
	return nil
}
func (r *recordingDealRepo) UpdateHealth(ctx context.Context, tenantID, id uuid.UUID, snapshot repositories.HealthSnapshot) error {
	return nil
}
func (r *recordingDealRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error { return nil }

func newTestDetector(repo *recordingDealRepo) *Detector {
	return NewDetector(repo, NewEvidenceExtractor(), zap.NewNop())
}

func TestDetector_Scan_FindsSignalsWithEvidence(t *testing.T) {
	d := newTestDetector(&recordingDealRepo{})

	text := "We discussed pricing. The board meeting is in Q3 and they want to decide before it. Security questionnaire landed in my inbox."
	detections := d.Scan(text)

	byKey := make(map[entities.ParamKey]Detection, len(detections))
	for _, det := range detections {
		byKey[det.Key] = det
	}

	price, ok := byKey[entities.ParamPriceSensitivity]
	if !ok {
		t.Fatal("price sensitivity should fire on discussed pricing")
	}
	if price.Evidence != "We discussed pricing." {
		t.Errorf("price evidence: got %q", price.Evidence)
	}
	if price.Column != "price_sensitive_ai" {
		t.Errorf("price column: got %q", price.Column)
	}

	event, ok := byKey[entities.ParamTiedToBuyerEvent]
	if !ok {
		t.Fatal("buyer event should fire on board meeting")
	}
	if event.Evidence != "The board meeting is in Q3 and they want to decide before it." {
		t.Errorf("event evidence: got %q", event.Evidence)
	}

	if _, ok := byKey[entities.ParamSecurityReviewStarted]; !ok {
		t.Error("security review should fire on security questionnaire")
	}
	if _, ok := byKey[entities.ParamDiscountPending]; ok {
		t.Error("discount should not fire; the text never mentions one")
	}
}

func TestDetector_Scan_EmptyAndQuietText(t *testing.T) {
	d := newTestDetector(&recordingDealRepo{})

	if got := d.Scan(""); got != nil {
		t.Errorf("empty text: got %v, want nil", got)
	}
	if got := d.Scan("Friendly catch-up call, demo went fine, nothing blocking."); len(got) != 0 {
		t.Errorf("quiet text: got %v, want nothing", got)
	}
}

func TestDetector_Scan_EachRuleFiresOnce(t *testing.T) {
	d := newTestDetector(&recordingDealRepo{})

	text := "They asked for a discount on Monday. Then another discount came up on Tuesday."
	detections := d.Scan(text)

	count := 0
	for _, det := range detections {
		if det.Key == entities.ParamDiscountPending {
			count++
		}
	}
	if count != 1 {
		t.Errorf("discount fired %d times, want once", count)
	}
}

func TestDetector_Apply_WritesConfirmedSignals(t *testing.T) {
	repo := &recordingDealRepo{}
	d := newTestDetector(repo)

	detections := []Detection{
		{Key: entities.ParamLegalProcurementEngaged, Column: "legal_engaged_ai", Evidence: "Legal team has the contract."},
		{Key: entities.ParamDiscountPending, Column: "discount_pending_ai", Evidence: "They asked for a discount."},
	}
	if err := d.Apply(context.Background(), uuid.New(), uuid.New(), "call notes", detections); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if len(repo.fields) != 1 {
		t.Fatalf("got %d updates, want one partial update", len(repo.fields))
	}
	fields := repo.fields[0]
	if len(fields) != 2 {
		t.Fatalf("got %d columns, want 2: %v", len(fields), fields)
	}

	raw, ok := fields["legal_engaged_ai"].([]byte)
	if !ok {
		t.Fatalf("legal_engaged_ai missing or wrong type: %T", fields["legal_engaged_ai"])
	}
	var sig entities.AISignal
	if err := json.Unmarshal(raw, &sig); err != nil {
		t.Fatalf("unmarshal signal: %v", err)
	}
	if !sig.Confirmed {
		t.Error("applied signal must be confirmed")
	}
	if sig.Evidence != "Legal team has the contract." {
		t.Errorf("evidence: got %q", sig.Evidence)
	}
	if sig.Source != "call notes" {
		t.Errorf("source: got %q", sig.Source)
	}
	if sig.Confidence != detectionConfidence {
		t.Errorf("confidence: got %v, want %v", sig.Confidence, detectionConfidence)
	}
}

func TestDetector_Apply_NothingDetectedWritesNothing(t *testing.T) {
	repo := &recordingDealRepo{}
	d := newTestDetector(repo)

	if err := d.Apply(context.Background(), uuid.New(), uuid.New(), "call notes", nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(repo.fields) != 0 {
		t.Errorf("no detections must mean zero writes, got %d", len(repo.fields))
	}
}
