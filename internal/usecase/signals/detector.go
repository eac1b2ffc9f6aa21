package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/domain/repositories"
)

// detectionConfidence is recorded on every rule-based signal. Keyword rules do
// not grade their own certainty, so they all carry the same constant.
const detectionConfidence = 0.7

// rule maps a phrase pattern to the parameter and deal column it confirms
type rule struct {
	Key     entities.ParamKey
	Column  string
	Pattern *regexp.Regexp
}

// The rules run in order; each can fire at most once per scan.
var rules = []rule{
	{
		Key:     entities.ParamBuyerConfirmedCloseDate,
		Column:  "buyer_confirmed_close_date_ai",
		Pattern: regexp.MustCompile(`(?i)\b(confirmed|agreed|committed)\b.{0,60}\b(close date|closing date|signing|signature|sign by)\b|\bclose date\b.{0,40}\b(confirmed|agreed|locked)\b`),
	},
	{
		Key:     entities.ParamTiedToBuyerEvent,
		Column:  "tied_to_buyer_event_ai",
		Pattern: regexp.MustCompile(`(?i)\b(board meeting|fiscal year[- ]end|budget cycle|budget deadline|product launch|go[- ]live|renewal date|annual planning|quarter[- ]end)\b`),
	},
	{
		Key:     entities.ParamLegalProcurementEngaged,
		Column:  "legal_engaged_ai",
		Pattern: regexp.MustCompile(`(?i)\b(legal (team|review|counsel)|procurement|redlines?|contract review|msa review|purchasing department)\b`),
	},
	{
		Key:     entities.ParamSecurityReviewStarted,
		Column:  "security_review_started_ai",
		Pattern: regexp.MustCompile(`(?i)\b(security (review|questionnaire|assessment|audit)|soc ?2|infosec|vendor (risk|security) (review|assessment)|penetration test)\b`),
	},
	{
		Key:     entities.ParamScopeApproved,
		Column:  "scope_approved_ai",
		Pattern: regexp.MustCompile(`(?i)\b(scope\b.{0,40}\b(approved|signed off|finali[sz]ed)|approved the scope|sign(ed)?[- ]off on the (scope|proposal)|green[- ]?light(ed)?)\b`),
	},
	{
		Key:     entities.ParamPriceSensitivity,
		Column:  "price_sensitive_ai",
		Pattern: regexp.MustCompile(`(?i)\b(too expensive|pricing (concern|pressure|pushback)|price is (too )?high|budget (constraint|concern|is tight)|discuss(ed|ing)? pricing|cheaper (option|alternative)|cost concern)\b`),
	},
	{
		Key:     entities.ParamDiscountPending,
		Column:  "discount_pending_ai",
		Pattern: regexp.MustCompile(`(?i)\b(discount|price (reduction|concession)|special pricing|reduced rate)\b`),
	},
}

// Detection is one signal found in analysis text
type Detection struct {
	Key      entities.ParamKey
	Column   string
	Evidence string
}

// Detector scans analysis text for deal signals and applies them to the deal
// with a partial column update, leaving every other column untouched.
type Detector struct {
	deals     repositories.DealRepository
	extractor *EvidenceExtractor
	logger    *zap.Logger
}

// NewDetector creates a new signal detector
func NewDetector(deals repositories.DealRepository, extractor *EvidenceExtractor, logger *zap.Logger) *Detector {
	return &Detector{
		deals:     deals,
		extractor: extractor,
		logger:    logger,
	}
}

// Scan runs every rule against the text and returns the detections with their
// supporting evidence. Rules that match but yield no usable evidence sentence
// still fire with empty evidence.
func (d *Detector) Scan(text string) []Detection {
	if text == "" {
		return nil
	}
	var detections []Detection
	for _, r := range rules {
		if !r.Pattern.MatchString(text) {
			continue
		}
		detections = append(detections, Detection{
			Key:      r.Key,
			Column:   r.Column,
			Evidence: d.extractor.Extract(text, r.Pattern),
		})
	}
	return detections
}

// Apply writes the detections onto the deal. Signals only ever flip to
// confirmed; a scan that finds nothing writes nothing.
func (d *Detector) Apply(ctx context.Context, tenantID, dealID uuid.UUID, source string, detections []Detection) error {
	if len(detections) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(detections))
	for _, det := range detections {
		raw, err := json.Marshal(entities.AISignal{
			Confirmed:  true,
			Evidence:   det.Evidence,
			Source:     source,
			Confidence: detectionConfidence,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal signal %s: %w", det.Key, err)
		}
		fields[det.Column] = raw
	}

	if err := d.deals.UpdateFields(ctx, tenantID, dealID, fields); err != nil {
		return fmt.Errorf("failed to apply signals: %w", err)
	}

	d.logger.Info("applied ai signals",
		zap.String("deal_id", dealID.String()),
		zap.Int("signals", len(detections)))
	return nil
}
