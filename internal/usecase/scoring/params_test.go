package scoring

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

func aiSignal(t *testing.T, evidence string) []byte {
	t.Helper()
	raw, err := json.Marshal(entities.AISignal{
		Confirmed:  true,
		Evidence:   evidence,
		Source:     "analysis",
		Confidence: 0.7,
	})
	if err != nil {
		t.Fatalf("marshal signal: %v", err)
	}
	return raw
}

func TestResolveParam_ManualWinsOverAI(t *testing.T) {
	deal := emptyDeal()
	deal.LegalEngaged = boolPtr(false)
	deal.LegalEngagedAI = aiSignal(t, "legal team has the redlines")

	dctx := &DealContext{Deal: deal, Config: testResolved(t), Now: time.Now()}
	result := resolveParam(entities.ParamLegalProcurementEngaged, entities.CategoryProcess, dctx)

	if result.State != entities.ParamAbsent {
		t.Errorf("state: got %s, want absent; the rep's answer outranks the signal", result.State)
	}
	if result.Source != entities.SourceManual {
		t.Errorf("source: got %s, want manual", result.Source)
	}
}

func TestResolveParam_AISignalUsedWhenEnabled(t *testing.T) {
	deal := emptyDeal()
	deal.SecurityReviewStartedAI = aiSignal(t, "They kicked off the security questionnaire.")

	dctx := &DealContext{Deal: deal, Config: testResolved(t), Now: time.Now()}
	result := resolveParam(entities.ParamSecurityReviewStarted, entities.CategoryProcess, dctx)

	if result.State != entities.ParamConfirmed {
		t.Fatalf("state: got %s, want confirmed", result.State)
	}
	if result.Source != entities.SourceAI {
		t.Errorf("source: got %s, want ai", result.Source)
	}
	if result.Evidence != "They kicked off the security questionnaire." {
		t.Errorf("evidence not carried through: %q", result.Evidence)
	}
}

func TestResolveParam_AISignalIgnoredWhenDisabled(t *testing.T) {
	deal := emptyDeal()
	deal.SecurityReviewStartedAI = aiSignal(t, "security review underway")

	resolved := testResolved(t)
	resolved.Config.AIEnabled = false

	dctx := &DealContext{Deal: deal, Config: resolved, Now: time.Now()}
	result := resolveParam(entities.ParamSecurityReviewStarted, entities.CategoryProcess, dctx)

	// No contacts either, so the derivation has no evidence base
	if result.State != entities.ParamUnknown {
		t.Errorf("state: got %s, want unknown", result.State)
	}
	if result.Source != "" {
		t.Errorf("source should be empty for an unknown parameter, got %q", result.Source)
	}
}

func TestAutoCloseDateSlipped(t *testing.T) {
	resolved := testResolved(t)
	now := time.Now()
	closeDate := now.AddDate(0, 1, 0)

	deal := emptyDeal()
	dctx := &DealContext{Deal: deal, Config: resolved, Now: now}
	if state, _ := autoCloseDateSlipped(dctx); state != entities.ParamUnknown {
		t.Errorf("no close date: got %s, want unknown", state)
	}

	deal.ExpectedCloseDate = &closeDate
	if state, _ := autoCloseDateSlipped(dctx); state != entities.ParamAbsent {
		t.Errorf("close date never pushed: got %s, want absent", state)
	}

	deal.CloseDatePushCount = 2
	state, evidence := autoCloseDateSlipped(dctx)
	if state != entities.ParamConfirmed {
		t.Errorf("pushed close date: got %s, want confirmed", state)
	}
	if evidence == "" {
		t.Error("expected evidence describing the pushes")
	}
}

func TestAutoEconomicBuyer(t *testing.T) {
	dctx := &DealContext{Deal: emptyDeal(), Config: testResolved(t), Now: time.Now()}

	if state, _ := autoEconomicBuyer(dctx); state != entities.ParamUnknown {
		t.Errorf("no contacts: got %s, want unknown", state)
	}

	dctx.Contacts = []*entities.Contact{{Name: "Jo", Role: entities.RoleChampion}}
	if state, _ := autoEconomicBuyer(dctx); state != entities.ParamAbsent {
		t.Errorf("no economic buyer among contacts: got %s, want absent", state)
	}

	dctx.Contacts = append(dctx.Contacts, &entities.Contact{Name: "Pat", Role: entities.RoleEconomicBuyer})
	if state, _ := autoEconomicBuyer(dctx); state != entities.ParamConfirmed {
		t.Errorf("economic buyer present: got %s, want confirmed", state)
	}
}

func TestAutoExecMeeting(t *testing.T) {
	now := time.Now()
	dctx := &DealContext{Deal: emptyDeal(), Config: testResolved(t), Now: now}

	if state, _ := autoExecMeeting(dctx); state != entities.ParamUnknown {
		t.Errorf("no meetings: got %s, want unknown", state)
	}

	dctx.Meetings = []*entities.Meeting{{StartsAt: now.AddDate(0, 0, -3), Status: entities.MeetingCompleted}}
	if state, _ := autoExecMeeting(dctx); state != entities.ParamUnknown {
		t.Errorf("meetings but zero contacts: got %s, want unknown", state)
	}

	dctx.Contacts = []*entities.Contact{{Name: "Jordan", Title: "Account Manager"}}
	if state, _ := autoExecMeeting(dctx); state != entities.ParamAbsent {
		t.Errorf("no executive contact: got %s, want absent", state)
	}

	dctx.Contacts = []*entities.Contact{{Name: "Morgan", Title: "Chief Financial Officer"}}
	if state, _ := autoExecMeeting(dctx); state != entities.ParamConfirmed {
		t.Errorf("exec plus completed meeting: got %s, want confirmed", state)
	}

	dctx.Meetings[0].Status = entities.MeetingCancelled
	if state, _ := autoExecMeeting(dctx); state != entities.ParamAbsent {
		t.Errorf("cancelled meeting must not count: got %s, want absent", state)
	}
}

func TestAutoMultiThreaded(t *testing.T) {
	dctx := &DealContext{Deal: emptyDeal(), Config: testResolved(t), Now: time.Now()}

	if state, _ := autoMultiThreaded(dctx); state != entities.ParamUnknown {
		t.Errorf("no contacts: got %s, want unknown", state)
	}

	dctx.Contacts = []*entities.Contact{{Name: "a"}, {Name: "b"}}
	if state, _ := autoMultiThreaded(dctx); state != entities.ParamAbsent {
		t.Errorf("two contacts: got %s, want absent", state)
	}

	dctx.Contacts = append(dctx.Contacts, &entities.Contact{Name: "c"})
	if state, _ := autoMultiThreaded(dctx); state != entities.ParamConfirmed {
		t.Errorf("three contacts: got %s, want confirmed", state)
	}
}

func TestAutoValueAboveSegment(t *testing.T) {
	// Mid-market baseline is 7,500,000 with a 1.5x oversize multiplier
	dctx := &DealContext{Deal: emptyDeal(), Config: testResolved(t), Now: time.Now()}

	if state, _ := autoValueAboveSegment(dctx); state != entities.ParamUnknown {
		t.Errorf("zero value: got %s, want unknown", state)
	}

	dctx.Deal.Value = 9_000_000
	if state, _ := autoValueAboveSegment(dctx); state != entities.ParamAbsent {
		t.Errorf("1.2x the baseline: got %s, want absent", state)
	}

	dctx.Deal.Value = 11_250_000
	if state, _ := autoValueAboveSegment(dctx); state != entities.ParamConfirmed {
		t.Errorf("exactly 1.5x the baseline: got %s, want confirmed", state)
	}
}

func TestAutoRecentExpansion(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	dctx := &DealContext{Deal: emptyDeal(), Config: testResolved(t), Now: now}

	if state, _ := autoRecentExpansion(dctx); state != entities.ParamUnknown {
		t.Errorf("no history: got %s, want unknown", state)
	}

	// Newest first; a shrink within the window followed by older growth
	dctx.ValueHistory = []*entities.ValueChange{
		{PreviousValue: 8_000_000, NewValue: 7_000_000, ChangedAt: now.AddDate(0, 0, -10)},
		{PreviousValue: 6_000_000, NewValue: 8_000_000, ChangedAt: now.AddDate(0, 0, -40)},
	}
	if state, _ := autoRecentExpansion(dctx); state != entities.ParamConfirmed {
		t.Errorf("growth within 90 days: got %s, want confirmed", state)
	}

	// Growth only outside the window
	dctx.ValueHistory = []*entities.ValueChange{
		{PreviousValue: 8_000_000, NewValue: 7_000_000, ChangedAt: now.AddDate(0, 0, -10)},
		{PreviousValue: 6_000_000, NewValue: 8_000_000, ChangedAt: now.AddDate(0, 0, -120)},
	}
	if state, _ := autoRecentExpansion(dctx); state != entities.ParamAbsent {
		t.Errorf("growth older than 90 days: got %s, want absent", state)
	}
}

func TestAutoNoRecentMeeting(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	dctx := &DealContext{Deal: emptyDeal(), Config: testResolved(t), Now: now}

	if state, _ := autoNoRecentMeeting(dctx); state != entities.ParamUnknown {
		t.Errorf("no meetings at all: got %s, want unknown", state)
	}

	dctx.Meetings = []*entities.Meeting{{StartsAt: now.AddDate(0, 0, 7), Status: entities.MeetingScheduled}}
	if state, _ := autoNoRecentMeeting(dctx); state != entities.ParamUnknown {
		t.Errorf("only a future meeting: got %s, want unknown", state)
	}

	dctx.Meetings = []*entities.Meeting{{StartsAt: now.AddDate(0, 0, -5), Status: entities.MeetingCompleted}}
	if state, _ := autoNoRecentMeeting(dctx); state != entities.ParamAbsent {
		t.Errorf("meeting five days ago: got %s, want absent", state)
	}

	dctx.Meetings = []*entities.Meeting{{StartsAt: now.AddDate(0, 0, -21), Status: entities.MeetingCompleted}}
	if state, _ := autoNoRecentMeeting(dctx); state != entities.ParamConfirmed {
		t.Errorf("meeting three weeks ago: got %s, want confirmed", state)
	}
}

func TestAutoSlowReply(t *testing.T) {
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	dctx := &DealContext{Deal: emptyDeal(), Config: testResolved(t), Now: base.AddDate(0, 0, 30)}

	// One exchange is not enough history
	dctx.Emails = []*entities.Email{
		{Direction: entities.EmailSent, SentAt: base},
		{Direction: entities.EmailReceived, SentAt: base.Add(2 * time.Hour)},
	}
	if state, _ := autoSlowReply(dctx); state != entities.ParamUnknown {
		t.Errorf("single latency: got %s, want unknown", state)
	}

	// Latest reply took 10h against a 2h average
	dctx.Emails = []*entities.Email{
		{Direction: entities.EmailSent, SentAt: base},
		{Direction: entities.EmailReceived, SentAt: base.Add(2 * time.Hour)},
		{Direction: entities.EmailSent, SentAt: base.AddDate(0, 0, 3)},
		{Direction: entities.EmailReceived, SentAt: base.AddDate(0, 0, 3).Add(10 * time.Hour)},
	}
	if state, _ := autoSlowReply(dctx); state != entities.ParamConfirmed {
		t.Errorf("reply five times slower: got %s, want confirmed", state)
	}

	// Steady cadence
	dctx.Emails = []*entities.Email{
		{Direction: entities.EmailSent, SentAt: base},
		{Direction: entities.EmailReceived, SentAt: base.Add(3 * time.Hour)},
		{Direction: entities.EmailSent, SentAt: base.AddDate(0, 0, 3)},
		{Direction: entities.EmailReceived, SentAt: base.AddDate(0, 0, 3).Add(4 * time.Hour)},
	}
	if state, _ := autoSlowReply(dctx); state != entities.ParamAbsent {
		t.Errorf("steady cadence: got %s, want absent", state)
	}
}

func TestReplyLatencies(t *testing.T) {
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	emails := []*entities.Email{
		{Direction: entities.EmailSent, SentAt: base},
		{Direction: entities.EmailSent, SentAt: base.Add(1 * time.Hour)}, // follow-up before any reply
		{Direction: entities.EmailReceived, SentAt: base.Add(5 * time.Hour)},
		{Direction: entities.EmailReceived, SentAt: base.Add(6 * time.Hour)}, // unsolicited, no pending send
		{Direction: entities.EmailSent, SentAt: base.Add(24 * time.Hour)},
		{Direction: entities.EmailReceived, SentAt: base.Add(26 * time.Hour)},
	}

	latencies := replyLatencies(emails)
	if len(latencies) != 2 {
		t.Fatalf("got %d latencies, want 2", len(latencies))
	}
	if latencies[0] != 5*time.Hour {
		t.Errorf("first latency measures from the original send: got %s, want 5h", latencies[0])
	}
	if latencies[1] != 2*time.Hour {
		t.Errorf("second latency: got %s, want 2h", latencies[1])
	}
}

func TestTitleMatches(t *testing.T) {
	keywords := entities.DefaultTitleKeywords()

	cases := []struct {
		title string
		list  []string
		want  bool
	}{
		{"VP of Sales", keywords.Executive, true},
		{"Chief Technology Officer", keywords.Executive, true},
		{"Account Executive", keywords.Legal, false},
		{"General Counsel", keywords.Legal, true},
		{"Head of Procurement", keywords.Legal, true},
		{"Security Architect", keywords.Security, true},
		{"", keywords.Executive, false},
	}
	for _, tc := range cases {
		if got := titleMatches(tc.title, tc.list); got != tc.want {
			t.Errorf("titleMatches(%q): got %v, want %v", tc.title, got, tc.want)
		}
	}
}
