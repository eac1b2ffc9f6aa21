package signals

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

func newCompetitor(t *testing.T, name string, aliases ...string) *entities.Competitor {
	t.Helper()
	c := &entities.Competitor{ID: uuid.New(), TenantID: uuid.New(), Name: name}
	if len(aliases) > 0 {
		raw, err := json.Marshal(aliases)
		if err != nil {
			t.Fatalf("marshal aliases: %v", err)
		}
		c.Aliases = raw
	}
	return c
}

func newTestMatcher(repo *recordingDealRepo) *Matcher {
	return NewMatcher(repo, NewEvidenceExtractor(), zap.NewNop())
}

func TestMatcher_Detect_ByNameAndAlias(t *testing.T) {
	m := newTestMatcher(&recordingDealRepo{})
	competitors := []*entities.Competitor{
		newCompetitor(t, "AR Corp", "ARC Platform"),
		newCompetitor(t, "Globex"),
	}

	text := "They are also evaluating AR Corp for this project. Globex came up too."
	matches, err := m.Detect(text, competitors)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}

	if matches[0].Name != "AR Corp" || matches[0].MatchedAlias != "AR Corp" {
		t.Errorf("first match: got %s via %q", matches[0].Name, matches[0].MatchedAlias)
	}
	if matches[0].Snippet != "They are also evaluating AR Corp for this project." {
		t.Errorf("snippet: got %q", matches[0].Snippet)
	}

	// Alias-only mention
	matches, err = m.Detect("Their shortlist includes the ARC Platform offering.", competitors)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(matches) != 1 || matches[0].MatchedAlias != "ARC Platform" {
		t.Fatalf("alias mention: got %+v", matches)
	}
	if matches[0].Name != "AR Corp" {
		t.Errorf("alias match should report the canonical name, got %q", matches[0].Name)
	}
}

func TestMatcher_Detect_SubstringMatch(t *testing.T) {
	m := newTestMatcher(&recordingDealRepo{})
	competitors := []*entities.Competitor{newCompetitor(t, "Acme")}

	matches, err := m.Detect("They already run AcmeCloud in staging.", competitors)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("a name inside a longer word still matches, got %+v", matches)
	}
	if matches[0].Snippet != "They already run AcmeCloud in staging." {
		t.Errorf("snippet: got %q", matches[0].Snippet)
	}
}

func TestMatcher_Detect_OneMatchPerCompetitor(t *testing.T) {
	m := newTestMatcher(&recordingDealRepo{})
	competitors := []*entities.Competitor{newCompetitor(t, "AR Corp", "ARC Platform")}

	text := "AR Corp presented Monday. The ARC Platform demo followed on Wednesday."
	matches, err := m.Detect(text, competitors)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1 per competitor", len(matches))
	}
	if matches[0].MatchedAlias != "AR Corp" {
		t.Errorf("the first matching term wins, got %q", matches[0].MatchedAlias)
	}
}

func TestMatcher_Detect_EmptyInputs(t *testing.T) {
	m := newTestMatcher(&recordingDealRepo{})

	if matches, _ := m.Detect("", []*entities.Competitor{newCompetitor(t, "Globex")}); matches != nil {
		t.Errorf("empty text: got %+v, want nil", matches)
	}
	if matches, _ := m.Detect("Globex everywhere.", nil); matches != nil {
		t.Errorf("empty catalog: got %+v, want nil", matches)
	}
}

func TestMatcher_Apply_RecordsMatchesAndConfirmsSignal(t *testing.T) {
	repo := &recordingDealRepo{}
	m := newTestMatcher(repo)

	matches := []entities.MatchedCompetitor{
		{CompetitorID: uuid.New(), Name: "AR Corp", MatchedAlias: "AR Corp", Snippet: "They are evaluating AR Corp."},
		{CompetitorID: uuid.New(), Name: "Globex", MatchedAlias: "Globex", Snippet: "Globex quoted a lower price."},
	}
	if err := m.Apply(context.Background(), uuid.New(), uuid.New(), "call notes", matches); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if len(repo.fields) != 1 {
		t.Fatalf("got %d updates, want 1", len(repo.fields))
	}
	fields := repo.fields[0]

	rawMatches, ok := fields["competitor_matches"].([]byte)
	if !ok {
		t.Fatalf("competitor_matches missing or wrong type: %T", fields["competitor_matches"])
	}
	var stored []entities.MatchedCompetitor
	if err := json.Unmarshal(rawMatches, &stored); err != nil {
		t.Fatalf("unmarshal matches: %v", err)
	}
	if len(stored) != 2 || stored[0].Name != "AR Corp" || stored[1].Name != "Globex" {
		t.Fatalf("stored matches: got %+v", stored)
	}

	rawSignal, ok := fields["competitive_ai"].([]byte)
	if !ok {
		t.Fatalf("competitive_ai missing or wrong type: %T", fields["competitive_ai"])
	}
	var sig entities.AISignal
	if err := json.Unmarshal(rawSignal, &sig); err != nil {
		t.Fatalf("unmarshal signal: %v", err)
	}
	if !sig.Confirmed {
		t.Error("competitive signal must be confirmed")
	}
	want := "AR Corp: They are evaluating AR Corp.; Globex: Globex quoted a lower price."
	if sig.Evidence != want {
		t.Errorf("signal evidence should carry one clause per competitor:\ngot  %q\nwant %q", sig.Evidence, want)
	}
	if sig.Source != "call notes" {
		t.Errorf("signal source: got %q, want %q", sig.Source, "call notes")
	}
}

func TestMatcher_Apply_NoMatchesWritesNothing(t *testing.T) {
	repo := &recordingDealRepo{}
	m := newTestMatcher(repo)

	if err := m.Apply(context.Background(), uuid.New(), uuid.New(), "call notes", nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(repo.fields) != 0 {
		t.Errorf("no matches must mean zero writes, got %d", len(repo.fields))
	}
}
