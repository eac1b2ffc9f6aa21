package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// DealContext bundles everything the engine needs to score one deal.
// Meetings are newest first, emails oldest first, value history newest first.
type DealContext struct {
	Deal         *entities.Deal
	Config       *Resolved
	Contacts     []*entities.Contact
	Meetings     []*entities.Meeting
	Emails       []*entities.Email
	ValueHistory []*entities.ValueChange
	Now          time.Time
}

// resolveParam applies the precedence chain for one parameter: a rep assertion
// wins, then an AI signal when AI is on, then whatever activity data implies.
func resolveParam(key entities.ParamKey, category entities.CategoryKey, dctx *DealContext) entities.ParameterResult {
	result := entities.ParameterResult{
		Key:      key,
		Category: category,
		State:    entities.ParamUnknown,
		Weight:   dctx.Config.Weights.Weight(key),
	}

	if manual := dctx.Deal.ManualFlag(key); manual != nil {
		if *manual {
			result.State = entities.ParamConfirmed
		} else {
			result.State = entities.ParamAbsent
		}
		result.Source = entities.SourceManual
		return result
	}

	if dctx.Config.Config.AIEnabled {
		sig, err := dctx.Deal.AISignalFor(key)
		if err == nil && sig != nil && sig.Confirmed {
			result.State = entities.ParamConfirmed
			result.Source = entities.SourceAI
			result.Evidence = sig.Evidence
			return result
		}
	}

	state, evidence := resolveAuto(key, dctx)
	result.State = state
	if state != entities.ParamUnknown {
		result.Source = entities.SourceAuto
		result.Evidence = evidence
	}
	return result
}

// resolveAuto derives a parameter from activity data. Parameters with no
// derivation stay unknown; a deal with no evidence base for a parameter also
// stays unknown rather than being marked absent.
func resolveAuto(key entities.ParamKey, dctx *DealContext) (entities.ParamState, string) {
	switch key {
	case entities.ParamCloseDateSlipped:
		return autoCloseDateSlipped(dctx)
	case entities.ParamEconomicBuyerIdentified:
		return autoEconomicBuyer(dctx)
	case entities.ParamExecMeetingHeld:
		return autoExecMeeting(dctx)
	case entities.ParamMultiThreaded:
		return autoMultiThreaded(dctx)
	case entities.ParamLegalProcurementEngaged:
		return autoContactTitleMatch(dctx, dctx.Config.Keywords.Legal)
	case entities.ParamSecurityReviewStarted:
		return autoContactTitleMatch(dctx, dctx.Config.Keywords.Security)
	case entities.ParamValueAboveSegment:
		return autoValueAboveSegment(dctx)
	case entities.ParamRecentExpansion:
		return autoRecentExpansion(dctx)
	case entities.ParamNoRecentMeeting:
		return autoNoRecentMeeting(dctx)
	case entities.ParamSlowReply:
		return autoSlowReply(dctx)
	}
	return entities.ParamUnknown, ""
}

func autoCloseDateSlipped(dctx *DealContext) (entities.ParamState, string) {
	if dctx.Deal.CloseDatePushCount > 0 {
		return entities.ParamConfirmed, fmt.Sprintf("close date pushed %d time(s)", dctx.Deal.CloseDatePushCount)
	}
	if dctx.Deal.ExpectedCloseDate == nil {
		return entities.ParamUnknown, ""
	}
	return entities.ParamAbsent, ""
}

func autoEconomicBuyer(dctx *DealContext) (entities.ParamState, string) {
	if len(dctx.Contacts) == 0 {
		return entities.ParamUnknown, ""
	}
	for _, c := range dctx.Contacts {
		if c.Role == entities.RoleEconomicBuyer {
			return entities.ParamConfirmed, fmt.Sprintf("%s is marked as economic buyer", c.Name)
		}
	}
	return entities.ParamAbsent, ""
}

func autoExecMeeting(dctx *DealContext) (entities.ParamState, string) {
	// Needs both evidence bases before it can resolve either way
	if len(dctx.Meetings) == 0 || len(dctx.Contacts) == 0 {
		return entities.ParamUnknown, ""
	}

	var exec *entities.Contact
	for _, c := range dctx.Contacts {
		if titleMatches(c.Title, dctx.Config.Keywords.Executive) {
			exec = c
			break
		}
	}
	if exec == nil {
		return entities.ParamAbsent, ""
	}
	for _, m := range dctx.Meetings {
		if m.IsCompleted() {
			return entities.ParamConfirmed, fmt.Sprintf("completed meeting with %s (%s) on record", exec.Name, exec.Title)
		}
	}
	return entities.ParamAbsent, ""
}

func autoMultiThreaded(dctx *DealContext) (entities.ParamState, string) {
	if len(dctx.Contacts) == 0 {
		return entities.ParamUnknown, ""
	}
	min := dctx.Config.Config.MultiThreadMin
	if min <= 0 {
		min = entities.DefaultMultiThreadMin
	}
	if len(dctx.Contacts) >= min {
		return entities.ParamConfirmed, fmt.Sprintf("%d contacts engaged", len(dctx.Contacts))
	}
	return entities.ParamAbsent, ""
}

func autoContactTitleMatch(dctx *DealContext, keywords []string) (entities.ParamState, string) {
	if len(dctx.Contacts) == 0 {
		return entities.ParamUnknown, ""
	}
	for _, c := range dctx.Contacts {
		if titleMatches(c.Title, keywords) {
			return entities.ParamConfirmed, fmt.Sprintf("%s (%s) is on the deal", c.Name, c.Title)
		}
	}
	return entities.ParamAbsent, ""
}

func autoValueAboveSegment(dctx *DealContext) (entities.ParamState, string) {
	if dctx.Deal.Value <= 0 {
		return entities.ParamUnknown, ""
	}
	average := dctx.Config.Averages.AverageFor(dctx.Deal.Segment)
	if average <= 0 {
		return entities.ParamUnknown, ""
	}
	multiplier := dctx.Config.Config.OversizeMultiplier
	if multiplier <= 0 {
		multiplier = entities.DefaultOversizeMultiplier
	}
	ratio := float64(dctx.Deal.Value) / float64(average)
	if ratio >= multiplier {
		return entities.ParamConfirmed, fmt.Sprintf("deal is %.1fx the %s average", ratio, dctx.Deal.Segment)
	}
	return entities.ParamAbsent, ""
}

func autoRecentExpansion(dctx *DealContext) (entities.ParamState, string) {
	if len(dctx.ValueHistory) == 0 {
		return entities.ParamUnknown, ""
	}
	cutoff := dctx.Now.AddDate(0, 0, -entities.DefaultRecentExpansionDays)
	for _, change := range dctx.ValueHistory {
		if change.ChangedAt.Before(cutoff) {
			break
		}
		if change.Delta() > 0 {
			return entities.ParamConfirmed, fmt.Sprintf("value grew by %d on %s", change.Delta(), change.ChangedAt.Format("2006-01-02"))
		}
	}
	return entities.ParamAbsent, ""
}

func autoNoRecentMeeting(dctx *DealContext) (entities.ParamState, string) {
	var latest *entities.Meeting
	for _, m := range dctx.Meetings {
		if m.IsCompleted() {
			latest = m
			break
		}
	}
	if latest == nil {
		return entities.ParamUnknown, ""
	}
	staleDays := dctx.Config.Config.StaleMeetingDays
	if staleDays <= 0 {
		staleDays = entities.DefaultStaleMeetingDays
	}
	age := dctx.Now.Sub(latest.StartsAt)
	if age > time.Duration(staleDays)*24*time.Hour {
		return entities.ParamConfirmed, fmt.Sprintf("last completed meeting was %d days ago", int(age.Hours()/24))
	}
	return entities.ParamAbsent, ""
}

func autoSlowReply(dctx *DealContext) (entities.ParamState, string) {
	latencies := replyLatencies(dctx.Emails)
	if len(latencies) < 2 {
		return entities.ParamUnknown, ""
	}

	latest := latencies[len(latencies)-1]
	var sum time.Duration
	for _, l := range latencies[:len(latencies)-1] {
		sum += l
	}
	mean := sum / time.Duration(len(latencies)-1)
	if mean <= 0 {
		return entities.ParamUnknown, ""
	}

	multiplier := dctx.Config.Config.SlowReplyMultiplier
	if multiplier <= 0 {
		multiplier = entities.DefaultSlowReplyMultiplier
	}
	if float64(latest) > multiplier*float64(mean) {
		return entities.ParamConfirmed, fmt.Sprintf("latest reply took %.0fh against a %.0fh average", latest.Hours(), mean.Hours())
	}
	return entities.ParamAbsent, ""
}

// replyLatencies measures how long the buyer takes to answer: each outbound
// email is paired with the next inbound one. Emails must be in chronological
// order.
func replyLatencies(emails []*entities.Email) []time.Duration {
	var latencies []time.Duration
	var pending *entities.Email
	for _, e := range emails {
		switch e.Direction {
		case entities.EmailSent:
			if pending == nil {
				pending = e
			}
		case entities.EmailReceived:
			if pending != nil {
				latencies = append(latencies, e.SentAt.Sub(pending.SentAt))
				pending = nil
			}
		}
	}
	return latencies
}

func titleMatches(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	if lower == "" {
		return false
	}
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
