package sim

import (
	"math/rand"
	"sort"

	"omerta/internal/content"
)

// RiskEventType enumerates the per-lab daily outcomes.
type RiskEventType string

const (
	EventLabRaid          RiskEventType = "lab_raid"
	EventContaminated     RiskEventType = "contaminated_batch"
	EventRivalSabotage    RiskEventType = "rival_sabotage"
	EventDEAInvestigation RiskEventType = "dea_investigation"
	EventBigHarvest       RiskEventType = "big_harvest"
	EventNone             RiskEventType = "none"
)

// RiskEvent is one immutable log entry; entries are append-only.
type RiskEvent struct {
	Day  int           `json:"day"`
	Lab  content.Lab   `json:"lab"`
	Type RiskEventType `json:"type"`
}

// RollRiskEvents draws exactly one weighted outcome per active, non-offline
// lab and applies its effect to the empire. Every non-"none" outcome is
// appended to the bounded event log. The rng drives all draws so a fixed seed
// replays identically.
func RollRiskEvents(emp *DrugEmpire, day int, rng *rand.Rand, tun Tuning) []RiskEvent {
	if emp == nil {
		return nil
	}
	var events []RiskEvent
	for _, lab := range sortedLabs(emp) {
		if emp.LabOffline[lab] > 0 {
			continue
		}
		spec, ok := content.LabByID(lab)
		if !ok {
			continue
		}
		ev := RiskEvent{Day: day, Lab: lab, Type: drawOutcome(rng, spec.RaidWeight, tun)}
		applyRiskEvent(emp, ev, tun)
		if ev.Type != EventNone {
			appendRiskLog(emp, ev, tun.RiskLogCap)
		}
		events = append(events, ev)
	}
	return events
}

// sortedLabs gives a deterministic iteration order over the lab map.
func sortedLabs(emp *DrugEmpire) []content.Lab {
	labs := make([]content.Lab, 0, len(emp.LabTiers))
	for lab := range emp.LabTiers {
		labs = append(labs, lab)
	}
	sort.Slice(labs, func(i, j int) bool { return labs[i] < labs[j] })
	return labs
}

// drawOutcome picks one mutually exclusive outcome. Raid-type probabilities
// scale with the lab's raid weight; the leftover mass is "none".
func drawOutcome(rng *rand.Rand, raidWeight float64, tun Tuning) RiskEventType {
	roll := rng.Float64()
	thresholds := []struct {
		p  float64
		ev RiskEventType
	}{
		{tun.ProbLabRaid * raidWeight, EventLabRaid},
		{tun.ProbContaminated, EventContaminated},
		{tun.ProbRivalSabotage, EventRivalSabotage},
		{tun.ProbDEAInvestigation, EventDEAInvestigation},
		{tun.ProbBigHarvest, EventBigHarvest},
	}
	acc := 0.0
	for _, t := range thresholds {
		acc += t.p
		if roll < acc {
			return t.ev
		}
	}
	return EventNone
}

func applyRiskEvent(emp *DrugEmpire, ev RiskEvent, tun Tuning) {
	switch ev.Type {
	case EventLabRaid:
		setLabOffline(emp, ev.Lab, tun.RaidOfflineDays)
		// A raid also seizes the standing inventory.
		emp.NoxCrystalStock = 0
	case EventContaminated:
		setLabOffline(emp, ev.Lab, tun.BadBatchDays)
	case EventRivalSabotage:
		// Sabotage halves standing stock but keeps the lab online.
		emp.NoxCrystalStock /= 2
	case EventDEAInvestigation:
		// Empire-wide countdown, not lab-scoped; restart rather than stack.
		emp.DEACountdown = tun.DEADurationDays
	case EventBigHarvest:
		if emp.HarvestBoost == nil {
			emp.HarvestBoost = map[content.Lab]bool{}
		}
		emp.HarvestBoost[ev.Lab] = true
	}
}

func setLabOffline(emp *DrugEmpire, lab content.Lab, days int) {
	if days <= 0 {
		days = 1
	}
	if emp.LabOffline == nil {
		emp.LabOffline = map[content.Lab]int{}
	}
	emp.LabOffline[lab] = days
}

func appendRiskLog(emp *DrugEmpire, ev RiskEvent, limit int) {
	emp.EventLog = append(emp.EventLog, ev)
	if limit > 0 && len(emp.EventLog) > limit {
		emp.EventLog = emp.EventLog[len(emp.EventLog)-limit:]
	}
}

// ProduceCycle advances production for every online lab, consuming any
// big-harvest boost, and decrements offline/DEA timers. Called once per turn
// after the risk roll.
func ProduceCycle(emp *DrugEmpire) {
	if emp == nil {
		return
	}
	for _, lab := range sortedLabs(emp) {
		if emp.LabOffline[lab] > 0 {
			continue
		}
		spec, ok := content.LabByID(lab)
		if !ok {
			continue
		}
		tier := emp.LabTiers[lab]
		if tier < 1 {
			tier = 1
		}
		if tier > 3 {
			tier = 3
		}
		output := spec.OutputPerTier[tier-1]
		if emp.HarvestBoost[lab] {
			output *= 2
			delete(emp.HarvestBoost, lab)
		}
		emp.NoxCrystalStock += output
	}
	for lab, days := range emp.LabOffline {
		if days <= 1 {
			delete(emp.LabOffline, lab)
		} else {
			emp.LabOffline[lab] = days - 1
		}
	}
	if emp.DEACountdown > 0 {
		emp.DEACountdown--
	}
}

// RecentEvents returns up to n most recent log entries, newest last.
func (e *DrugEmpire) RecentEvents(n int) []RiskEvent {
	if e == nil || n <= 0 {
		return nil
	}
	if len(e.EventLog) <= n {
		return append([]RiskEvent(nil), e.EventLog...)
	}
	return append([]RiskEvent(nil), e.EventLog[len(e.EventLog)-n:]...)
}
