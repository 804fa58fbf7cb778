package sim

import "math/rand"

// MaxNemesisGeneration caps the antagonist line outside free play.
const MaxNemesisGeneration = 5

// TickNemesis decrements truce/revenge timers (floored at zero) and counts
// down to the next spawn after a defeat. Called once per turn.
func TickNemesis(st *PlayerState, rng *rand.Rand, tun Tuning) {
	n := &st.Nemesis
	if n.TruceDaysLeft > 0 {
		n.TruceDaysLeft--
	}
	if n.RevengeDaysLeft > 0 {
		n.RevengeDaysLeft--
	}
	if n.Alive || n.SpawnCooldown <= 0 {
		return
	}
	n.SpawnCooldown--
	if n.SpawnCooldown == 0 {
		spawnNextNemesis(n, rng)
	}
}

// DefeatNemesis marks the current generation defeated and arms the spawn
// cooldown for the successor. After the final generation (outside free play)
// no cooldown is armed and the nemesis stays down for good.
func DefeatNemesis(st *PlayerState, tun Tuning) {
	n := &st.Nemesis
	if !n.Alive {
		return
	}
	n.Alive = false
	n.HP = 0
	if n.Generation >= MaxNemesisGeneration && !st.FreePlay {
		n.SpawnCooldown = 0
		return
	}
	n.SpawnCooldown = tun.NemesisSpawnCooldown
}

var archetypes = []NemesisArchetype{ArchetypeEnforcer, ArchetypeMastermind, ArchetypeGhost}

// spawnNextNemesis builds the successor one generation stronger.
func spawnNextNemesis(n *Nemesis, rng *rand.Rand) {
	n.Generation++
	n.Alive = true
	n.MaxHP = 60 + 30*(n.Generation-1)
	n.HP = n.MaxHP
	n.Power = 10 + 8*(n.Generation-1)
	n.Archetype = archetypes[rng.Intn(len(archetypes))]
	n.Abilities = abilitiesFor(n.Archetype, n.Generation)
	n.TruceDaysLeft = 0
	n.RevengeDaysLeft = 0
}

func abilitiesFor(a NemesisArchetype, gen int) []string {
	base := map[NemesisArchetype][]string{
		ArchetypeEnforcer:   {"crackdown", "shakedown"},
		ArchetypeMastermind: {"informant_web", "market_squeeze"},
		ArchetypeGhost:      {"vanish", "frame_job"},
	}
	out := append([]string(nil), base[a]...)
	if gen >= 3 {
		out = append(out, "vendetta")
	}
	if gen >= 5 {
		out = append(out, "last_stand")
	}
	return out
}
