package sim

import (
	"math/rand"
	"testing"
)

func TestNemesisSuccession(t *testing.T) {
	tun := DefaultTuning()
	st := NewPlayerState()
	rng := rand.New(rand.NewSource(8))

	DefeatNemesis(st, tun)
	if st.Nemesis.Alive {
		t.Fatalf("nemesis should be down after defeat")
	}
	if st.Nemesis.SpawnCooldown != tun.NemesisSpawnCooldown {
		t.Fatalf("spawn cooldown = %d, want %d", st.Nemesis.SpawnCooldown, tun.NemesisSpawnCooldown)
	}
	for i := 0; i < tun.NemesisSpawnCooldown; i++ {
		TickNemesis(st, rng, tun)
	}
	if !st.Nemesis.Alive || st.Nemesis.Generation != 2 {
		t.Fatalf("generation 2 should have spawned, got gen %d alive=%v", st.Nemesis.Generation, st.Nemesis.Alive)
	}
	if st.Nemesis.MaxHP <= 60 || st.Nemesis.Power <= 10 {
		t.Fatalf("successor should be stronger: hp %d power %d", st.Nemesis.MaxHP, st.Nemesis.Power)
	}
}

func TestNemesisGenerationCap(t *testing.T) {
	tun := DefaultTuning()
	st := NewPlayerState()
	st.Nemesis.Generation = MaxNemesisGeneration
	st.FreePlay = false

	DefeatNemesis(st, tun)
	if st.Nemesis.SpawnCooldown != 0 {
		t.Fatalf("final generation must not arm a spawn cooldown")
	}
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 50; i++ {
		TickNemesis(st, rng, tun)
	}
	if st.Nemesis.Alive {
		t.Fatalf("no nemesis may spawn after generation %d outside free play", MaxNemesisGeneration)
	}
}

func TestNemesisFreePlayKeepsSpawning(t *testing.T) {
	tun := DefaultTuning()
	st := NewPlayerState()
	st.Nemesis.Generation = MaxNemesisGeneration
	st.FreePlay = true

	DefeatNemesis(st, tun)
	rng := rand.New(rand.NewSource(10))
	for i := 0; i < tun.NemesisSpawnCooldown; i++ {
		TickNemesis(st, rng, tun)
	}
	if !st.Nemesis.Alive || st.Nemesis.Generation != MaxNemesisGeneration+1 {
		t.Fatalf("free play should spawn generation %d, got %d alive=%v",
			MaxNemesisGeneration+1, st.Nemesis.Generation, st.Nemesis.Alive)
	}
}

func TestNemesisTimersFloorAtZero(t *testing.T) {
	tun := DefaultTuning()
	st := NewPlayerState()
	st.Nemesis.TruceDaysLeft = 1
	st.Nemesis.RevengeDaysLeft = 0
	rng := rand.New(rand.NewSource(11))

	TickNemesis(st, rng, tun)
	TickNemesis(st, rng, tun)
	if st.Nemesis.TruceDaysLeft != 0 || st.Nemesis.RevengeDaysLeft != 0 {
		t.Fatalf("timers must floor at zero: truce %d revenge %d",
			st.Nemesis.TruceDaysLeft, st.Nemesis.RevengeDaysLeft)
	}
}
