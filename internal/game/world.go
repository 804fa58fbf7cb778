package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"omerta/internal/content"
)

// WorldState mirrors the single omerta.world_state row shared by everyone.
type WorldState struct {
	WorldDay    int               `json:"world_day"`
	TickInDay   int               `json:"tick_in_day"`
	TimeOfDay   content.TimeOfDay `json:"time_of_day"`
	Weather     content.Weather   `json:"weather"`
	NextCycleAt time.Time         `json:"next_cycle_at"`
}

// World returns the current shared clock row.
func (s *Service) World(ctx context.Context) (WorldState, error) {
	var ws WorldState
	var weather string
	err := s.db.QueryRow(ctx, `
		SELECT world_day, tick_in_day, weather, next_cycle_at
		FROM omerta.world_state
		WHERE id = 1`).Scan(&ws.WorldDay, &ws.TickInDay, &weather, &ws.NextCycleAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorldState{}, fmt.Errorf("world_state row missing, run migrations")
	}
	if err != nil {
		return WorldState{}, fmt.Errorf("load world state: %w", err)
	}
	ws.Weather = content.Weather(weather)
	ws.TimeOfDay = content.PhaseForTick(ws.TickInDay)
	return ws, nil
}

// RunWorldTick advances the shared clock by one tick. On the 96th tick the
// world day rolls over, weather reshuffles and district influence decays.
// Safe to run from several workers; the row lock serializes them.
func (s *Service) RunWorldTick(ctx context.Context, interval time.Duration) (WorldState, error) {
	var ws WorldState
	err := s.withSerializableTx(ctx, func(tx pgx.Tx) error {
		var weather string
		err := tx.QueryRow(ctx, `
			SELECT world_day, tick_in_day, weather
			FROM omerta.world_state
			WHERE id = 1
			FOR UPDATE`).Scan(&ws.WorldDay, &ws.TickInDay, &weather)
		if err != nil {
			return fmt.Errorf("lock world state: %w", err)
		}
		ws.Weather = content.Weather(weather)

		ws.TickInDay++
		rollover := ws.TickInDay >= content.TicksPerDay
		if rollover {
			ws.TickInDay = 0
			ws.WorldDay++
			ws.Weather = s.rollWeather()
			if err := decayInfluenceTx(ctx, tx); err != nil {
				return err
			}
		}
		ws.TimeOfDay = content.PhaseForTick(ws.TickInDay)
		ws.NextCycleAt = time.Now().UTC().Add(interval)

		_, err = tx.Exec(ctx, `
			UPDATE omerta.world_state
			SET world_day = $1, tick_in_day = $2, weather = $3, next_cycle_at = $4
			WHERE id = 1`,
			ws.WorldDay, ws.TickInDay, string(ws.Weather), ws.NextCycleAt)
		if err != nil {
			return fmt.Errorf("save world state: %w", err)
		}
		return nil
	})
	if err != nil {
		return WorldState{}, err
	}

	if ws.TickInDay == 0 {
		s.publish("omerta.feed.world", map[string]any{
			"event":   "day_rollover",
			"day":     ws.WorldDay,
			"weather": ws.Weather,
		})
		s.log.Info("world day rolled over", "day", ws.WorldDay, "weather", ws.Weather)
	}
	return ws, nil
}

// rollWeather draws tomorrow's weather. Clear skies are the most likely
// outcome, storms the least.
func (s *Service) rollWeather() content.Weather {
	r := s.rng().Float64()
	switch {
	case r < 0.40:
		return content.WeatherClear
	case r < 0.60:
		return content.WeatherRain
	case r < 0.75:
		return content.WeatherFog
	case r < 0.90:
		return content.WeatherHeatwave
	default:
		return content.WeatherStorm
	}
}
