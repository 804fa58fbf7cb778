package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"omerta/internal/content"
	"omerta/internal/sim"
)

// influencePerUnit converts spent clean money into influence points.
const influencePerUnit = 250

// controlsDistrict checks a standing against the district's own threshold.
// Rich districts take a lot more influence to hold than the lowrise.
func controlsDistrict(d content.District, influence int64) bool {
	spec, ok := content.DistrictByID(d)
	if !ok {
		return false
	}
	return influence >= spec.InfluenceThreshold
}

// DistrictStanding is one row of the public influence table.
type DistrictStanding struct {
	District   content.District `json:"district"`
	Gang       string           `json:"gang"`
	Influence  int64            `json:"influence"`
	Controller bool             `json:"controller"`
}

// LeaderboardEntry ranks players by declared net worth.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Gang     string `json:"gang"`
	NetWorth int64  `json:"net_worth"`
	Day      int    `json:"day"`
}

// contributeInfluence spends clean money on a gang's standing in a district.
// It touches both the player document and the shared aggregate rows, so it
// runs in its own transaction rather than through dispatch.
func (s *Service) contributeInfluence(ctx context.Context, userID string, act Action) (Result, error) {
	var p influencePayload
	if err := decodePayload(act.Payload, &p); err != nil {
		return failResult(err), nil
	}
	if _, ok := content.DistrictByID(p.District); !ok {
		return Result{Success: false, Code: "not_found", Message: fmt.Sprintf("unknown district %q", p.District)}, nil
	}
	if p.Amount <= 0 || p.Amount%influencePerUnit != 0 {
		return Result{Success: false, Code: "invalid_amount",
			Message: fmt.Sprintf("amount must be a positive multiple of %d", influencePerUnit)}, nil
	}

	var result Result
	err := s.withSerializableTx(ctx, func(tx pgx.Tx) error {
		if err := claimIdempotency(ctx, tx, userID, act.IdempotencyKey, string(act.Name)); err != nil {
			return err
		}
		st, err := loadStateTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if st.Money < p.Amount {
			return fmt.Errorf("%w: need %d clean", sim.ErrInsufficientFunds, p.Amount)
		}
		var gang string
		if err := tx.QueryRow(ctx,
			`SELECT COALESCE(gang, '') FROM omerta.profiles WHERE user_id = $1`, userID).Scan(&gang); err != nil {
			return fmt.Errorf("load gang: %w", err)
		}
		if strings.TrimSpace(gang) == "" {
			return ErrNoGang
		}

		st.Money -= p.Amount
		points := p.Amount / influencePerUnit
		if err := saveStateTx(ctx, tx, userID, st); err != nil {
			return err
		}
		if err := appendLedgerEntries(ctx, tx, userID, string(act.Name), -p.Amount, 0); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO omerta.district_influence (district, gang, influence)
			VALUES ($1, $2, $3)
			ON CONFLICT (district, gang)
			DO UPDATE SET influence = omerta.district_influence.influence + EXCLUDED.influence`,
			string(p.District), gang, points)
		if err != nil {
			return fmt.Errorf("upsert influence: %w", err)
		}
		result = okResult(fmt.Sprintf("%d influence added in %s", points, p.District), map[string]any{
			"district":  p.District,
			"gang":      gang,
			"influence": points,
		})
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return failResult(err), nil
		}
		return Result{}, err
	}

	s.publish("omerta.feed.territory", map[string]any{
		"event":    "territory_change",
		"district": p.District,
	})
	return result, nil
}

// Districts returns the full influence table, controller flags resolved
// against each district's own threshold. Only the top gang per district can
// control it.
func (s *Service) Districts(ctx context.Context) ([]DistrictStanding, error) {
	rows, err := s.db.Query(ctx, `
		SELECT district, gang, influence
		FROM omerta.district_influence
		ORDER BY district, influence DESC, gang`)
	if err != nil {
		return nil, fmt.Errorf("query influence: %w", err)
	}
	defer rows.Close()

	var out []DistrictStanding
	topSeen := map[string]bool{}
	for rows.Next() {
		var st DistrictStanding
		var district string
		if err := rows.Scan(&district, &st.Gang, &st.Influence); err != nil {
			return nil, fmt.Errorf("scan influence row: %w", err)
		}
		st.District = content.District(district)
		if !topSeen[district] && controlsDistrict(st.District, st.Influence) {
			st.Controller = true
		}
		topSeen[district] = true
		out = append(out, st)
	}
	return out, rows.Err()
}

// Leaderboard ranks the top players by persisted net worth.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	limit = clampLeaderboardLimit(limit)
	rows, err := s.db.Query(ctx, `
		SELECT pr.username, COALESCE(pr.gang, ''), pl.net_worth, pl.day
		FROM omerta.players pl
		JOIN omerta.profiles pr ON pr.user_id = pl.user_id
		ORDER BY pl.net_worth DESC, pr.username
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Gang, &e.NetWorth, &e.Day); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// clampLeaderboardLimit defaults unset limits to 20 and caps oversized
// requests at 100 instead of shrinking them.
func clampLeaderboardLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// decayInfluenceTx shaves ten percent off every standing on day rollover and
// clears dead rows so abandoned gangs fade out of the table.
func decayInfluenceTx(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `
		UPDATE omerta.district_influence
		SET influence = (influence * 9) / 10`); err != nil {
		return fmt.Errorf("decay influence: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM omerta.district_influence WHERE influence <= 0`); err != nil {
		return fmt.Errorf("prune influence: %w", err)
	}
	return nil
}
