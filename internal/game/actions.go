package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"omerta/internal/content"
	"omerta/internal/sim"
)

// ActionName is the closed set of player actions.
type ActionName string

const (
	ActionEndTurn          ActionName = "end_turn"
	ActionTrade            ActionName = "trade"
	ActionWashMoney        ActionName = "wash_money"
	ActionBuyStock         ActionName = "buy_stock"
	ActionSellStock        ActionName = "sell_stock"
	ActionBuyDistrict      ActionName = "buy_district"
	ActionBuyBusiness      ActionName = "buy_business"
	ActionStealCar         ActionName = "steal_car"
	ActionBuyVehicle       ActionName = "buy_vehicle"
	ActionRepairVehicle    ActionName = "repair_vehicle"
	ActionCleanVehicle     ActionName = "clean_vehicle"
	ActionSellStolenCar    ActionName = "sell_stolen_car"
	ActionBuySafehouse     ActionName = "buy_safehouse"
	ActionUpgradeSafehouse ActionName = "upgrade_safehouse"
	ActionAssignDealer     ActionName = "assign_dealer"
	ActionSetLabQuality    ActionName = "set_lab_quality"
	ActionBuyLab           ActionName = "buy_lab"
	ActionBuyVillaModule   ActionName = "buy_villa_module"
	ActionHireCrew         ActionName = "hire_crew"
	ActionPayDebt          ActionName = "pay_debt"
	ActionTakeLoan         ActionName = "take_loan"
	ActionTravel           ActionName = "travel"
	ActionContribute       ActionName = "contribute_influence"
)

// ValidAction reports whether the name is part of the action surface.
func ValidAction(name ActionName) bool {
	switch name {
	case ActionEndTurn, ActionTrade, ActionWashMoney, ActionBuyStock, ActionSellStock,
		ActionBuyDistrict, ActionBuyBusiness, ActionStealCar, ActionBuyVehicle,
		ActionRepairVehicle, ActionCleanVehicle, ActionSellStolenCar,
		ActionBuySafehouse, ActionUpgradeSafehouse, ActionAssignDealer,
		ActionSetLabQuality, ActionBuyLab, ActionBuyVillaModule, ActionHireCrew,
		ActionPayDebt, ActionTakeLoan, ActionTravel, ActionContribute:
		return true
	}
	return false
}

// Action is the wire form accepted by POST /v1/action.
type Action struct {
	Name           ActionName      `json:"action"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	IdempotencyKey string          `json:"-"`
}

// Result is the discriminated outcome envelope. Code is a stable machine
// identifier; Message is for humans.
type Result struct {
	Success bool           `json:"success"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func okResult(message string, data map[string]any) Result {
	return Result{Success: true, Message: message, Data: data}
}

func failResult(err error) Result {
	return Result{Success: false, Code: codeForError(err), Message: err.Error()}
}

// codeForError maps domain errors to stable result codes.
func codeForError(err error) string {
	switch {
	case errors.Is(err, sim.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, sim.ErrInsufficientDirty):
		return "insufficient_dirty_money"
	case errors.Is(err, sim.ErrInsufficientShares):
		return "insufficient_shares"
	case errors.Is(err, sim.ErrWashQuotaExceeded):
		return "wash_quota_exceeded"
	case errors.Is(err, sim.ErrDebtTooHigh):
		return "debt_too_high"
	case errors.Is(err, sim.ErrCarNotCleaned):
		return "car_not_cleaned"
	case errors.Is(err, sim.ErrInsufficientGoods):
		return "insufficient_goods"
	case errors.Is(err, sim.ErrUnknownStock),
		errors.Is(err, sim.ErrUnknownDistrict),
		errors.Is(err, sim.ErrUnknownLab),
		errors.Is(err, sim.ErrUnknownGood),
		errors.Is(err, sim.ErrUnknownCarType),
		errors.Is(err, sim.ErrUnknownModule),
		errors.Is(err, sim.ErrUnknownRole),
		errors.Is(err, sim.ErrCarNotFound),
		errors.Is(err, sim.ErrVehicleNotFound),
		errors.Is(err, sim.ErrSafehouseNotFound):
		return "not_found"
	case errors.Is(err, sim.ErrSafehouseExists):
		return "already_exists"
	case errors.Is(err, sim.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrDuplicateIdempotency):
		return "duplicate_request"
	case errors.Is(err, ErrTxConflict):
		return "conflict"
	case errors.Is(err, ErrPlayerNotFound):
		return "player_not_found"
	case errors.Is(err, ErrNoGang):
		return "gang_required"
	default:
		return "invalid_action"
	}
}

// Payload shapes.
type washPayload struct {
	Amount int64 `json:"amount"`
}
type tradePayload struct {
	GoodID   content.Good  `json:"good_id"`
	Mode     sim.TradeMode `json:"mode"`
	Quantity int64         `json:"quantity"`
}
type stockPayload struct {
	StockID content.Stock `json:"stock_id"`
	Shares  int64         `json:"shares"`
}
type districtPayload struct {
	District content.District `json:"district"`
}
type businessPayload struct {
	Business content.Business `json:"business"`
}
type vehiclePayload struct {
	VehicleID string `json:"vehicle_id"`
}
type carModelPayload struct {
	CarType content.CarType `json:"car_type"`
}
type villaModulePayload struct {
	Module content.VillaModule `json:"module"`
}
type crewPayload struct {
	Name string           `json:"name"`
	Role content.CrewRole `json:"role"`
}
type dealerPayload struct {
	Name        string           `json:"name"`
	District    content.District `json:"district"`
	MarketShare int              `json:"market_share"`
}
type labQualityPayload struct {
	Lab  content.Lab `json:"lab"`
	Tier int         `json:"tier"`
}
type labPayload struct {
	Lab content.Lab `json:"lab"`
}
type amountPayload struct {
	Amount int64 `json:"amount"`
}
type influencePayload struct {
	District content.District `json:"district"`
	Amount   int64            `json:"amount"`
}

func decodePayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return fmt.Errorf("payload is required")
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

// ApplyAction runs one player action against the locked state row. Domain
// failures come back as an unsuccessful Result with a nil error; the error
// return is reserved for infrastructure problems.
func (s *Service) ApplyAction(ctx context.Context, userID string, act Action) (Result, error) {
	if !ValidAction(act.Name) {
		return Result{Success: false, Code: "unknown_action", Message: fmt.Sprintf("unknown action %q", act.Name)}, nil
	}
	if act.Name == ActionContribute {
		// Influence lives in aggregate rows, not the player document.
		return s.contributeInfluence(ctx, userID, act)
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
		prevClean, prevDirty := st.Money, st.DirtyMoney

		next, res, err := s.dispatch(st, act)
		if err != nil {
			return err
		}
		if err := saveStateTx(ctx, tx, userID, next); err != nil {
			return err
		}
		if err := appendLedgerEntries(ctx, tx, userID, string(act.Name),
			next.Money-prevClean, next.DirtyMoney-prevDirty); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return failResult(err), nil
		}
		return Result{}, err
	}

	s.publish("omerta.feed.activity", map[string]any{
		"user_id": userID,
		"action":  act.Name,
		"code":    result.Code,
	})
	return result, nil
}

// dispatch mutates st (or returns a fresh state for end_turn) and builds the
// success result. Any returned error aborts the surrounding transaction.
func (s *Service) dispatch(st *sim.PlayerState, act Action) (*sim.PlayerState, Result, error) {
	tun := s.tuning
	switch act.Name {
	case ActionEndTurn:
		next, report, err := sim.AdvanceDay(st, s.rng(), tun)
		if err != nil {
			return nil, Result{}, err
		}
		return next, okResult(fmt.Sprintf("day %d complete", report.Day), map[string]any{
			"report": report,
			"day":    next.Day,
		}), nil

	case ActionTrade:
		var p tradePayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		rec, err := sim.TradeGood(st, p.GoodID, p.Mode, p.Quantity)
		if err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("%s %d %s at %d", rec.Mode, rec.Quantity, rec.Good, rec.UnitPrice), map[string]any{
			"receipt": rec,
		}), nil

	case ActionWashMoney:
		var p washPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		rec, err := sim.Wash(st, p.Amount, tun)
		if err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("washed %d into %d clean", rec.Washed, rec.CleanGain), map[string]any{
			"receipt": rec,
		}), nil

	case ActionBuyStock:
		var p stockPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.BuyStock(st, p.StockID, p.Shares); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("bought %d %s", p.Shares, p.StockID), map[string]any{
			"holding": st.Holdings[p.StockID],
		}), nil

	case ActionSellStock:
		var p stockPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		profit, err := sim.SellStock(st, p.StockID, p.Shares)
		if err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("sold %d %s", p.Shares, p.StockID), map[string]any{
			"realized_profit": profit,
		}), nil

	case ActionBuyDistrict:
		var p districtPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.BuyDistrict(st, p.District); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("district %s acquired", p.District), nil), nil

	case ActionBuyBusiness:
		var p businessPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.BuyBusiness(st, p.Business); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("business %s acquired", p.Business), nil), nil

	case ActionStealCar:
		var p carModelPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		car, err := sim.StealCar(st, p.CarType, s.rng())
		if err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("boosted a %s", p.CarType), map[string]any{
			"car": car,
		}), nil

	case ActionBuyVehicle:
		var p carModelPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.BuyVehicle(st, p.CarType); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("bought a %s", p.CarType), map[string]any{
			"vehicle": st.Vehicles[len(st.Vehicles)-1],
		}), nil

	case ActionRepairVehicle:
		var p vehiclePayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.RepairVehicle(st, p.VehicleID); err != nil {
			return nil, Result{}, err
		}
		return st, okResult("vehicle repaired", nil), nil

	case ActionCleanVehicle:
		var p vehiclePayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.CleanStolenCar(st, p.VehicleID); err != nil {
			return nil, Result{}, err
		}
		return st, okResult("car cleaned", nil), nil

	case ActionSellStolenCar:
		var p vehiclePayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		price, err := sim.SellStolenCar(st, p.VehicleID)
		if err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("car sold for %d dirty", price), map[string]any{
			"price": price,
		}), nil

	case ActionBuySafehouse:
		var p districtPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.BuySafehouse(st, p.District); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("safehouse opened in %s", p.District), nil), nil

	case ActionUpgradeSafehouse:
		var p districtPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.UpgradeSafehouse(st, p.District); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("safehouse in %s upgraded", p.District), nil), nil

	case ActionAssignDealer:
		var p dealerPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.AssignDealer(st, p.Name, p.District, p.MarketShare); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("dealer %s working %s", p.Name, p.District), nil), nil

	case ActionSetLabQuality:
		var p labQualityPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.SetLabQuality(st, p.Lab, p.Tier); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("lab %s cooking at tier %d", p.Lab, p.Tier), nil), nil

	case ActionBuyLab:
		var p labPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.BuyLab(st, p.Lab); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("lab %s at tier %d", p.Lab, st.DrugEmpire.LabTiers[p.Lab]), nil), nil

	case ActionBuyVillaModule:
		var p villaModulePayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.BuyVillaModule(st, p.Module); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("villa %s installed", p.Module), nil), nil

	case ActionHireCrew:
		var p crewPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.HireCrew(st, p.Name, p.Role); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("%s joined as %s", p.Name, p.Role), nil), nil

	case ActionPayDebt:
		var p amountPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.PayDebt(st, p.Amount); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("debt down to %d", st.Debt), nil), nil

	case ActionTakeLoan:
		var p amountPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.TakeLoan(st, p.Amount); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("borrowed %d, debt now %d", p.Amount, st.Debt), nil), nil

	case ActionTravel:
		var p districtPayload
		if err := decodePayload(act.Payload, &p); err != nil {
			return nil, Result{}, err
		}
		if err := sim.TravelTo(st, p.District); err != nil {
			return nil, Result{}, err
		}
		return st, okResult(fmt.Sprintf("moved to %s", p.District), nil), nil
	}
	return nil, Result{}, fmt.Errorf("unknown action %q", act.Name)
}

// isDomainError separates gameplay preconditions from infrastructure faults.
func isDomainError(err error) bool {
	for _, sentinel := range []error{
		sim.ErrInsufficientFunds, sim.ErrInsufficientDirty, sim.ErrInsufficientShares,
		sim.ErrWashQuotaExceeded, sim.ErrDebtTooHigh, sim.ErrUnknownStock,
		sim.ErrUnknownDistrict, sim.ErrUnknownLab, sim.ErrUnknownGood,
		sim.ErrUnknownCarType, sim.ErrUnknownModule, sim.ErrUnknownRole,
		sim.ErrInsufficientGoods, sim.ErrCarNotCleaned,
		sim.ErrCarNotFound, sim.ErrVehicleNotFound, sim.ErrSafehouseExists,
		sim.ErrSafehouseNotFound, sim.ErrInvalidAmount,
		ErrDuplicateIdempotency, ErrPlayerNotFound, ErrNoGang,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	// Payload decode problems and rule violations raised with fmt.Errorf.
	return !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) &&
		!isSerializationError(err) &&
		!isInfraError(err)
}

func isInfraError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr)
}
