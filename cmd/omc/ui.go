package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"omerta/internal/content"
	"omerta/internal/game"
	"omerta/internal/sim"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

type districtsPayload struct {
	Districts []game.DistrictStanding `json:"districts"`
}

type leaderboardPayload struct {
	Rows []game.LeaderboardEntry `json:"rows"`
}

type stocksPayload struct {
	Market   sim.Market             `json:"market"`
	Holdings map[string]sim.Holding `json:"holdings"`
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptOptional(label string) (string, error) {
	fmt.Printf("%s: ", label)
	text, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func parseAmount(raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("enter a whole number: %w", err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	return v, nil
}

func parsePayload(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("invalid payload JSON: %w", err)
	}
	return out, nil
}

func renderResult(r game.Result) {
	if r.Success {
		printSuccess(r.Message)
	} else {
		danger.Printf("%s", r.Message)
		if r.Code != "" {
			fmt.Printf(" [%s]", r.Code)
		}
		fmt.Println()
	}
	if len(r.Data) > 0 {
		raw, err := json.MarshalIndent(r.Data, "", "  ")
		if err == nil {
			fmt.Println(string(raw))
		}
	}
}

func renderState(raw map[string]any) error {
	st, err := decodeInto[sim.PlayerState](raw)
	if err != nil {
		return err
	}

	accent.Printf("\n== EMPIRE (Day %d) ==\n", st.Day)
	fmt.Printf("Clean money:  %s\n", comma(st.Money))
	fmt.Printf("Dirty money:  %s\n", comma(st.DirtyMoney))
	fmt.Printf("Debt:         %s\n", colorizeDebt(st.Debt))
	fmt.Printf("Net worth:    %s\n", comma(st.NetWorth()))
	fmt.Printf("Heat:         %s\n", colorizeHeat(st.Heat))
	fmt.Printf("Personal:     %s\n", colorizeHeat(st.PersonalHeat))
	fmt.Printf("Location:     %s\n", st.Location)

	if len(st.OwnedDistricts) > 0 {
		fmt.Println()
		accent.Println("Districts")
		for _, d := range st.OwnedDistricts {
			fmt.Printf("  %s\n", d)
		}
	}
	if len(st.Holdings) > 0 {
		fmt.Println()
		accent.Println("Holdings")
		fmt.Printf("%-12s %10s %12s %12s\n", "STOCK", "SHARES", "AVG BUY", "NOW")
		for _, stock := range sortedHoldingKeys(st) {
			h := st.Holdings[content.Stock(stock)]
			fmt.Printf("%-12s %10d %12s %12s\n",
				stock, h.Shares, comma(h.AvgBuyPrice), comma(st.Market.Prices[content.Stock(stock)]))
		}
	}
	if len(st.Inventory) > 0 {
		fmt.Println()
		accent.Println("Contraband")
		goods := make([]string, 0, len(st.Inventory))
		for g := range st.Inventory {
			goods = append(goods, string(g))
		}
		sort.Strings(goods)
		for _, g := range goods {
			local := content.GoodPrice(content.Good(g), st.Location)
			fmt.Printf("  %-14s x%-6d local %s\n", g, st.Inventory[content.Good(g)], comma(local))
		}
	}
	if st.Nemesis.Alive {
		fmt.Println()
		accent.Println("Nemesis")
		fmt.Printf("  Gen %d %s, %d/%d HP, power %d\n",
			st.Nemesis.Generation, st.Nemesis.Archetype,
			st.Nemesis.HP, st.Nemesis.MaxHP, st.Nemesis.Power)
	}
	if events := st.DrugEmpire.RecentEvents(5); len(events) > 0 {
		fmt.Println()
		accent.Println("Recent lab events")
		for _, ev := range events {
			fmt.Printf("  day %d  %-14s %s\n", ev.Day, ev.Lab, ev.Type)
		}
	}
	fmt.Println()
	return nil
}

func renderWorld(ws game.WorldState) {
	accent.Printf("\n== WORLD (Day %d) ==\n", ws.WorldDay)
	fmt.Printf("Tick:     %d/96\n", ws.TickInDay)
	fmt.Printf("Phase:    %s\n", ws.TimeOfDay)
	fmt.Printf("Weather:  %s\n", ws.Weather)
	fmt.Printf("Next:     %s\n", ws.NextCycleAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Println()
}

func renderStocks(raw map[string]any) error {
	out, err := decodeInto[stocksPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== STOCK MARKET ==")
	symbols := make([]string, 0, len(out.Market.Prices))
	for s := range out.Market.Prices {
		symbols = append(symbols, string(s))
	}
	sort.Strings(symbols)
	fmt.Printf("%-12s %12s %10s %12s\n", "STOCK", "PRICE", "HELD", "AVG BUY")
	for _, symbol := range symbols {
		held := int64(0)
		avg := int64(0)
		if h, ok := out.Holdings[symbol]; ok {
			held = h.Shares
			avg = h.AvgBuyPrice
		}
		avgText := "-"
		if held > 0 {
			avgText = comma(avg)
		}
		fmt.Printf("%-12s %12s %10d %12s\n", symbol, comma(priceFor(out.Market, symbol)), held, avgText)
	}
	if out.Market.Event != nil {
		fmt.Println()
		warn.Printf("News: %s (%d days left)\n", out.Market.Event.Headline, out.Market.Event.DaysLeft)
	}
	fmt.Println()
	return nil
}

func renderDistricts(raw map[string]any) error {
	out, err := decodeInto[districtsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== DISTRICT INFLUENCE ==")
	if len(out.Districts) == 0 {
		printInfo("No influence recorded yet.")
		return nil
	}
	fmt.Printf("%-14s %-16s %10s %-10s\n", "DISTRICT", "GANG", "INFLUENCE", "CONTROL")
	for _, st := range out.Districts {
		control := ""
		if st.Controller {
			control = success.Sprint("yes")
		}
		fmt.Printf("%-14s %-16s %10d %-10s\n", st.District, truncate(st.Gang, 16), st.Influence, control)
	}
	fmt.Println()
	return nil
}

func renderLeaderboard(raw map[string]any) error {
	out, err := decodeInto[leaderboardPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== LEADERBOARD ==")
	if len(out.Rows) == 0 {
		printInfo("No players ranked yet.")
		return nil
	}
	fmt.Printf("%-6s %-18s %-14s %14s %6s\n", "RANK", "PLAYER", "GANG", "NET WORTH", "DAY")
	for i, row := range out.Rows {
		fmt.Printf("%-6d %-18s %-14s %14s %6d\n",
			i+1, truncate(row.Username, 18), truncate(row.Gang, 14), comma(row.NetWorth), row.Day)
	}
	fmt.Println()
	return nil
}

func printFeedEvent(data []byte) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		fmt.Println(string(data))
		return
	}
	pretty, err := json.Marshal(obj)
	if err != nil {
		fmt.Println(string(data))
		return
	}
	neutral.Println(string(pretty))
}

func decodeInto[T any](in any) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func sortedHoldingKeys(st sim.PlayerState) []string {
	keys := make([]string, 0, len(st.Holdings))
	for s := range st.Holdings {
		keys = append(keys, string(s))
	}
	sort.Strings(keys)
	return keys
}

func priceFor(m sim.Market, symbol string) int64 {
	for s, p := range m.Prices {
		if string(s) == symbol {
			return p
		}
	}
	return 0
}

func colorizeHeat(v int) string {
	text := strconv.Itoa(v)
	switch sim.ClassifyHeat(v) {
	case sim.HeatCritical:
		return danger.Sprint(text)
	case sim.HeatWarning:
		return warn.Sprint(text)
	default:
		return success.Sprint(text)
	}
}

func colorizeDebt(v int64) string {
	text := comma(v)
	if v > sim.MaxDebtToAdvance {
		return danger.Sprint(text)
	}
	if v > 0 {
		return warn.Sprint(text)
	}
	return success.Sprint(text)
}

func comma(v int64) string {
	sign := ""
	u := uint64(v)
	if v < 0 {
		// Negate via uint64 so MinInt64 does not overflow.
		sign = "-"
		u = uint64(-(v + 1)) + 1
	}
	s := strconv.FormatUint(u, 10)
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return sign + b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
