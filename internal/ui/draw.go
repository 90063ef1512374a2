package ui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/domain/formula"
	"github.com/idlerack/idlerack/internal/domain/ledger"
	"github.com/idlerack/idlerack/internal/game"
	"github.com/idlerack/idlerack/internal/journal"
)

var (
	styleDefault  = tcell.StyleDefault
	styleHeader   = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleGood     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleWarn     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleFocus    = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// sparkRunes maps a normalized level to a bar glyph.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// visibleBuildings mirrors the unlock rule over a snapshot: below the
// compute threshold, or already owned.
func visibleBuildings(snap *game.Snapshot) []catalog.BuildingDef {
	var out []catalog.BuildingDef
	for _, def := range catalog.Buildings() {
		b, ok := snap.Buildings[def.ID]
		owned := ok && b.Count > 0
		if snap.Resources.Compute >= def.UnlockThreshold || owned {
			out = append(out, def)
		}
	}
	return out
}

// availableUpgrades mirrors the purchasable rule over a snapshot.
func availableUpgrades(snap *game.Snapshot) []catalog.UpgradeDef {
	var out []catalog.UpgradeDef
	for _, def := range catalog.Upgrades() {
		if snap.Upgrades[def.ID] {
			continue
		}
		ok := true
		for _, pre := range def.Prerequisites {
			if !snap.Upgrades[pre] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, def)
		}
	}
	return out
}

func (a *App) draw() {
	snap := a.snapshot()
	a.screen.Clear()
	width, height := a.screen.Size()
	if width < 20 || height < 10 {
		a.drawText(0, 0, styleError, "terminal too small")
		a.screen.Show()
		return
	}

	a.drawHeader(&snap, width)
	a.drawSparkline(&snap, width)

	split := width * 3 / 5
	listTop := 3
	listBottom := height - 10
	a.drawRack(&snap, 0, listTop, split-1, listBottom)
	a.drawUpgrades(&snap, split, listTop, width-split, listBottom)

	a.drawTask(&snap, 0, listBottom+1, width)
	a.drawLog(listBottom+4, height-2, width)
	a.drawStatusBar(&snap, height-1, width)

	a.screen.Show()
}

func (a *App) drawHeader(snap *game.Snapshot, width int) {
	line := fmt.Sprintf(" CPU %s  BW %s  SSD %s  REP %s  COIN %s",
		ledger.FormatShort(snap.Resources.Compute),
		ledger.FormatShort(snap.Resources.Bandwidth),
		ledger.FormatShort(snap.Resources.Storage),
		ledger.FormatShort(snap.Resources.Reputation),
		ledger.FormatShort(snap.Resources.Crypto))
	a.drawText(0, 0, styleHeader, pad(line, width))

	right := fmt.Sprintf("+%s cpu/t | tick %s | prestige %d ",
		ledger.FormatShort(snap.ProductionPerTick.Compute),
		humanize.Comma(int64(snap.TickCount)), snap.PrestigeCount)
	if a.banner != "" {
		a.drawText(0, 1, styleGood, pad(" "+a.banner, width))
	} else {
		a.drawText(0, 1, styleDim, pad(" "+right, width))
	}
}

func (a *App) drawSparkline(snap *game.Snapshot, width int) {
	history := snap.ComputeHistory
	if len(history) > width {
		history = history[len(history)-width:]
	}
	if len(history) == 0 {
		return
	}
	var max uint64 = 1
	for _, v := range history {
		if v > max {
			max = v
		}
	}
	for i, v := range history {
		idx := int(uint64(len(sparkRunes)-1) * v / max)
		a.screen.SetContent(i, 2, sparkRunes[idx], nil, styleDim)
	}
}

func (a *App) drawRack(snap *game.Snapshot, x, y, width, bottom int) {
	title := " RACK "
	style := styleDim
	if a.focus == paneRack {
		style = styleFocus
	}
	a.drawText(x, y, style, title)

	visible := visibleBuildings(snap)
	row := y + 1
	for i, def := range visible {
		if row > bottom {
			break
		}
		b := snap.Buildings[def.ID]
		cost := formula.BuildingCost(def.BaseCost, def.CostGrowth, b.Count)
		line := fmt.Sprintf(" %-18s x%-4d L%-2d %8s %s",
			truncate(def.Name, 18), b.Count, b.Level,
			ledger.FormatShort(cost), ledger.Label(def.CostKind))

		lineStyle := styleDefault
		if snap.Resources.Get(def.CostKind) < cost {
			lineStyle = styleDim
		}
		if a.focus == paneRack && i == a.rackIndex {
			lineStyle = styleSelected
		}
		a.drawText(x, row, lineStyle, pad(line, width))
		row++
	}
}

func (a *App) drawUpgrades(snap *game.Snapshot, x, y, width, bottom int) {
	title := " UPGRADES "
	style := styleDim
	if a.focus == paneUpgrades {
		style = styleFocus
	}
	a.drawText(x, y, style, title)

	avail := availableUpgrades(snap)
	row := y + 1
	for i, def := range avail {
		if row > bottom {
			break
		}
		line := fmt.Sprintf(" %-22s %8s %s",
			truncate(def.Name, 22),
			ledger.FormatShort(def.Cost.Get(costKind(def))), ledger.Label(costKind(def)))

		lineStyle := styleDefault
		if !snap.Resources.CanAfford(def.Cost) {
			lineStyle = styleDim
		}
		if a.focus == paneUpgrades && i == a.upgradeIndex {
			lineStyle = styleSelected
		}
		a.drawText(x, row, lineStyle, pad(line, width))
		row++
	}
	if len(avail) == 0 {
		a.drawText(x, y+1, styleDim, " (nothing researchable)")
	}
}

// costKind picks the dominant resource of an upgrade's cost vector for the
// one-line display.
func costKind(def catalog.UpgradeDef) ledger.Kind {
	kinds := []ledger.Kind{ledger.Compute, ledger.Bandwidth, ledger.Storage, ledger.Reputation, ledger.Crypto}
	best := ledger.Compute
	var bestVal float64
	for _, k := range kinds {
		if v := def.Cost.Get(k); v > bestVal {
			best, bestVal = k, v
		}
	}
	return best
}

func (a *App) drawTask(snap *game.Snapshot, x, y, width int) {
	title := " TASK "
	style := styleDim
	if a.focus == paneTask {
		style = styleFocus
	}
	a.drawText(x, y, style, title)

	task := snap.ActiveTask()
	if task == nil {
		a.drawText(x, y+1, styleDim, " no active task")
		return
	}
	def, ok := catalog.TaskByID(task.DefID)
	if !ok {
		return
	}
	remaining := int64(task.DeadlineTick) - int64(snap.TickCount)
	header := fmt.Sprintf(" %s  (%ds left, +%s)", def.Name, remaining/4,
		ledger.FormatShort(def.Reward.Compute+def.Reward.Bandwidth+def.Reward.Storage+def.Reward.Crypto))
	a.drawText(x, y+1, styleWarn, pad(header, width))

	switch def.Kind {
	case catalog.TaskTypeCommand:
		a.drawText(x, y+2, styleDim, pad(fmt.Sprintf(" $ %s", def.Command), width))
		a.drawText(x, y+3, styleDefault, pad(fmt.Sprintf(" > %s_", task.Input), width))
	case catalog.TaskIncidentResponse:
		a.drawText(x, y+2, styleDefault, pad(" "+def.Question, width))
		for i, opt := range def.Options {
			optStyle := styleDefault
			if i == task.Selected {
				optStyle = styleSelected
			}
			a.drawText(x+1, y+3+i, optStyle, truncate(fmt.Sprintf("%d. %s", i+1, opt), width-2))
		}
	}
}

func (a *App) drawLog(top, bottom, width int) {
	if bottom <= top {
		return
	}
	entries := a.journal.Recent(bottom - top)
	row := top
	for _, e := range entries {
		if row >= bottom {
			break
		}
		a.drawText(0, row, severityStyle(e.Severity), pad(fmt.Sprintf(" [%d] %s", e.Tick, e.Message), width))
		row++
	}
}

func (a *App) drawStatusBar(snap *game.Snapshot, y, width int) {
	help := " tab:focus  ↑↓:select  enter/b:buy  l:level  p:prestige  s:save  q:quit"
	if snap.Resources.Compute >= formula.PrestigeThreshold {
		help = fmt.Sprintf(" PRESTIGE READY: +%.0f reputation (press p) %s",
			formula.PrestigeReputation(snap.Resources.Compute), help)
	}
	a.drawText(0, y, styleHeader, pad(help, width))
}

func severityStyle(sev journal.Severity) tcell.Style {
	switch sev {
	case journal.SeverityGood:
		return styleGood
	case journal.SeverityWarning:
		return styleWarn
	case journal.SeverityError:
		return styleError
	}
	return styleDim
}

func (a *App) drawText(x, y int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		a.screen.SetContent(col, y, r, nil, style)
		col++
	}
}

func pad(s string, width int) string {
	for len([]rune(s)) < width {
		s += " "
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
