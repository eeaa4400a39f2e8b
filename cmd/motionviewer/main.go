// motionviewer is a debug viewer for motion files: it plots every curve
// against the clip timeline, runs the real blending pass against a throwaway
// model built from the curve ids, and animates a playhead so loop seams,
// fades and bezier evaluation modes can be inspected visually.
//
// Keys: space pauses, R restarts, B toggles the bezier evaluator,
// L toggles the loop behavior version, up/down changes playback speed,
// left/right scrolls curves. Display settings persist between runs.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/motion/internal/motionjson"
	"github.com/gonewx/motion/pkg/config"
	"github.com/gonewx/motion/pkg/curve"
	"github.com/gonewx/motion/pkg/model"
	"github.com/gonewx/motion/pkg/motion"
)

const (
	screenWidth  = 960
	screenHeight = 640

	plotLeft   = 140.0
	plotTop    = 40.0
	rowHeight  = 72.0
	rowGap     = 8.0
	plotWidth  = screenWidth - plotLeft - 20
	curveSteps = 240
	maxRows    = 7
)

// Viewer is the ebiten application state.
type Viewer struct {
	doc            *motionjson.Document
	engineSettings *config.MotionSettings
	settingsMgr    *SettingsManager

	data  *motion.MotionData
	mo    *motion.Motion
	entry *motion.PlaybackEntry
	mdl   *model.Model

	userTime    float64
	prevElapsed float64
	paused      bool
	scroll      int
	lastEvent   string
}

// rebuild re-flattens the document with the current viewer settings and
// restarts playback. Used at startup and whenever the bezier or loop mode
// changes, since evaluators are bound at parse time.
func (v *Viewer) rebuild() error {
	vs := v.settingsMgr.Settings()

	opts := v.engineSettings.ParseOptions()
	if vs.UseBinaryBezier {
		opts.BezierMode = motion.BezierBinarySearch
	}

	data, err := motion.Parse(v.doc, opts)
	if err != nil {
		return fmt.Errorf("failed to flatten motion: %w", err)
	}
	v.data = data

	v.mo = motion.New(data)
	v.engineSettings.Apply(v.mo)
	if vs.LegacyLoop {
		v.mo.SetLoopBehavior(motion.LoopBehaviorV1)
	}

	// Throwaway model with every id the motion drives, so no curve is
	// skipped as unresolved.
	var paramIds, partIds []string
	for i := 0; i < data.CurveCount; i++ {
		c := data.CurveAt(i)
		switch c.Target {
		case motion.TargetParameter:
			paramIds = append(paramIds, c.Id)
		case motion.TargetPartOpacity:
			partIds = append(partIds, c.Id)
		}
	}
	for _, id := range v.engineSettings.Effects.EyeBlinkIds {
		paramIds = append(paramIds, id)
	}
	for _, id := range v.engineSettings.Effects.LipSyncIds {
		paramIds = append(paramIds, id)
	}
	v.mdl = model.NewModel(paramIds, partIds)

	v.userTime = 0
	v.prevElapsed = 0
	v.entry = motion.NewPlaybackEntry(0)
	v.lastEvent = ""
	return nil
}

// fadeWeight plays the scheduler's role for this single motion: the overall
// weight shaped by the motion-level fade ramps.
func (v *Viewer) fadeWeight() float64 {
	w := v.mo.Weight()
	if fin := v.mo.FadeInTime(); fin > 0 {
		w *= curve.EasingSine((v.userTime - v.entry.FadeInStartTime) / fin)
	}
	if fout := v.mo.FadeOutTime(); fout > 0 && v.entry.EndTime >= 0 {
		w *= curve.EasingSine((v.entry.EndTime - v.userTime) / fout)
	}
	return w
}

func (v *Viewer) Update() error {
	vs := v.settingsMgr.Settings()
	dirty := false

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.paused = !v.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.userTime = 0
		v.prevElapsed = 0
		v.entry = motion.NewPlaybackEntry(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		vs.UseBinaryBezier = !vs.UseBinaryBezier
		dirty = true
		if err := v.rebuild(); err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		vs.LegacyLoop = !vs.LegacyLoop
		dirty = true
		if err := v.rebuild(); err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		if vs.PlaybackSpeed < 4.0 {
			vs.PlaybackSpeed *= 2
			dirty = true
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		if vs.PlaybackSpeed > 0.25 {
			vs.PlaybackSpeed /= 2
			dirty = true
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		if v.scroll < v.data.CurveCount-1 {
			v.scroll++
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		if v.scroll > 0 {
			v.scroll--
		}
	}

	if dirty {
		if err := v.settingsMgr.Save(); err != nil {
			log.Printf("[MotionViewer] Warning: %v", err)
		}
	}

	if v.paused || v.entry.Finished {
		return nil
	}

	v.userTime += vs.PlaybackSpeed / float64(ebiten.TPS())
	v.mo.DoUpdateParameters(v.mdl, v.userTime, v.fadeWeight(), v.entry)

	elapsed := v.userTime - v.entry.StartTime
	if fired := v.mo.FiredEvents(v.prevElapsed, elapsed); len(fired) > 0 {
		v.lastEvent = fired[len(fired)-1]
	}
	v.prevElapsed = elapsed

	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	vs := v.settingsMgr.Settings()

	duration := v.mo.EffectiveDuration()
	wrapped := v.mo.WrapTime(v.userTime - v.entry.StartTime)

	header := fmt.Sprintf(
		"%d curves  duration=%.2fs  t=%.2fs  speed=%.2gx  bezier=%s  loop=%s  fade=%.2f",
		v.data.CurveCount, v.data.Duration, wrapped, vs.PlaybackSpeed,
		bezierLabel(vs.UseBinaryBezier), loopLabel(vs.LegacyLoop), v.fadeWeight())
	if v.entry.Finished {
		header += "  [finished]"
	}
	if v.lastEvent != "" {
		header += "  event:" + v.lastEvent
	}
	ebitenutil.DebugPrint(screen, header)

	rows := v.data.CurveCount - v.scroll
	if rows > maxRows {
		rows = maxRows
	}

	for row := 0; row < rows; row++ {
		ci := v.scroll + row
		c := v.data.CurveAt(ci)
		top := plotTop + float64(row)*(rowHeight+rowGap)

		v.drawCurve(screen, ci, top)

		label := fmt.Sprintf("%s\n%s", c.Id, c.Target)
		ebitenutil.DebugPrintAt(screen, label, 8, int(top)+4)

		value := v.currentValue(c)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%.3f", value), 8, int(top)+36)
	}

	// Playhead across all rows.
	if duration > 0 {
		x := float32(plotLeft + plotWidth*wrapped/duration)
		vector.StrokeLine(screen, x, plotTop, x,
			float32(plotTop+float64(rows)*(rowHeight+rowGap)-rowGap), 1,
			color.RGBA{R: 0xff, G: 0x60, B: 0x60, A: 0xff}, false)
	}
}

// currentValue reads the blended value the last pass wrote for a curve's
// target, falling back to a raw sample for model-group curves.
func (v *Viewer) currentValue(c *motion.MotionCurve) float64 {
	switch c.Target {
	case motion.TargetParameter:
		if i := v.mdl.ParameterIndex(c.Id); i >= 0 {
			return v.mdl.ParameterValue(i)
		}
	case motion.TargetPartOpacity:
		if i := v.mdl.PartIndex(c.Id); i >= 0 {
			return v.mdl.PartOpacity(i)
		}
	case motion.TargetModel:
		if c.Id == motion.IdOpacity {
			return v.mdl.Opacity()
		}
	}
	elapsed := v.userTime - v.entry.StartTime
	return v.data.EvaluateCurve(indexOf(v.data, c), elapsed)
}

// drawCurve plots one curve across the clip duration, normalized to its own
// value range.
func (v *Viewer) drawCurve(screen *ebiten.Image, ci int, top float64) {
	duration := v.data.Duration
	if duration <= 0 {
		return
	}

	minV, maxV := v.data.EvaluateCurve(ci, 0), v.data.EvaluateCurve(ci, 0)
	values := make([]float64, curveSteps+1)
	for s := 0; s <= curveSteps; s++ {
		val := v.data.EvaluateCurve(ci, duration*float64(s)/curveSteps)
		values[s] = val
		if val < minV {
			minV = val
		}
		if val > maxV {
			maxV = val
		}
	}
	span := maxV - minV
	if span < 1e-9 {
		span = 1
	}

	clr := color.RGBA{R: 0x60, G: 0xc0, B: 0xff, A: 0xff}
	for s := 0; s < curveSteps; s++ {
		x0 := float32(plotLeft + plotWidth*float64(s)/curveSteps)
		x1 := float32(plotLeft + plotWidth*float64(s+1)/curveSteps)
		y0 := float32(top + rowHeight - rowHeight*(values[s]-minV)/span)
		y1 := float32(top + rowHeight - rowHeight*(values[s+1]-minV)/span)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, false)
	}
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func indexOf(d *motion.MotionData, c *motion.MotionCurve) int {
	for i := 0; i < d.CurveCount; i++ {
		if d.CurveAt(i) == c {
			return i
		}
	}
	return 0
}

func bezierLabel(binary bool) string {
	if binary {
		return "binary-search"
	}
	return "cardano"
}

func loopLabel(legacy bool) string {
	if legacy {
		return "v1"
	}
	return "v2"
}

func main() {
	settingsPath := flag.String("settings", "", "optional engine settings yaml")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("usage: motionviewer [flags] <motion json file>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	doc, err := motionjson.ParseMotionFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("parse failed: %v", err)
	}

	engineSettings := config.DefaultMotionSettings()
	if *settingsPath != "" {
		engineSettings, err = config.LoadMotionSettings(*settingsPath)
		if err != nil {
			log.Fatalf("settings failed: %v", err)
		}
	}

	v := &Viewer{
		doc:            doc,
		engineSettings: engineSettings,
		settingsMgr:    NewSettingsManager(),
	}
	if err := v.rebuild(); err != nil {
		log.Fatalf("%v", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("motionviewer - " + flag.Arg(0))
	if err := ebiten.RunGame(v); err != nil {
		log.Fatalf("viewer exited: %v", err)
	}
}
