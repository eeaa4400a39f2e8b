// analyze_motion inspects a motion JSON file: global metadata, per-curve
// segment composition, fade overrides and user events. Useful for checking
// what an asset pipeline actually exported before wiring it into a model.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gonewx/motion/internal/motionjson"
	"github.com/gonewx/motion/pkg/curve"
	"github.com/gonewx/motion/pkg/motion"
)

func main() {
	samples := flag.Int("samples", 0, "print N evenly spaced samples per curve")
	binarySearch := flag.Bool("binary-bezier", false, "use the legacy binary-search bezier evaluator")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("usage: analyze_motion [flags] <motion json file>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	path := flag.Arg(0)

	doc, err := motionjson.ParseMotionFile(path)
	if err != nil {
		log.Fatalf("parse failed: %v", err)
	}

	opts := motion.ParseOptions{}
	if *binarySearch {
		opts.BezierMode = motion.BezierBinarySearch
	}
	data, err := motion.Parse(doc, opts)
	if err != nil {
		log.Fatalf("flatten failed: %v", err)
	}

	fmt.Printf("Motion file: %s\n", path)
	fmt.Printf("Duration: %.3fs  Fps: %.1f  Loop: %v  RestrictedBeziers: %v\n",
		data.Duration, data.Fps, data.Loop, doc.Meta.AreBeziersRestricted)
	fmt.Printf("Fade: in=%.3fs out=%.3fs (negative = unspecified)\n", data.FadeInTime, data.FadeOutTime)
	fmt.Printf("Curves: %d  Segments: %d  Points: %d  Events: %d\n\n",
		data.CurveCount, len(data.Segments), len(data.Points), data.EventCount())

	for i := 0; i < data.CurveCount; i++ {
		c := data.CurveAt(i)

		var typeCounts [4]int
		for s := 0; s < c.SegmentCount; s++ {
			typeCounts[data.SegmentAt(c.BaseSegmentIndex+s).Type]++
		}

		fade := ""
		if c.HasFadeOverride() {
			fade = fmt.Sprintf("  fade=[%.2f %.2f]", c.FadeInTime, c.FadeOutTime)
		}
		fmt.Printf("  %-12s %-32s segments=%-4d L=%d B=%d S=%d I=%d%s\n",
			c.Target, c.Id, c.SegmentCount,
			typeCounts[curve.SegmentLinear], typeCounts[curve.SegmentBezier],
			typeCounts[curve.SegmentStepped], typeCounts[curve.SegmentInverseStepped], fade)

		if *samples > 1 {
			for s := 0; s < *samples; s++ {
				t := data.Duration * float64(s) / float64(*samples-1)
				fmt.Printf("      t=%-8.3f v=%.5f\n", t, data.EvaluateCurve(i, t))
			}
		}
	}

	if data.EventCount() > 0 {
		fmt.Println("\nEvents:")
		for _, ev := range data.Events {
			fmt.Printf("  t=%-8.3f %q\n", ev.FireTime, ev.Value)
		}
	}
}
