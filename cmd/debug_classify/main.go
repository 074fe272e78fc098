package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"medialink/core/media"
	"medialink/core/naming"
	"medialink/core/reconcile"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func main() {
	format := flag.String("format", "", "targetFormat template to render for each path")
	target := flag.String("target", "/media", "targetPath the template is rendered under")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: debug_classify [-format TEMPLATE] [-target DIR] PATH...")
		os.Exit(2)
	}

	classifier := media.NewClassifier()
	formatter := naming.NewFormatter()

	var layer *reconcile.Layer
	if *format != "" {
		if err := formatter.Validate(*format); err != nil {
			log.Fatal(err)
		}
		engine := reconcile.NewEngine([]reconcile.Entry{{
			Directories:  []string{"."},
			TargetPath:   *target,
			TargetFormat: *format,
		}}, reconcile.Dependencies{Classifier: classifier, Formatter: formatter}, zap.NewNop())
		layer, _ = engine.Layer(0)
	}

	for _, path := range flag.Args() {
		meta, err := classifier.ExtractMetadata(path, classifier.ClassifyType(path))
		if err != nil {
			log.Fatal(err)
		}

		out := map[string]any{"path": path, "metadata": meta}
		if layer != nil {
			dest, err := layer.Destination(path, meta)
			if err != nil {
				out["error"] = err.Error()
			}
			out["destination"] = dest
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(data))
	}
}
