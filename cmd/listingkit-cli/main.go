package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/peterkingsmesn/listingkit"
	"github.com/peterkingsmesn/listingkit/pkg/orchestrator"
	"github.com/peterkingsmesn/listingkit/pkg/render"
	"github.com/peterkingsmesn/listingkit/pkg/renderers/tui"
	"github.com/peterkingsmesn/listingkit/pkg/renderers/vanilla"
)

func main() {
	var (
		inputFlag    = flag.String("input", "", "Listing text file to extract (\"-\" for stdin)")
		templateFlag = flag.String("template", "", "Template ID to render (house, condo, village)")
		rendererFlag = flag.String("renderer", "vanilla", "Renderer to use (vanilla, tui)")
		valuesFlag   = flag.String("values", "", "Optional JSON file with initial field values")
		outputFlag   = flag.String("output", "", "Output file (stdout when empty)")
		listFlag     = flag.Bool("list", false, "List available templates and exit")
	)
	flag.Parse()

	ctx := context.Background()

	if *listFlag {
		templates, err := listingkit.BuiltinTemplates()
		if err != nil {
			log.Fatalf("load templates: %v", err)
		}
		for _, tpl := range templates {
			fmt.Printf("%s\tv%d\t%s\n", tpl.ID, tpl.Version, tpl.Title)
		}
		return
	}

	switch {
	case *inputFlag != "":
		runExtract(*inputFlag, *outputFlag)
	case *templateFlag != "":
		runRender(ctx, *templateFlag, *rendererFlag, *valuesFlag, *outputFlag)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runExtract(input, output string) {
	text, err := readInput(input)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	draft, err := listingkit.NewDraft(string(text))
	if err != nil {
		log.Fatalf("parse listing: %v", err)
	}

	encoded, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		log.Fatalf("encode draft: %v", err)
	}
	writeOutput(output, append(encoded, '\n'))
}

func runRender(ctx context.Context, templateID, rendererName, valuesPath, output string) {
	var values map[string]any
	if valuesPath != "" {
		raw, err := os.ReadFile(valuesPath)
		if err != nil {
			log.Fatalf("read values: %v", err)
		}
		if err := json.Unmarshal(raw, &values); err != nil {
			log.Fatalf("decode values: %v", err)
		}
	}

	registry := render.NewRegistry()
	registry.MustRegister(mustVanilla())
	registry.MustRegister(mustTUI())

	gen, err := listingkit.NewOrchestrator(orchestrator.WithRegistry(registry))
	if err != nil {
		log.Fatalf("build orchestrator: %v", err)
	}

	if !registry.Has(rendererName) {
		log.Fatalf("renderer %q not registered (available: %v)", rendererName, registry.List())
	}

	rendered, err := gen.Generate(ctx, listingkit.Request{
		TemplateID: templateID,
		Renderer:   rendererName,
		Values:     values,
	})
	if err != nil {
		log.Fatalf("generate form: %v", err)
	}
	writeOutput(output, rendered)
}

func mustVanilla() render.Renderer {
	renderer, err := vanilla.New()
	if err != nil {
		log.Fatalf("build vanilla renderer: %v", err)
	}
	return renderer
}

func mustTUI() render.Renderer {
	renderer, err := tui.New()
	if err != nil {
		log.Fatalf("build tui renderer: %v", err)
	}
	return renderer
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) {
	if path == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	fmt.Printf("Written to %s\n", path)
}
